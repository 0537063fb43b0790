package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/idrealestat/aqariai-core/internal/api"
	"github.com/idrealestat/aqariai-core/internal/config"
	"github.com/idrealestat/aqariai-core/internal/remote"
	"github.com/idrealestat/aqariai-core/internal/services"
	"github.com/idrealestat/aqariai-core/internal/store"
	"github.com/idrealestat/aqariai-core/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the local record store
	var kv store.KV
	if cfg.StorePath == "" {
		log.Println("STORE_PATH empty: using in-memory store (data will not survive restart).")
		kv = store.NewMemoryStore()
	} else {
		sqliteStore, err := store.NewSQLiteStore(context.Background(), cfg.StorePath)
		if err != nil {
			log.Fatalf("Failed to open record store at %s: %v", cfg.StorePath, err)
		}
		kv = sqliteStore
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Printf("Error closing record store: %v", err)
		}
	}()

	// Optional remote mirror; the local store stays the source of truth.
	var mirror remote.Mirror = remote.NoopMirror{}
	if cfg.RemoteBaseURL != "" {
		mirror = remote.NewHTTPMirror(cfg.RemoteBaseURL)
		log.Printf("Remote mirror enabled against %s (best effort).", cfg.RemoteBaseURL)
	}

	// Optional Redis for background tasks
	var redisClient *redis.Client
	var enqueuer services.ITaskEnqueuer
	var taskClient *asynq.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			cancel()
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		cancel()
		taskClient = tasks.NewClient(redisClient)
		defer taskClient.Close()
		enqueuer = tasks.NewEnqueuer(taskClient)
	} else {
		log.Println("REDIS_ADDR empty: background task queue disabled.")
	}

	// WaitGroup for managing goroutines
	var wg sync.WaitGroup

	var mainApiSrv *http.Server
	var backgroundTaskSrv *asynq.Server
	var scheduler *asynq.Scheduler

	fmt.Printf("Starting application in '%s' mode...\n", cfg.RunMode)

	apiMode := func() {
		router := api.SetupRouter(cfg, kv, mirror, enqueuer)
		mainApiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: router,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Printf("API listening on :%s\n", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("API ListenAndServe error: %v", err)
			}
			fmt.Println("API server stopped.")
		}()
	}

	bgMode := func() {
		if redisClient == nil {
			log.Println("WARN: 'bg' mode requested without REDIS_ADDR; nothing to run.")
			return
		}
		processor := tasks.NewTaskProcessor(cfg, kv, mirror)
		var mux *asynq.ServeMux
		backgroundTaskSrv, mux = tasks.SetupServer(redisClient, processor)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Println("Background task server starting...")
			if err := backgroundTaskSrv.Run(mux); err != nil {
				log.Fatalf("Background task server error: %v", err)
			}
			fmt.Println("Background task server stopped.")
		}()

		var err error
		scheduler, err = tasks.SetupScheduler(redisClient, cfg)
		if err != nil {
			log.Fatalf("Failed to set up task scheduler: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := scheduler.Run(); err != nil {
				log.Fatalf("Task scheduler error: %v", err)
			}
			fmt.Println("Task scheduler stopped.")
		}()
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.Fatalf("Unknown run mode: %s", cfg.RunMode)
	}

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down...")

	if mainApiSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := mainApiSrv.Shutdown(ctx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
		cancel()
	}
	if scheduler != nil {
		scheduler.Shutdown()
	}
	if backgroundTaskSrv != nil {
		backgroundTaskSrv.Shutdown()
	}

	wg.Wait()
	fmt.Println("Shutdown complete.")
}
