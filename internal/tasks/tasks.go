package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/idrealestat/aqariai-core/internal/config"
	"github.com/idrealestat/aqariai-core/internal/models"
	"github.com/idrealestat/aqariai-core/internal/remote"
	"github.com/idrealestat/aqariai-core/internal/store"
)

// TaskType defines the type of a background task.
const (
	TypeMirrorSync     = "mirror:sync"
	TypeIntegritySweep = "integrity:sweep"
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// Enqueuer wraps an asynq client behind the interface services depend on.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueMirrorSync queues a failed mirror call for background replay. Asynq
// owns the retry/backoff policy, so a long remote outage costs the caller
// nothing.
func (e *Enqueuer) EnqueueMirrorSync(ctx context.Context, call remote.Call) error {
	payload, err := json.Marshal(call)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeMirrorSync, payload, asynq.MaxRetry(10), asynq.Queue("default"))
	_, err = e.client.EnqueueContext(ctx, task)
	return err
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg    *config.Config
	kv     store.KV
	mirror remote.Mirror
}

func NewTaskProcessor(cfg *config.Config, kv store.KV, mirror remote.Mirror) *TaskProcessor {
	return &TaskProcessor{cfg: cfg, kv: kv, mirror: mirror}
}

// HandleMirrorSync replays a mirror call captured when the remote was down.
// Returning the error hands the retry decision back to asynq.
func (p *TaskProcessor) HandleMirrorSync(ctx context.Context, t *asynq.Task) error {
	var call remote.Call
	if err := json.Unmarshal(t.Payload(), &call); err != nil {
		return fmt.Errorf("malformed mirror sync payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := p.mirror.Do(ctx, call); err != nil {
		return fmt.Errorf("mirror replay %s %s: %w", call.Method, call.Path, err)
	}
	log.Printf("Mirror replay %s %s succeeded.", call.Method, call.Path)
	return nil
}

// HandleIntegritySweep scans the global collections for broken
// cross-references. Findings are reported loudly; the sweep never repairs,
// since retrying cannot fix missing data.
func (p *TaskProcessor) HandleIntegritySweep(ctx context.Context, t *asynq.Task) error {
	recordIDs, err := p.allRecordIDs(ctx)
	if err != nil {
		return err
	}

	var summaries []models.MarketplaceSummary
	if err := p.kv.Get(ctx, store.KeySummaries, &summaries); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	summaryIDs := make(map[string]bool, len(summaries))
	orphanSummaries := 0
	for _, summary := range summaries {
		summaryIDs[summary.ID] = true
		if !recordIDs[summary.SourceRecordID] {
			orphanSummaries++
			log.Printf("CRITICAL: summary %s references missing record %s", summary.ID, summary.SourceRecordID)
		}
	}

	var agreements []models.AcceptedAgreement
	if err := p.kv.Get(ctx, store.KeyAgreements, &agreements); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	danglingAgreements := 0
	for _, agreement := range agreements {
		if !summaryIDs[agreement.SummaryID] {
			danglingAgreements++
			log.Printf("CRITICAL: agreement %s references missing summary %s", agreement.ID, agreement.SummaryID)
		}
	}

	log.Printf("Integrity sweep done: %d summaries (%d orphaned), %d agreements (%d dangling).",
		len(summaries), orphanSummaries, len(agreements), danglingAgreements)
	return nil
}

func (p *TaskProcessor) allRecordIDs(ctx context.Context) (map[string]bool, error) {
	keys, err := p.kv.Keys(ctx, store.FullRecordsPrefix())
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool)
	for _, key := range keys {
		var records []models.FullListingRecord
		if err := p.kv.Get(ctx, key, &records); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		for _, record := range records {
			ids[record.ID] = true
		}
	}
	return ids, nil
}

// SetupServer configures and returns an Asynq server instance.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"default": 3,
				"low":     1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("WARN: task %s failed: %v", task.Type(), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeMirrorSync, processor.HandleMirrorSync)
	mux.HandleFunc(TypeIntegritySweep, processor.HandleIntegritySweep)

	return srv, mux
}

// SetupScheduler registers the periodic integrity sweep.
func SetupScheduler(rdb *redis.Client, cfg *config.Config) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     rdb.Options().Addr,
			Password: rdb.Options().Password,
			DB:       rdb.Options().DB,
		},
		nil,
	)
	spec := fmt.Sprintf("@every %s", cfg.IntegritySweepInterval)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeIntegritySweep, nil, asynq.Queue("low"))); err != nil {
		return nil, err
	}
	return scheduler, nil
}
