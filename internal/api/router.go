package api

import (
	"github.com/gin-gonic/gin"

	"github.com/idrealestat/aqariai-core/internal/api/handlers"
	"github.com/idrealestat/aqariai-core/internal/config"
	"github.com/idrealestat/aqariai-core/internal/remote"
	"github.com/idrealestat/aqariai-core/internal/services"
	"github.com/idrealestat/aqariai-core/internal/store"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, kv store.KV, mirror remote.Mirror, enqueuer services.ITaskEnqueuer) *gin.Engine {
	// Initialize services needed by API handlers here.
	notificationService := services.NewNotificationService(kv)
	agreementService := services.NewAgreementService(kv, notificationService)
	publisherService := services.NewPublisherService(kv, cfg, mirror, enqueuer)
	proposalService := services.NewProposalService(kv, cfg, mirror, enqueuer, agreementService, notificationService)
	ownerViewService := services.NewOwnerViewService(kv)

	r := gin.Default()

	// Initialize handlers
	listingHandler := handlers.NewRestListingHandler(publisherService)
	proposalHandler := handlers.NewRestProposalHandler(proposalService)
	ownerViewHandler := handlers.NewRestOwnerViewHandler(ownerViewService)
	notificationHandler := handlers.NewRestNotificationHandler(notificationService)

	v1 := r.Group("/v1")
	{
		// Shared marketplace feed (anonymized summaries)
		v1.GET("/feed", listingHandler.MarketplaceFeed)

		// Owner-scoped listing operations
		v1.POST("/owner/:owner_id/listing", listingHandler.PublishListing)
		v1.POST("/owner/:owner_id/draft", listingHandler.SaveDraft)
		v1.POST("/owner/:owner_id/listing/:id/publish", listingHandler.PublishDraft)
		v1.PATCH("/owner/:owner_id/listing/:id/status", listingHandler.UpdateStatus)
		v1.POST("/owner/:owner_id/listing/:id/note", listingHandler.AddNote)
		v1.GET("/owner/:owner_id/listings", listingHandler.ListOwnerRecords)

		// Broker proposal lifecycle
		v1.POST("/listing/:id/proposal", proposalHandler.AddProposal)
		v1.POST("/listing/:id/proposal/:proposal_id/decision", proposalHandler.Decide)

		// Owner views over the anonymized global collections
		v1.GET("/owner/:owner_id/agreements", ownerViewHandler.ListAgreements)
		v1.GET("/owner/:owner_id/summaries", ownerViewHandler.ListSummaries)

		// Notification inbox
		v1.GET("/owner/:owner_id/notifications", notificationHandler.List)
		v1.POST("/owner/:owner_id/notifications/:id/read", notificationHandler.MarkRead)
		v1.POST("/owner/:owner_id/notifications/read-all", notificationHandler.MarkAllRead)
		v1.DELETE("/owner/:owner_id/notifications", notificationHandler.DeleteAll)
	}

	return r
}
