package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idrealestat/aqariai-core/internal/models"
	"github.com/idrealestat/aqariai-core/internal/services"
)

// RestListingHandler handles REST requests for listing publication.
type RestListingHandler struct {
	publisherService services.IPublisherService
}

// NewRestListingHandler creates a new RestListingHandler.
func NewRestListingHandler(publisherService services.IPublisherService) *RestListingHandler {
	return &RestListingHandler{publisherService: publisherService}
}

// PublishListing handles POST /v1/owner/:owner_id/listing
func (h *RestListingHandler) PublishListing(c *gin.Context) {
	ownerID := c.Param("owner_id")

	var draft models.ListingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing draft: " + err.Error()})
		return
	}

	record, summary, err := h.publisherService.Publish(c.Request.Context(), ownerID, draft)
	if err != nil {
		if record != nil {
			// Record saved but marketplace summary missing: degraded, not failed.
			c.JSON(http.StatusCreated, gin.H{"record": record, "summary": nil})
			return
		}
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"record": record, "summary": summary})
}

// SaveDraft handles POST /v1/owner/:owner_id/draft
func (h *RestListingHandler) SaveDraft(c *gin.Context) {
	ownerID := c.Param("owner_id")

	var draft models.ListingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing draft: " + err.Error()})
		return
	}

	record, err := h.publisherService.SaveDraft(c.Request.Context(), ownerID, draft)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// PublishDraft handles POST /v1/owner/:owner_id/listing/:id/publish
func (h *RestListingHandler) PublishDraft(c *gin.Context) {
	ownerID := c.Param("owner_id")
	recordID := c.Param("id")

	record, summary, err := h.publisherService.PublishDraft(c.Request.Context(), ownerID, recordID)
	if err != nil {
		if record != nil {
			c.JSON(http.StatusOK, gin.H{"record": record, "summary": nil})
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": record, "summary": summary})
}

// UpdateStatus handles PATCH /v1/owner/:owner_id/listing/:id/status
func (h *RestListingHandler) UpdateStatus(c *gin.Context) {
	ownerID := c.Param("owner_id")
	recordID := c.Param("id")

	var body struct {
		Status models.ListingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status payload: " + err.Error()})
		return
	}

	if err := h.publisherService.UpdateListingStatus(c.Request.Context(), ownerID, recordID, body.Status); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": body.Status})
}

// AddNote handles POST /v1/owner/:owner_id/listing/:id/note
func (h *RestListingHandler) AddNote(c *gin.Context) {
	ownerID := c.Param("owner_id")
	recordID := c.Param("id")

	var body struct {
		Note string `json:"note" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note payload: " + err.Error()})
		return
	}

	if err := h.publisherService.AddListingNote(c.Request.Context(), ownerID, recordID, body.Note); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListOwnerRecords handles GET /v1/owner/:owner_id/listings
func (h *RestListingHandler) ListOwnerRecords(c *gin.Context) {
	records, err := h.publisherService.ListOwnerRecords(c.Request.Context(), c.Param("owner_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if records == nil {
		records = []models.FullListingRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// MarketplaceFeed handles GET /v1/feed
func (h *RestListingHandler) MarketplaceFeed(c *gin.Context) {
	summaries, err := h.publisherService.MarketplaceFeed(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	if summaries == nil {
		summaries = []models.MarketplaceSummary{}
	}
	c.JSON(http.StatusOK, summaries)
}
