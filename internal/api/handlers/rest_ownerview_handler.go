package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idrealestat/aqariai-core/internal/models"
	"github.com/idrealestat/aqariai-core/internal/services"
)

// RestOwnerViewHandler serves the owner-filtered views over the anonymized
// global collections.
type RestOwnerViewHandler struct {
	ownerViewService services.IOwnerViewService
}

// NewRestOwnerViewHandler creates a new RestOwnerViewHandler.
func NewRestOwnerViewHandler(ownerViewService services.IOwnerViewService) *RestOwnerViewHandler {
	return &RestOwnerViewHandler{ownerViewService: ownerViewService}
}

// ListAgreements handles GET /v1/owner/:owner_id/agreements
func (h *RestOwnerViewHandler) ListAgreements(c *gin.Context) {
	agreements, err := h.ownerViewService.AcceptedAgreementsFor(c.Request.Context(), c.Param("owner_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if agreements == nil {
		agreements = []models.AcceptedAgreement{}
	}
	c.JSON(http.StatusOK, agreements)
}

// ListSummaries handles GET /v1/owner/:owner_id/summaries
func (h *RestOwnerViewHandler) ListSummaries(c *gin.Context) {
	summaries, err := h.ownerViewService.SummariesFor(c.Request.Context(), c.Param("owner_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if summaries == nil {
		summaries = []models.MarketplaceSummary{}
	}
	c.JSON(http.StatusOK, summaries)
}
