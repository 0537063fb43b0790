package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idrealestat/aqariai-core/internal/models"
	"github.com/idrealestat/aqariai-core/internal/services"
)

// RestProposalHandler handles REST requests for broker proposals.
type RestProposalHandler struct {
	proposalService services.IProposalService
}

// NewRestProposalHandler creates a new RestProposalHandler.
func NewRestProposalHandler(proposalService services.IProposalService) *RestProposalHandler {
	return &RestProposalHandler{proposalService: proposalService}
}

// AddProposal handles POST /v1/listing/:id/proposal
func (h *RestProposalHandler) AddProposal(c *gin.Context) {
	recordID := c.Param("id")

	var draft models.ProposalDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal: " + err.Error()})
		return
	}

	proposal, err := h.proposalService.AddProposal(c.Request.Context(), recordID, draft)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, proposal)
}

// Decide handles POST /v1/listing/:id/proposal/:proposal_id/decision
func (h *RestProposalHandler) Decide(c *gin.Context) {
	recordID := c.Param("id")
	proposalID := c.Param("proposal_id")

	var body struct {
		Action models.DecisionAction `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid decision payload: " + err.Error()})
		return
	}

	if err := h.proposalService.Decide(c.Request.Context(), recordID, proposalID, body.Action); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": body.Action})
}
