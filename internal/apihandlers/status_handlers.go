package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scribe/internal/models"
)

type createStatusRequest struct {
	ClientName string `json:"client_name"`
}

// CreateStatusHandler handles POST /api/status, recording a client
// heartbeat.
func (h *APIHandler) CreateStatusHandler(c *gin.Context) {
	var req createStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.ClientName == "" {
		BadRequest(c, "client_name is required")
		return
	}

	check := &models.StatusCheck{
		ID:         uuid.NewString(),
		ClientName: req.ClientName,
	}
	if err := h.App.PrimaryStore.CreateStatusCheck(c.Request.Context(), check); err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, check)
}

// ListStatusHandler handles GET /api/status.
func (h *APIHandler) ListStatusHandler(c *gin.Context) {
	checks, err := h.App.PrimaryStore.ListStatusChecks(c.Request.Context(), 100)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checks)
}
