package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"scribe/internal/app"
)

// APIHandler bundles the wired application for the gin handler methods.
type APIHandler struct {
	App *app.App
}

func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{App: a}
}

// HealthHandler reports liveness, including database reachability.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	provider := h.App.Completion.Status().String()
	if err := h.App.PrimaryStore.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable", "ai_provider": provider})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "ai_provider": provider})
}
