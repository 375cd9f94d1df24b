package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler handles POST /api/admin/login. Successful logins receive a
// signed bearer token.
func (h *APIHandler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.App.Verifier.Verify(c.Request.Context(), req.Username, req.Password); err != nil {
		log.WithField("username", req.Username).Info("Rejected login attempt")
		Unauthorized(c, "invalid username or password")
		return
	}

	token, expiresAt, err := h.App.Tokens.Issue(req.Username)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt,
	})
}
