package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"silant-backend/internal/mw"
	"silant-backend/internal/service"
)

// ListUsers handles GET /api/users?role=.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context(), mw.ActorFrom(c), c.Query("role"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAll(users, newUserResponse))
}

// CreateUser handles POST /api/users.
func (h *Handler) CreateUser(c *gin.Context) {
	var in service.UserInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}
	u, err := h.svc.CreateUser(c.Request.Context(), mw.ActorFrom(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(u))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	sess, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{
		Token:     sess.Token,
		TokenType: "Bearer",
		ExpiresAt: sess.ExpiresAt.UTC(),
		User:      newUserResponse(sess.User),
	})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), mw.ActorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(u))
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
