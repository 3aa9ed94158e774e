package handlers

import (
	"net/http"

	"food-storefront/internal/middleware"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService SessionServiceInterface
}

func NewSessionHandler(sessionService SessionServiceInterface) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// RegisterRoutes registers the routes for storefront sessions
func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("", h.StartSession)
		sessions.DELETE("", authMiddleware.AuthRequired(), h.EndSession)
	}
}

// StartSession godoc
// @Summary Start a storefront session
// @Description Creates an empty cart and returns a bearer token bound to it
// @Tags sessions
// @Produce json
// @Success 201 {object} services.SessionResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	session, err := h.sessionService.StartSession(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to start session", err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// EndSession godoc
// @Summary End the current session
// @Description Discards the session and its cart
// @Tags sessions
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Router /sessions [delete]
func (h *SessionHandler) EndSession(c *gin.Context) {
	if err := h.sessionService.EndSession(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		respondError(c, "Failed to end session", err)
		return
	}

	c.Status(http.StatusNoContent)
}
