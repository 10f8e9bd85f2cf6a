package handler

import (
	"github.com/gin-gonic/gin"

	apptt "github.com/timeclock/backend/internal/application/timetracking"
	"github.com/timeclock/backend/internal/domain/timetracking"
	"github.com/timeclock/backend/internal/interfaces/http/middleware"
)

// SessionHandler handles clock-in/out and break API endpoints
type SessionHandler struct {
	BaseHandler
	sessions *apptt.SessionService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessions *apptt.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// RegisterRoutes registers session routes on the given group
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	session := rg.Group("/session")
	{
		session.POST("/clock-in", h.ClockIn)
		session.POST("/clock-out", h.ClockOut)
		session.POST("/breaks", h.StartBreak)
		session.DELETE("/breaks", h.EndBreak)
		session.GET("/status", h.Status)
	}
}

// ClockIn starts a new work session for the calling user
func (h *SessionHandler) ClockIn(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req apptt.ClockInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	entry, err := h.sessions.ClockIn(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// ClockOut completes the calling user's active session
func (h *SessionHandler) ClockOut(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req apptt.ClockOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	entry, err := h.sessions.ClockOut(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// StartBreak opens a break on the calling user's active session
func (h *SessionHandler) StartBreak(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req apptt.StartBreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	brk, err := h.sessions.StartBreak(c.Request.Context(), userID, timetracking.BreakType(req.Type))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, brk)
}

// EndBreak closes the open break on the calling user's active session
func (h *SessionHandler) EndBreak(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	brk, err := h.sessions.EndBreak(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brk)
}

// Status returns the live view of the calling user's session
func (h *SessionHandler) Status(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	status, err := h.sessions.Status(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}
