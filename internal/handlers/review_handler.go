package handlers

import (
	"context"
	"net/http"

	"review-service/internal/auth"
	"review-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	Service *service.ReviewService
}

func NewReviewHandler(s *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: s}
}

type createSessionRequest struct {
	ImportBatchID     string `json:"import_batch_id" binding:"required"`
	RequireSimulation bool   `json:"require_simulation"`
}

// CreateSession finds or creates the active review session for an
// import batch. Authentication is retried before failing the request.
func (h *ReviewHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var user *auth.User
	err := auth.WithRetry(ctx, func(context.Context) error {
		var authErr error
		user, authErr = auth.CurrentUser(c)
		return authErr
	})
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	session, err := h.Service.InitSession(ctx, req.ImportBatchID, user.ID, req.RequireSimulation)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	state, _ := h.Service.SessionState(session.ID)
	c.JSON(http.StatusOK, gin.H{"session": session, "state": state})
}

// GetSession returns the stored session row plus the live state when
// this instance holds it.
func (h *ReviewHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("id")
	session, err := h.Service.Session(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	resp := gin.H{"session": session}
	if state, err := h.Service.SessionState(sessionID); err == nil {
		resp["state"] = state
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleReview flips one question's reviewed flag.
func (h *ReviewHandler) ToggleReview(c *gin.Context) {
	sessionID := c.Param("id")
	questionKey := c.Param("questionKey")

	reviewed, err := h.Service.ToggleReview(c.Request.Context(), sessionID, questionKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	state, _ := h.Service.SessionState(sessionID)
	c.JSON(http.StatusOK, gin.H{"is_reviewed": reviewed, "state": state})
}

// ReviewAll marks every remaining question reviewed.
func (h *ReviewHandler) ReviewAll(c *gin.Context) {
	sessionID := c.Param("id")

	changed, err := h.Service.MarkAllReviewed(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	state, _ := h.Service.SessionState(sessionID)
	c.JSON(http.StatusOK, gin.H{"changed": changed, "state": state})
}

type setIssuesRequest struct {
	IssueCount int `json:"issue_count"`
}

// SetIssues records validation findings against one question.
func (h *ReviewHandler) SetIssues(c *gin.Context) {
	sessionID := c.Param("id")
	questionKey := c.Param("questionKey")

	var req setIssuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.SetIssues(c.Request.Context(), sessionID, questionKey, req.IssueCount); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	state, _ := h.Service.SessionState(sessionID)
	c.JSON(http.StatusOK, gin.H{"state": state})
}
