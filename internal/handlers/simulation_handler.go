package handlers

import (
	"errors"
	"net/http"

	"review-service/internal/service"
	"review-service/internal/simulation"

	"github.com/gin-gonic/gin"
)

type SimulationHandler struct {
	Service *service.SimulationService
}

func NewSimulationHandler(s *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{Service: s}
}

type simulateRequest struct {
	Submissions    map[string]simulation.Submission `json:"submissions"`
	PaperDuration  string                           `json:"paper_duration"`
	ElapsedSeconds int                              `json:"elapsed_seconds"`
}

// Simulate runs the scoring pipeline over the session's batch.
// Malformed questions refuse the run with the itemized list.
func (h *SimulationHandler) Simulate(c *gin.Context) {
	sessionID := c.Param("id")

	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.Service.Run(c.Request.Context(), sessionID, req.Submissions, req.PaperDuration, req.ElapsedSeconds)
	if err != nil {
		var vde *simulation.ValidationDataError
		if errors.As(err, &vde) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "questions are missing required fields",
				"issues": vde.Issues,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetResults returns the latest simulation snapshot for a session.
func (h *SimulationHandler) GetResults(c *gin.Context) {
	sessionID := c.Param("id")
	results, err := h.Service.LatestResults(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrNoResults) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No simulation results"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetAnalytics returns the derived report for the latest run.
func (h *SimulationHandler) GetAnalytics(c *gin.Context) {
	sessionID := c.Param("id")
	report, err := h.Service.Analytics(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrNoResults) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No simulation results"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
