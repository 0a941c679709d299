package handlers

import (
	"net/http"

	"review-service/internal/service"

	"github.com/gin-gonic/gin"

	"go.mongodb.org/mongo-driver/bson"
)

type QuestionHandler struct {
	Edits *service.QuestionEditService
}

func NewQuestionHandler(edits *service.QuestionEditService) *QuestionHandler {
	return &QuestionHandler{Edits: edits}
}

// EditQuestion accepts a partial question update. Writes are
// debounced; the edit is acknowledged immediately.
func (h *QuestionHandler) EditQuestion(c *gin.Context) {
	questionID := c.Param("questionId")

	var update bson.M
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty update"})
		return
	}

	h.Edits.Edit(questionID, update)
	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
}

// SaveAll writes every pending edit immediately.
func (h *QuestionHandler) SaveAll(c *gin.Context) {
	if err := h.Edits.SaveAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}
