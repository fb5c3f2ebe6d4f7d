package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harshith-ashok/insurance-llm/internal/model"
)

// QueryRequest is the request body for POST /api/v1/query.
type QueryRequest struct {
	Documents string   `json:"documents" binding:"required"`
	Questions []string `json:"questions" binding:"required,min=1"`
}

// QueryResponse carries one answer per question, in request order.
type QueryResponse struct {
	Answers []model.Answer `json:"answers"`
}

// QueryHandler handles document question requests.
type QueryHandler struct {
	runner QueryRunner
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(runner QueryRunner) *QueryHandler {
	return &QueryHandler{runner: runner}
}

// RunQuery handles POST /api/v1/query.
func (h *QueryHandler) RunQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	log.Printf("[%s] processing %d questions against %s",
		c.GetString("request_id"), len(req.Questions), req.Documents)

	answers, err := h.runner.Run(c.Request.Context(), req.Documents, req.Questions)
	if err != nil {
		status, code := classifyError(err)
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, QueryResponse{Answers: answers})
}

// classifyError maps fatal pipeline errors onto HTTP statuses. Per-question
// provider failures never reach here; they are folded into the answers.
func classifyError(err error) (int, string) {
	var fetchErr *model.FetchError
	if errors.As(err, &fetchErr) {
		return http.StatusBadGateway, "DOCUMENT_FETCH_FAILED"
	}

	var extractErr *model.ExtractionError
	if errors.As(err, &extractErr) {
		return http.StatusUnprocessableEntity, "DOCUMENT_EXTRACTION_FAILED"
	}

	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
