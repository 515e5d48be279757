package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfqa/internal/app"
	"pdfqa/internal/transport/http/response"
)

type QueryHandler struct {
	queries *app.QueryService
}

type QueryRequest struct {
	Query      string `json:"query"`
	DocumentID uint   `json:"document_id"`
}

func NewQueryHandler(queries *app.QueryService) *QueryHandler {
	return &QueryHandler{queries: queries}
}

// Query answers a natural-language question against one document or the
// whole corpus. An empty corpus is a 200 with a fixed explanatory answer.
func (h *QueryHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.queries.Query(c.Request.Context(), app.QueryInput{
		Query:      req.Query,
		DocumentID: req.DocumentID,
	})
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "document not found or has no content",
				"query":   req.Query,
				"results": []gin.H{},
				"answer":  "The requested document was not found. Please check if the document exists and has readable content.",
			})
			return
		}
		response.FromAppError(c, err)
		return
	}

	if result.NoDocuments {
		c.JSON(http.StatusOK, gin.H{
			"message": "No documents found",
			"query":   result.Query,
			"results": []gin.H{},
			"answer":  result.Answer,
		})
		return
	}

	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   result.Answer,
			"query":   result.Query,
			"answer":  nil,
			"success": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "Query processed successfully",
		"query":               result.Query,
		"answer":              result.Answer,
		"documents_searched":  result.DocumentsSearched,
		"document_info":       result.DocumentInfo,
		"context_info":        result.ContextInfo,
		"document_id_queried": nullableID(req.DocumentID),
		"success":             true,
	})
}

// Summary generates an on-demand AI summary for one document.
func (h *QueryHandler) Summary(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid document id")
		return
	}

	result, err := h.queries.Summarize(c.Request.Context(), id)
	if err != nil {
		response.FromAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"document_id": result.DocumentID,
		"filename":    result.Filename,
		"summary":     result.Summary,
		"success":     true,
	})
}

// Keywords extracts on-demand AI keywords for one document.
func (h *QueryHandler) Keywords(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid document id")
		return
	}

	result, err := h.queries.Keywords(c.Request.Context(), id)
	if err != nil {
		response.FromAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"document_id": result.DocumentID,
		"filename":    result.Filename,
		"keywords":    result.Keywords,
		"success":     true,
	})
}

func nullableID(id uint) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
