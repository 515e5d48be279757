package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pdfqa/internal/app"
	"pdfqa/internal/transport/http/response"
)

type DocumentHandler struct {
	documents *app.DocumentService
}

func NewDocumentHandler(documents *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

func (h *DocumentHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 10)

	result, err := h.documents.List(page, perPage)
	if err != nil {
		response.FromAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid document id")
		return
	}

	doc, err := h.documents.Get(id)
	if err != nil {
		response.FromAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid document id")
		return
	}

	if err := h.documents.Delete(c.Request.Context(), id, c.ClientIP()); err != nil {
		response.FromAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

func (h *DocumentHandler) Stats(c *gin.Context) {
	stats, err := h.documents.Stats()
	if err != nil {
		response.FromAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DocumentHandler) Info(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid document id")
		return
	}

	info, err := h.documents.Info(id)
	if err != nil {
		response.FromAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
