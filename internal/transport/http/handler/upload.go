package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pdfqa/internal/app"
	"pdfqa/internal/transport/http/response"
)

type UploadHandler struct {
	uploads *app.UploadService
}

func NewUploadHandler(uploads *app.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload accepts a multipart form with "file" (required PDF) and optional
// "description" and "tags" fields.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "no file provided")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to read file")
		return
	}
	defer f.Close()

	result, err := h.uploads.Upload(c.Request.Context(), app.UploadInput{
		Filename:    fileHeader.Filename,
		File:        f,
		Description: c.PostForm("description"),
		Tags:        c.PostForm("tags"),
		ClientIP:    c.ClientIP(),
	})
	if err != nil {
		response.FromAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "File uploaded successfully",
		"document": result.Document,
		"ai_features": gin.H{
			"auto_summary_generated":  result.AutoSummaryGenerated,
			"auto_keywords_generated": result.AutoKeywordsGenerated,
		},
	})
}

// Status returns the stored record for a completed upload.
func (h *UploadHandler) Status(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid document id")
		return
	}

	doc, err := h.uploads.Status(id)
	if err != nil {
		response.FromAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "completed",
		"document": doc,
	})
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	u, err := strconv.ParseUint(c.Param(key), 10, 64)
	return uint(u), err
}
