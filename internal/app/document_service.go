package app

import (
	"context"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"

	"pdfqa/internal/cache"
	"pdfqa/internal/model"
	"pdfqa/internal/pkg/pdfextract"
	"pdfqa/internal/pkg/sanitize"
	"pdfqa/internal/platform/rabbitmq"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type DocumentService struct {
	docs      DocumentStore
	publisher *rabbitmq.EventPublisher
	answers   *cache.AnswerCache
	uploadDir string
	logger    *zap.Logger
}

func NewDocumentService(
	docs DocumentStore,
	publisher *rabbitmq.EventPublisher,
	answers *cache.AnswerCache,
	uploadDir string,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		docs:      docs,
		publisher: publisher,
		answers:   answers,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

type ListResult struct {
	Documents []model.DocumentView `json:"documents"`
	Total     int64                `json:"total"`
	Page      int                  `json:"page"`
	Pages     int                  `json:"pages"`
	PerPage   int                  `json:"per_page"`
}

// List returns one page of documents with content truncated for display.
func (s *DocumentService) List(page, perPage int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	docs, total, err := s.docs.List(page, perPage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	views := make([]model.DocumentView, len(docs))
	for i := range docs {
		views[i] = docs[i].ListView()
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}
	return &ListResult{
		Documents: views,
		Total:     total,
		Page:      page,
		Pages:     pages,
		PerPage:   perPage,
	}, nil
}

func (s *DocumentService) Get(id uint) (*model.DocumentView, error) {
	doc, err := s.docs.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document %d", ErrNotFound, id)
	}
	view := doc.View()
	return &view, nil
}

// Delete removes the row and the stored file together. A failed file
// removal is logged but never aborts the row deletion.
func (s *DocumentService) Delete(ctx context.Context, id uint, clientIP string) error {
	doc, err := s.docs.GetByID(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if doc == nil {
		return fmt.Errorf("%w: document %d", ErrNotFound, id)
	}

	if sanitize.Contained(s.uploadDir, doc.FilePath) {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("remove stored file failed",
				zap.String("path", doc.FilePath), zap.Error(err))
		}
	} else {
		s.logger.Error("stored file path escapes upload root, not removing",
			zap.Uint("document_id", doc.ID))
	}

	if err := s.docs.Delete(id); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if s.answers != nil {
		if err := s.answers.Invalidate(ctx); err != nil {
			s.logger.Warn("invalidate answer cache failed", zap.Error(err))
		}
	}

	if s.publisher != nil {
		event := model.AuditEvent{
			Kind:       model.AuditDocumentDeleted,
			DocumentID: id,
			ClientIP:   clientIP,
			Detail:     doc.Filename,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("publish audit event failed", zap.Error(err))
		}
	}
	return nil
}

type StatsResult struct {
	TotalDocuments int64   `json:"total_documents"`
	TotalSizeBytes int64   `json:"total_size_bytes"`
	TotalSizeMB    float64 `json:"total_size_mb"`
}

func (s *DocumentService) Stats() (*StatsResult, error) {
	stats, err := s.docs.Stats()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	sizeMB := 0.0
	if stats.TotalSizeBytes > 0 {
		sizeMB = math.Round(float64(stats.TotalSizeBytes)/(1024*1024)*100) / 100
	}
	return &StatsResult{
		TotalDocuments: stats.TotalDocuments,
		TotalSizeBytes: stats.TotalSizeBytes,
		TotalSizeMB:    sizeMB,
	}, nil
}

type InfoResult struct {
	DocumentID uint                `json:"document_id"`
	Filename   string              `json:"filename"`
	Info       pdfextract.Metadata `json:"info"`
}

// Info reads the PDF metadata of a stored document from disk.
func (s *DocumentService) Info(id uint) (*InfoResult, error) {
	doc, err := s.docs.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document %d", ErrNotFound, id)
	}
	return &InfoResult{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		Info:       pdfextract.Info(doc.FilePath),
	}, nil
}
