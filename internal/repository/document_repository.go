package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pdfqa/internal/model"
)

// DocumentRepository is the single store abstraction for documents; every
// endpoint routes through it.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

// GetByID returns (nil, nil) when the document does not exist.
func (r *DocumentRepository) GetByID(id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

// List returns one page of documents, newest first, plus the total count.
func (r *DocumentRepository) List(page, perPage int) ([]model.Document, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	var total int64
	if err := r.db.Model(&model.Document{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count documents failed: %w", err)
	}

	var list []model.Document
	if err := r.db.
		Order("upload_date DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list documents failed: %w", err)
	}
	return list, total, nil
}

// ListWithContent returns every document whose extracted text is non-empty.
func (r *DocumentRepository) ListWithContent() ([]model.Document, error) {
	var list []model.Document
	if err := r.db.
		Where("content IS NOT NULL AND content != ''").
		Order("upload_date DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list documents with content failed: %w", err)
	}
	return list, nil
}

func (r *DocumentRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Document{}, id).Error; err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}

type DocumentStats struct {
	TotalDocuments int64
	TotalSizeBytes int64
}

func (r *DocumentRepository) Stats() (*DocumentStats, error) {
	var stats DocumentStats
	if err := r.db.Model(&model.Document{}).Count(&stats.TotalDocuments).Error; err != nil {
		return nil, fmt.Errorf("count documents failed: %w", err)
	}
	if err := r.db.Model(&model.Document{}).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&stats.TotalSizeBytes).Error; err != nil {
		return nil, fmt.Errorf("sum document sizes failed: %w", err)
	}
	return &stats, nil
}
