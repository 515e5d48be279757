package app

import (
	"pdfqa/internal/model"
	"pdfqa/internal/repository"
)

// DocumentStore is the persistence surface the services depend on.
// *repository.DocumentRepository is the production implementation.
type DocumentStore interface {
	Create(doc *model.Document) error
	GetByID(id uint) (*model.Document, error)
	List(page, perPage int) ([]model.Document, int64, error)
	ListWithContent() ([]model.Document, error)
	Delete(id uint) error
	Stats() (*repository.DocumentStats, error)
}
