package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"pdfqa/internal/model"
	"pdfqa/internal/repository"
)

// memDocumentStore keeps documents in a map so service behavior can be
// exercised without a database.
type memDocumentStore struct {
	docs   map[uint]model.Document
	nextID uint
}

func newMemDocumentStore() *memDocumentStore {
	return &memDocumentStore{docs: make(map[uint]model.Document)}
}

func (m *memDocumentStore) Create(doc *model.Document) error {
	m.nextID++
	doc.ID = m.nextID
	m.docs[doc.ID] = *doc
	return nil
}

func (m *memDocumentStore) GetByID(id uint) (*model.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (m *memDocumentStore) List(page, perPage int) ([]model.Document, int64, error) {
	list := make([]model.Document, 0, len(m.docs))
	for _, d := range m.docs {
		list = append(list, d)
	}
	return list, int64(len(m.docs)), nil
}

func (m *memDocumentStore) ListWithContent() ([]model.Document, error) {
	var list []model.Document
	for _, d := range m.docs {
		if d.HasContent() {
			list = append(list, d)
		}
	}
	return list, nil
}

func (m *memDocumentStore) Delete(id uint) error {
	delete(m.docs, id)
	return nil
}

func (m *memDocumentStore) Stats() (*repository.DocumentStats, error) {
	stats := &repository.DocumentStats{TotalDocuments: int64(len(m.docs))}
	for _, d := range m.docs {
		stats.TotalSizeBytes += d.FileSize
	}
	return stats, nil
}

func TestDeleteRemovesRowAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stored.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n%%EOF"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := newMemDocumentStore()
	if err := store.Create(&model.Document{Filename: "stored.pdf", FilePath: path}); err != nil {
		t.Fatal(err)
	}

	svc := NewDocumentService(store, nil, nil, dir, zap.NewNop())
	if err := svc.Delete(context.Background(), 1, "1.2.3.4"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if doc, _ := store.GetByID(1); doc != nil {
		t.Fatal("row must be removed")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("stored file must be removed, stat err = %v", err)
	}
}

func TestDeleteRefusesFileOutsideUploadRoot(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "escaped.pdf")
	if err := os.WriteFile(outside, []byte("%PDF-1.4\n%%EOF"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := newMemDocumentStore()
	if err := store.Create(&model.Document{Filename: "escaped.pdf", FilePath: outside}); err != nil {
		t.Fatal(err)
	}

	svc := NewDocumentService(store, nil, nil, root, zap.NewNop())
	if err := svc.Delete(context.Background(), 1, "1.2.3.4"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// The row still goes, the out-of-root file stays untouched.
	if doc, _ := store.GetByID(1); doc != nil {
		t.Fatal("row must be removed")
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside the upload root must not be removed: %v", err)
	}
}

func TestDeleteMissingDocument(t *testing.T) {
	svc := NewDocumentService(newMemDocumentStore(), nil, nil, t.TempDir(), zap.NewNop())
	if err := svc.Delete(context.Background(), 42, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatsAggregatesSizes(t *testing.T) {
	store := newMemDocumentStore()
	_ = store.Create(&model.Document{FileSize: 1 << 20})
	_ = store.Create(&model.Document{FileSize: 1 << 19})

	svc := NewDocumentService(store, nil, nil, t.TempDir(), zap.NewNop())
	stats, err := svc.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalDocuments != 2 || stats.TotalSizeBytes != 1<<20+1<<19 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.TotalSizeMB != 1.5 {
		t.Fatalf("size MB = %v, want 1.5", stats.TotalSizeMB)
	}
}
