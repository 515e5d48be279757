package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdfqa/internal/ai"
	"pdfqa/internal/cache"
	"pdfqa/internal/model"
	"pdfqa/internal/pkg/pdfextract"
	"pdfqa/internal/pkg/sanitize"
	"pdfqa/internal/platform/rabbitmq"
)

const (
	// Extracted text shorter than this is not worth an AI enrichment call.
	minContentForEnrichment = 50

	pdfMagic = "%PDF-"
)

type UploadService struct {
	docs      DocumentStore
	llm       *ai.Client
	publisher *rabbitmq.EventPublisher
	answers   *cache.AnswerCache
	uploadDir string
	maxSize   int64
	logger    *zap.Logger
}

func NewUploadService(
	docs DocumentStore,
	llm *ai.Client,
	publisher *rabbitmq.EventPublisher,
	answers *cache.AnswerCache,
	uploadDir string,
	maxSize int64,
	logger *zap.Logger,
) *UploadService {
	return &UploadService{
		docs:      docs,
		llm:       llm,
		publisher: publisher,
		answers:   answers,
		uploadDir: uploadDir,
		maxSize:   maxSize,
		logger:    logger,
	}
}

type UploadInput struct {
	Filename    string
	File        io.Reader
	Description string
	Tags        string
	ClientIP    string
}

type UploadResult struct {
	Document              model.DocumentView
	AutoSummaryGenerated  bool
	AutoKeywordsGenerated bool
}

// Upload runs the pipeline: validate, store on disk, extract text, enrich
// when possible, persist. Extraction and enrichment failures degrade and
// never fail the request; any failure before the disk write is a clean
// no-op.
func (s *UploadService) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	original := strings.TrimSpace(input.Filename)
	if original == "" {
		return nil, fmt.Errorf("%w: no file selected", ErrValidation)
	}
	if len(original) > sanitize.FilenameMaxLen {
		return nil, fmt.Errorf("%w: filename too long", ErrValidation)
	}
	if strings.ToLower(filepath.Ext(original)) != ".pdf" {
		return nil, fmt.Errorf("%w: only PDF files are allowed", ErrValidation)
	}

	raw, err := io.ReadAll(io.LimitReader(input.File, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read upload failed", ErrStorage)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty file not allowed", ErrValidation)
	}
	if int64(len(raw)) > s.maxSize {
		return nil, fmt.Errorf("%w: file too large", ErrValidation)
	}
	if !bytes.HasPrefix(raw, []byte(pdfMagic)) {
		return nil, fmt.Errorf("%w: file content does not match PDF format", ErrValidation)
	}

	// The storage name is system-generated; the user-supplied name is kept
	// for display only and never used as a path.
	storageName := s.storageName(original)
	path, err := sanitize.SafeJoin(s.uploadDir, storageName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPathTraversal, storageName)
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		// A partial file must not survive without a row.
		_ = os.Remove(path)
		s.logger.Error("write upload failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: could not store file", ErrStorage)
	}

	// From here on the pipeline always runs to the insert; missing text or
	// enrichment only degrades the stored record.
	content := pdfextract.Text(bytes.NewReader(raw))

	var autoSummary string
	var autoKeywords []string
	if len(strings.TrimSpace(content)) > minContentForEnrichment && s.llm.IsAvailable() {
		if summary, ok := s.llm.GenerateSummary(ctx, content); ok {
			autoSummary = summary
		}
		autoKeywords = s.llm.ExtractKeywords(ctx, content)
	}

	// User-supplied values always win; AI output only fills gaps.
	description := sanitize.Description(input.Description)
	if description == "" && autoSummary != "" {
		description = sanitize.Description(autoSummary)
	}
	tags := sanitize.Tags(input.Tags)
	if len(autoKeywords) > 0 {
		aiTags := sanitize.Tags(strings.Join(autoKeywords, ","))
		switch {
		case tags == "":
			tags = aiTags
		case aiTags != "":
			tags = tags + "," + aiTags
		}
	}

	doc := &model.Document{
		Filename:         storageName,
		OriginalFilename: sanitize.Text(original, sanitize.FilenameMaxLen),
		FilePath:         path,
		Content:          content,
		FileSize:         int64(len(raw)),
		Description:      description,
		Tags:             tags,
	}
	if err := s.docs.Create(doc); err != nil {
		// Accepted gap: the stored file is orphaned when the insert fails.
		s.logger.Error("persist document failed, file orphaned",
			zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: could not save document", ErrStorage)
	}

	if s.answers != nil {
		if err := s.answers.Invalidate(ctx); err != nil {
			s.logger.Warn("invalidate answer cache failed", zap.Error(err))
		}
	}

	s.publishAudit(ctx, model.AuditEvent{
		Kind:       model.AuditDocumentUploaded,
		DocumentID: doc.ID,
		ClientIP:   input.ClientIP,
		Detail:     storageName,
	})

	return &UploadResult{
		Document:              doc.View(),
		AutoSummaryGenerated:  autoSummary != "",
		AutoKeywordsGenerated: len(autoKeywords) > 0,
	}, nil
}

// Status returns the stored record for an upload.
func (s *UploadService) Status(id uint) (*model.DocumentView, error) {
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

func (s *UploadService) storageName(original string) string {
	base := sanitize.Filename(strings.TrimSuffix(original, filepath.Ext(original)))
	if base == "" {
		base = "document"
	}
	return fmt.Sprintf("%d_%s_%s.pdf", time.Now().UnixMilli(), uuid.NewString()[:8], base)
}

func (s *UploadService) publishAudit(ctx context.Context, event model.AuditEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish audit event failed", zap.String("kind", event.Kind), zap.Error(err))
	}
}
