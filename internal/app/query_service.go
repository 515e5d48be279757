package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pdfqa/internal/ai"
	"pdfqa/internal/cache"
	"pdfqa/internal/model"
	"pdfqa/internal/pkg/sanitize"
)

const noDocumentsAnswer = "No documents have been uploaded yet. Please upload some PDF files first."

type QueryService struct {
	docs    DocumentStore
	llm     *ai.Client
	answers *cache.AnswerCache
	logger  *zap.Logger
}

func NewQueryService(
	docs DocumentStore,
	llm *ai.Client,
	answers *cache.AnswerCache,
	logger *zap.Logger,
) *QueryService {
	return &QueryService{
		docs:    docs,
		llm:     llm,
		answers: answers,
		logger:  logger,
	}
}

type QueryInput struct {
	Query      string
	DocumentID uint // 0 = search every document with content
}

type DocumentRef struct {
	ID          uint   `json:"id"`
	Filename    string `json:"filename"`
	Description string `json:"description"`
}

type QueryResult struct {
	Query             string
	Answer            string
	DocumentInfo      []DocumentRef
	DocumentsSearched int
	ContextInfo       string
	NoDocuments       bool
	Success           bool
}

// Query answers a question against one document or the whole corpus. An
// empty corpus is a success with a fixed explanatory answer, not an error.
func (s *QueryService) Query(ctx context.Context, input QueryInput) (*QueryResult, error) {
	query, err := sanitize.Query(input.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var targets []model.Document
	if input.DocumentID != 0 {
		doc, err := s.docs.GetByID(input.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if doc == nil || !doc.HasContent() {
			return nil, fmt.Errorf("%w: document %d not found or has no content", ErrNotFound, input.DocumentID)
		}
		targets = []model.Document{*doc}
	} else {
		targets, err = s.docs.ListWithContent()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if len(targets) == 0 {
			return &QueryResult{
				Query:        query,
				Answer:       noDocumentsAnswer,
				DocumentInfo: []DocumentRef{},
				Success:      true,
				NoDocuments:  true,
			}, nil
		}
	}

	refs := make([]DocumentRef, len(targets))
	ids := make([]uint, len(targets))
	contents := make([]string, len(targets))
	for i := range targets {
		refs[i] = DocumentRef{
			ID:          targets[i].ID,
			Filename:    targets[i].Filename,
			Description: targets[i].Description,
		}
		ids[i] = targets[i].ID
		contents[i] = targets[i].Content
	}

	var docContext, contextInfo string
	if len(targets) == 1 {
		docContext = contents[0]
		contextInfo = fmt.Sprintf("Analyzing document: %s", targets[0].Filename)
	} else {
		docContext = strings.Join(contents, "\n\n")
		contextInfo = fmt.Sprintf("Analyzing %d documents", len(targets))
	}

	if !s.llm.IsAvailable() {
		return nil, fmt.Errorf("%w: AI service is not configured", ErrServiceUnavailable)
	}

	result := &QueryResult{
		Query:             query,
		DocumentInfo:      refs,
		DocumentsSearched: len(targets),
		ContextInfo:       contextInfo,
	}

	key := cache.Key(query, ids)
	if s.answers != nil {
		if answer, hit, err := s.answers.Get(ctx, key); err != nil {
			s.logger.Warn("answer cache get failed", zap.Error(err))
		} else if hit {
			result.Answer = answer
			result.Success = true
			return result, nil
		}
	}

	answer := s.llm.QueryContent(ctx, query, docContext)
	result.Answer = answer
	if ai.IsErrorAnswer(answer) {
		result.Success = false
		return result, nil
	}
	result.Success = true

	if s.answers != nil {
		if err := s.answers.Set(ctx, key, answer); err != nil {
			s.logger.Warn("answer cache set failed", zap.Error(err))
		}
	}
	return result, nil
}

type SummaryResult struct {
	DocumentID uint   `json:"document_id"`
	Filename   string `json:"filename"`
	Summary    string `json:"summary"`
}

// Summarize generates an on-demand AI summary for one stored document.
func (s *QueryService) Summarize(ctx context.Context, id uint) (*SummaryResult, error) {
	doc, err := s.contentDocument(id)
	if err != nil {
		return nil, err
	}
	if !s.llm.IsAvailable() {
		return nil, fmt.Errorf("%w: AI service is not configured", ErrServiceUnavailable)
	}
	summary, _ := s.llm.GenerateSummary(ctx, doc.Content)
	return &SummaryResult{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		Summary:    summary,
	}, nil
}

type KeywordsResult struct {
	DocumentID uint     `json:"document_id"`
	Filename   string   `json:"filename"`
	Keywords   []string `json:"keywords"`
}

// Keywords extracts on-demand AI keywords for one stored document.
func (s *QueryService) Keywords(ctx context.Context, id uint) (*KeywordsResult, error) {
	doc, err := s.contentDocument(id)
	if err != nil {
		return nil, err
	}
	if !s.llm.IsAvailable() {
		return nil, fmt.Errorf("%w: AI service is not configured", ErrServiceUnavailable)
	}
	keywords := s.llm.ExtractKeywords(ctx, doc.Content)
	if keywords == nil {
		keywords = []string{}
	}
	return &KeywordsResult{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		Keywords:   keywords,
	}, nil
}

func (s *QueryService) contentDocument(id uint) (*model.Document, error) {
	doc, err := s.docs.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document %d", ErrNotFound, id)
	}
	if !doc.HasContent() {
		return nil, fmt.Errorf("%w: document has no readable content", ErrValidation)
	}
	return doc, nil
}
