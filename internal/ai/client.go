// Package ai wraps one external text-generation endpoint. Every operation
// degrades to a user-facing string instead of an error: upstream instability
// is absorbed here, never propagated to callers.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	queryMaxTokens    = 500
	summaryMaxTokens  = 300
	keywordsMaxTokens = 100
	maxKeywords       = 10
	contextCharLimit  = 4000

	// User-facing results for exhausted retries. These are answers, not
	// errors; transport failures never escape as Go errors.
	msgUnavailable = "AI service is not available. Please check the API key configuration."
	msgOverloaded  = "The AI service is currently experiencing high traffic. Please try again in a few minutes."
	msgRateLimited = "API rate limit exceeded. Please wait a moment before trying again."
	msgTimeout     = "Request timed out. Please check your connection and try again."
	msgUnreachable = "Unable to reach the AI service. Please try again later."

	// errorPrefix marks answers the query pipeline must surface as failures.
	errorPrefix = "Error:"
)

type Config struct {
	Enabled    bool
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger

	sleep func(time.Duration)
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// IsAvailable reports whether a usable credential is configured. Every
// operation checks this before attempting a call.
func (c *Client) IsAvailable() bool {
	return c.cfg.Enabled && c.cfg.APIKey != ""
}

// QueryContent answers a question against document context. The prompt
// embeds at most the first 4000 characters of context plus the verbatim
// query. The result is always non-empty; exhausted retries yield the retry
// explanation plus a locally computed fallback answer.
func (c *Client) QueryContent(ctx context.Context, query, docContext string) string {
	if !c.IsAvailable() {
		return FallbackAnswer(query, docContext)
	}

	prompt := fmt.Sprintf(`Based on the following document content, please answer the user's question.

Document Content:
%s

User Question: %s

Please provide a clear, concise answer based on the document content. If the answer cannot be found in the document, please say so.`,
		truncate(docContext, contextCharLimit), query)

	text, ok := c.complete(ctx, prompt, queryMaxTokens)
	if ok {
		// A blank model reply would break the non-empty contract.
		if strings.TrimSpace(text) == "" {
			return FallbackAnswer(query, docContext)
		}
		return text
	}
	if strings.HasPrefix(text, errorPrefix) {
		return text
	}
	return text + "\n\nFallback answer: " + FallbackAnswer(query, docContext)
}

// GenerateSummary produces a short summary of content. ok is false when the
// returned text is a service message rather than a real summary.
func (c *Client) GenerateSummary(ctx context.Context, content string) (string, bool) {
	if !c.IsAvailable() {
		return msgUnavailable, false
	}

	prompt := fmt.Sprintf(`Please provide a concise summary of the following document content:

%s

Summary should be informative and capture the main points of the document.`,
		truncate(content, contextCharLimit))

	return c.complete(ctx, prompt, summaryMaxTokens)
}

// ExtractKeywords parses a comma-separated model reply into at most 10
// trimmed tokens. Failures yield an empty slice.
func (c *Client) ExtractKeywords(ctx context.Context, content string) []string {
	if !c.IsAvailable() {
		return nil
	}

	prompt := fmt.Sprintf(`Extract the most important keywords and phrases from the following document content. Return them as a comma-separated list:

%s

Keywords:`,
		truncate(content, contextCharLimit))

	text, ok := c.complete(ctx, prompt, keywordsMaxTokens)
	if !ok {
		return nil
	}

	var keywords []string
	for _, kw := range strings.Split(text, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// complete runs the retry loop against the upstream endpoint. ok reports
// whether text is a real model reply; when false, text is a user-facing
// explanation of the failure.
func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, bool) {
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		text, status, err := c.doRequest(ctx, prompt, maxTokens)
		switch {
		case err == nil && status == http.StatusOK:
			return text, !IsErrorAnswer(text)

		case err == nil && status == http.StatusServiceUnavailable:
			c.logger.Warn("ai upstream overloaded",
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", c.cfg.MaxRetries))
			if attempt < c.cfg.MaxRetries-1 {
				c.sleep(time.Duration(1<<attempt) * time.Second)
				continue
			}
			return msgOverloaded, false

		case err == nil && status == http.StatusTooManyRequests:
			c.logger.Warn("ai upstream rate limited", zap.Int("attempt", attempt+1))
			if attempt < c.cfg.MaxRetries-1 {
				c.sleep(5 * time.Second)
				continue
			}
			return msgRateLimited, false

		case err == nil:
			c.logger.Warn("ai upstream error", zap.Int("status", status))
			return fmt.Sprintf("%s AI service returned status %d. Please try again later.", errorPrefix, status), false

		case isTimeout(err):
			c.logger.Warn("ai request timeout", zap.Int("attempt", attempt+1))
			if attempt < c.cfg.MaxRetries-1 {
				c.sleep(2 * time.Second)
				continue
			}
			return msgTimeout, false

		default:
			c.logger.Warn("ai request failed", zap.Error(err), zap.Int("attempt", attempt+1))
			if attempt < c.cfg.MaxRetries-1 {
				c.sleep(1 * time.Second)
				continue
			}
			return msgUnreachable, false
		}
	}
	return msgUnreachable, false
}

func (c *Client) doRequest(ctx context.Context, prompt string, maxTokens int) (string, int, error) {
	reqBody := map[string]interface{}{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens": maxTokens,
		"stream":     false,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("marshal llm request failed: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", 0, fmt.Errorf("build llm request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused across retries.
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", resp.StatusCode, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("read llm response failed: %w", err)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return errorPrefix + " AI service returned a malformed response.", http.StatusOK, nil
	}
	if len(parsed.Choices) == 0 {
		return errorPrefix + " AI service returned no answer.", http.StatusOK, nil
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), http.StatusOK, nil
}

// IsErrorAnswer reports whether an answer string carries the failure marker.
func IsErrorAnswer(answer string) bool {
	return strings.HasPrefix(answer, errorPrefix)
}

func isTimeout(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) {
		return nerr.Timeout()
	}
	return false
}

// truncate bounds s to max characters without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
