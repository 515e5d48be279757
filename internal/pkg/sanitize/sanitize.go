// Package sanitize cleans free-text input before it reaches storage or a
// response body, and guards filename-derived paths against traversal.
package sanitize

import (
	"errors"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const (
	DefaultTextMax = 1000
	DescriptionMax = 2000
	QueryMax       = 500
	QueryMinLen    = 3
	TagMaxLen      = 50
	FilenameMaxLen = 100
)

var (
	ErrEmptyQuery    = errors.New("query cannot be empty")
	ErrQueryTooShort = errors.New("query must be at least 3 characters long")
	ErrUnsafePath    = errors.New("path escapes upload root")
)

var (
	tagPattern      = regexp.MustCompile(`^[a-zA-Z0-9\s._-]+$`)
	filenameInvalid = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
	// Descriptions may carry a handful of inline formatting tags, nothing else.
	htmlPolicy = bluemonday.NewPolicy().AllowElements("p", "br", "strong", "em")
)

// Text HTML-escapes, trims, and truncates plain text. max <= 0 means the
// default limit.
func Text(s string, max int) string {
	if s == "" {
		return ""
	}
	if max <= 0 {
		max = DefaultTextMax
	}
	escaped := html.EscapeString(strings.TrimSpace(s))
	runes := []rune(escaped)
	if len(runes) > max {
		return string(runes[:max])
	}
	return escaped
}

// HTML strips all markup except the inline formatting allow-list; attributes
// never survive.
func HTML(s string) string {
	if s == "" {
		return ""
	}
	return htmlPolicy.Sanitize(s)
}

// Description bounds then sanitizes a document description.
func Description(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	if len(runes) > DescriptionMax {
		s = string(runes[:DescriptionMax])
	}
	return HTML(s)
}

// Tags validates a comma-separated tag string. Invalid tokens are silently
// dropped; survivors keep their insertion order, duplicates included.
func Tags(s string) string {
	if s == "" {
		return ""
	}
	var valid []string
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" || len([]rune(tag)) > TagMaxLen || !tagPattern.MatchString(tag) {
			continue
		}
		valid = append(valid, html.EscapeString(tag))
	}
	return strings.Join(valid, ",")
}

// Query validates and sanitizes a search query.
func Query(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyQuery
	}
	sanitized := Text(s, QueryMax)
	if len([]rune(strings.TrimSpace(sanitized))) < QueryMinLen {
		return "", ErrQueryTooShort
	}
	return sanitized, nil
}

// Filename reduces a user-supplied filename to a safe token for embedding in
// storage names. It is display/naming material only, never a path.
func Filename(s string) string {
	s = filepath.Base(strings.ReplaceAll(s, "\\", "/"))
	s = filenameInvalid.ReplaceAllString(s, "_")
	s = strings.Trim(s, "._")
	runes := []rune(s)
	if len(runes) > FilenameMaxLen {
		s = string(runes[:FilenameMaxLen])
	}
	return s
}

// Contained reports whether path resolves to root or somewhere inside it.
// It is the single containment rule for every upload-root path decision.
func Contained(root, path string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == absRoot || strings.HasPrefix(abs, absRoot+string(filepath.Separator))
}

// SafeJoin resolves name under root and confirms the result stays inside
// root. On failure it returns ErrUnsafePath and the caller must perform no
// filesystem I/O.
func SafeJoin(root, name string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(filepath.Join(absRoot, name))
	if err != nil {
		return "", err
	}
	if !Contained(root, abs) {
		return "", ErrUnsafePath
	}
	return abs, nil
}
