package model

import (
	"strings"
	"time"
)

// Document is one row per accepted PDF upload. Content holds the extracted
// plain text; empty string means "no usable content".
type Document struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Filename         string    `gorm:"size:255;not null" json:"filename"`
	OriginalFilename string    `gorm:"size:255;not null" json:"original_filename"`
	FilePath         string    `gorm:"size:500;not null" json:"file_path"`
	Content          string    `gorm:"type:longtext" json:"-"`
	FileSize         int64     `gorm:"not null" json:"file_size"`
	UploadDate       time.Time `gorm:"autoCreateTime" json:"upload_date"`
	Description      string    `gorm:"type:text" json:"description"`
	Tags             string    `gorm:"size:500" json:"-"`
}

const listContentPreviewLen = 200

// DocumentView is the JSON shape returned by the API. Tags are split for the
// client; content truncation for list views happens here, never in storage.
type DocumentView struct {
	ID               uint      `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FilePath         string    `json:"file_path"`
	Content          string    `json:"content"`
	FileSize         int64     `json:"file_size"`
	UploadDate       time.Time `json:"upload_date"`
	Description      string    `json:"description"`
	Tags             []string  `json:"tags"`
}

func (d *Document) View() DocumentView {
	return DocumentView{
		ID:               d.ID,
		Filename:         d.Filename,
		OriginalFilename: d.OriginalFilename,
		FilePath:         d.FilePath,
		Content:          d.Content,
		FileSize:         d.FileSize,
		UploadDate:       d.UploadDate,
		Description:      d.Description,
		Tags:             d.TagList(),
	}
}

// ListView truncates content to a short preview. Truncation counts runes so
// the preview is always valid UTF-8.
func (d *Document) ListView() DocumentView {
	v := d.View()
	if runes := []rune(v.Content); len(runes) > listContentPreviewLen {
		v.Content = string(runes[:listContentPreviewLen]) + "..."
	}
	return v
}

func (d *Document) TagList() []string {
	if d.Tags == "" {
		return []string{}
	}
	parts := strings.Split(d.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func (d *Document) HasContent() bool {
	return strings.TrimSpace(d.Content) != ""
}
