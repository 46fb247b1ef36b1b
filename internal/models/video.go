package models

import (
	"fmt"
	"time"
)

// Video represents a playable media item's metadata
type Video struct {
	ID        string    `json:"id" gorm:"type:text;primaryKey;column:id"`
	Title     string    `json:"title" gorm:"type:text;not null;column:title" validate:"required"`
	SourceURL string    `json:"url" gorm:"type:text;not null;column:source_url" validate:"required"`
	PosterURL string    `json:"thumbnail_url" gorm:"type:text;column:poster_url"`
	Duration  float64   `json:"duration" gorm:"type:real;not null;column:duration"` // seconds, authoritative value comes from the media pipeline
	CreatedAt time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewVideo creates a new Video with creation timestamp
func NewVideo(id, title, sourceURL string, duration float64) *Video {
	return &Video{
		ID:        id,
		Title:     title,
		SourceURL: sourceURL,
		Duration:  duration,
		CreatedAt: time.Now().UTC(),
	}
}

// DurationString returns duration in HH:MM:SS format
func (v *Video) DurationString() string {
	total := int64(v.Duration)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
