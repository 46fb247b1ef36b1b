package models

import (
	"time"
)

// Setting is a persisted key/value pair for client-side flags that the
// original player kept in ambient browser storage (onboarding state).
type Setting struct {
	Key       string    `json:"key" gorm:"type:text;primaryKey;column:key" validate:"required"`
	Value     string    `json:"value" gorm:"type:text;not null;column:value"`
	UpdatedAt time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// Well-known setting keys
const (
	SettingOnboardingComplete = "video_onboarding_complete"
)
