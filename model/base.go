package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the store-assigned identity shared by every campaign document.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate always assigns a fresh identifier; client-supplied ids are ignored.
func (b *Base) BeforeCreate(*gorm.DB) error {
	b.ID = uuid.NewString()
	return nil
}

// AbilityScores are the six raw D&D scores.
type AbilityScores struct {
	Force        int `json:"force"`
	Dexterite    int `json:"dexterite"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Sagesse      int `json:"sagesse"`
	Charisme     int `json:"charisme"`
}

// DefaultAbilityScores returns the all-10 baseline.
func DefaultAbilityScores() AbilityScores {
	return AbilityScores{10, 10, 10, 10, 10, 10}
}

// Trait is a named racial, class or background feature.
type Trait struct {
	Nom    string `json:"nom"`
	Source string `json:"source,omitempty"`
	Desc   string `json:"desc,omitempty"`
}

// ValidationError reports an invalid document. The store maps it to
// an invalid-argument error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func required(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}
