package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides common fields for all database models.
// Primary keys are UUID strings so that provider-issued identifiers
// (profiles) and locally generated ones share the same shape.
type BaseModel struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns a UUID when the caller did not supply one
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Profile represents a portal user. The ID is issued by the external
// identity provider; the webhook handler may create a profile lazily on
// first purchase.
type Profile struct {
	BaseModel
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}
