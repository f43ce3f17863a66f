package models

import "time"

// UserProduct grants a user access to a product's content. The composite
// unique index closes the duplicate-grant race between two concurrent
// deliveries of the same purchase webhook.
type UserProduct struct {
	BaseModel
	UserID          string     `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_product"`
	ProductID       string     `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_product"`
	AccessGrantedAt time.Time  `json:"access_granted_at"`
	AccessExpiresAt *time.Time `json:"access_expires_at,omitempty"`
}

// WebhookEvent stores a raw inbound payment-platform notification for
// audit. Processed stays false until every access grant for recognized
// products has been attempted, so a failed delivery can be retried.
type WebhookEvent struct {
	BaseModel
	Source    string `json:"source" gorm:"size:50;not null;index"`
	EventType string `json:"event_type" gorm:"size:50;not null"`
	Payload   string `json:"payload" gorm:"type:text"`
	Processed bool   `json:"processed" gorm:"default:false;index"`
}
