// internal/models/contact.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactMessage struct {
	BaseModel
	Name         string     `json:"name" gorm:"size:255;not null"`
	Email        string     `json:"email" gorm:"size:255;not null;index"`
	Subject      *string    `json:"subject"`
	Message      string     `json:"message" gorm:"type:text;not null"`
	ReplyMessage string     `json:"reply_message,omitempty" gorm:"type:text"`
	RepliedAt    *time.Time `json:"replied_at"`
	RepliedBy    *uuid.UUID `json:"replied_by" gorm:"type:uuid"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

func (m *ContactMessage) Replied() bool {
	return m.RepliedAt != nil
}
