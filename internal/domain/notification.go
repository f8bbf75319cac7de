package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID          string    `bson:"_id" json:"id"`
	Content     string    `bson:"content" json:"content"`
	RecipientID string    `bson:"recipient_id" json:"recipient_id"`
	Read        bool      `bson:"read" json:"read"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// BeforeInsert fills the id and timestamps the store expects on new documents.
func (n *Notification) BeforeInsert(now time.Time) error {
	if n.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		n.ID = id.String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = now
	}
	return nil
}
