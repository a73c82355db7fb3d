package models

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry — запись аудита об изменении галереи
type JournalEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Operation string    `json:"operation" db:"operation"` // add, write, unlink, reorder
	ProductID int       `json:"product_id,omitempty" db:"product_id"`
	ImageID   int       `json:"image_id,omitempty" db:"image_id"`
	Detail    string    `json:"detail,omitempty" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
