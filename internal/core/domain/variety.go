package domain

import (
	"time"

	"github.com/google/uuid"
)

// RiceVariety is a catalogue entry. Deleting a variety only deactivates it.
type RiceVariety struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
