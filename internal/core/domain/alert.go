package domain

import (
	"time"

	"github.com/google/uuid"
)

type AlertStatus string

const (
	AlertStatusActive   AlertStatus = "Active"
	AlertStatusResolved AlertStatus = "Resolved"
)

const AlertTypeLowStock = "LowStock"

// MaxAlertResults caps the alert listing.
const MaxAlertResults = 50

// Alert is an operational notice, e.g. stock under its threshold.
type Alert struct {
	ID          uuid.UUID   `json:"id"`
	Type        string      `json:"type"`
	Message     string      `json:"message"`
	Severity    string      `json:"severity"`
	Status      AlertStatus `json:"status"`
	ReferenceID *uuid.UUID  `json:"reference_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	ResolvedAt  *time.Time  `json:"resolved_at,omitempty"`
}
