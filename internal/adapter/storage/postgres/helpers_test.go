package postgres

import (
	"time"
)

func ptr[T any](v T) *T {
	return &v
}

func fixedTime() time.Time {
	return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
}
