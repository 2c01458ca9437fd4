package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExportRun records one emission of a timeline to persistent storage.
type ExportRun struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Files     []string // archive files the timeline was built from
	Posts     int
}
