// Package storage persists normalized catalog snapshots to SQLite or Postgres.
package storage

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Run is one persisted pipeline execution.
type Run struct {
	ID          uuid.UUID `json:"id"`
	Source      string    `json:"source"`
	RecordCount int       `json:"record_count"`
	Seed        int64     `json:"seed"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordID derives a stable identifier for the record at position within a run.
func RecordID(runID uuid.UUID, position int, name string) uuid.UUID {
	return uuid.NewSHA1(runID, []byte(strconv.Itoa(position)+":"+name))
}
