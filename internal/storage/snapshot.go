package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/back1ply/Catalog-of-BI-tools/internal/ingest"
)

// Store writes and reads whole catalog snapshots.
type Store struct {
	db       *sql.DB
	onRecord func(done, total int)
}

// NewStore wraps an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// WithProgress sets a callback invoked after each record is written.
func (s *Store) WithProgress(fn func(done, total int)) *Store {
	s.onRecord = fn
	return s
}

// SaveSnapshot persists records as a new run in a single transaction.
func (s *Store) SaveSnapshot(ctx context.Context, source string, seed int64, records []ingest.Record) (*Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	run := &Run{Source: source, RecordCount: len(records), Seed: seed}
	if err := NewRunRepository(tx).Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	recordRepo := NewRecordRepository(tx)
	for i, rec := range records {
		if _, err := recordRepo.Create(ctx, run.ID, i, rec); err != nil {
			return nil, err
		}
		if s.onRecord != nil {
			s.onRecord(i+1, len(records))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}
	return run, nil
}

// LoadSnapshot returns the run and its records. A nil runID selects the latest run.
func (s *Store) LoadSnapshot(ctx context.Context, runID uuid.UUID) (*Run, []ingest.Record, error) {
	runs := NewRunRepository(s.db)

	var (
		run *Run
		err error
	)
	if runID == uuid.Nil {
		run, err = runs.Latest(ctx)
	} else {
		run, err = runs.GetByID(ctx, runID)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("load run: %w", err)
	}

	records, err := NewRecordRepository(s.db).ListByRun(ctx, run.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load records: %w", err)
	}
	return run, records, nil
}

// Runs lists recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	return NewRunRepository(s.db).List(ctx, limit)
}

// TagCounts counts records per value of a multi-value field within a run.
func (s *Store) TagCounts(ctx context.Context, runID uuid.UUID, field string) (map[string]int, error) {
	return NewRecordRepository(s.db).TagCounts(ctx, runID, field)
}
