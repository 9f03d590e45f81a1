package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/back1ply/Catalog-of-BI-tools/internal/ingest"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("record not found")

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// RunRepository handles catalog run rows.
type RunRepository struct {
	db DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run, assigning an ID and timestamp when unset.
func (r *RunRepository) Create(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	query := `
		INSERT INTO catalog_runs (id, source, record_count, seed, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID.String(), run.Source, run.RecordCount, run.Seed, run.CreatedAt,
	)
	return err
}

// GetByID retrieves a run by ID.
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Run, error) {
	query := `
		SELECT id, source, record_count, seed, created_at
		FROM catalog_runs WHERE id = $1
	`
	return scanRun(r.db.QueryRowContext(ctx, query, id.String()))
}

// Latest retrieves the most recently created run.
func (r *RunRepository) Latest(ctx context.Context) (*Run, error) {
	query := `
		SELECT id, source, record_count, seed, created_at
		FROM catalog_runs ORDER BY created_at DESC LIMIT 1
	`
	return scanRun(r.db.QueryRowContext(ctx, query))
}

// List returns runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, source, record_count, seed, created_at
		FROM catalog_runs ORDER BY created_at DESC LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Source, &run.RecordCount, &run.Seed, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(row *sql.Row) (*Run, error) {
	run := &Run{}
	err := row.Scan(&run.ID, &run.Source, &run.RecordCount, &run.Seed, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// RecordRepository handles catalog records and their tags.
type RecordRepository struct {
	db DB
}

// NewRecordRepository creates a new record repository.
func NewRecordRepository(db DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Create inserts the record at position within runID together with its tags.
func (r *RecordRepository) Create(ctx context.Context, runID uuid.UUID, position int, rec ingest.Record) (uuid.UUID, error) {
	id := RecordID(runID, position, rec.Name)

	query := `
		INSERT INTO catalog_records (id, run_id, position, name, website, generation,
			generation_short, generation_num, data_modeling, no_code_interface,
			native_connectors, quadrant_x, quadrant_y)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		id.String(), runID.String(), position, rec.Name, rec.Website, rec.Generation,
		rec.GenerationShort, rec.GenerationNum, nullString(rec.DataModeling),
		nullString(rec.NoCodeInterface), nullInt(rec.NativeConnectors),
		rec.Quadrant.X, rec.Quadrant.Y,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert record %q: %w", rec.Name, err)
	}

	tagQuery := `
		INSERT INTO catalog_record_tags (record_id, field, position, value)
		VALUES ($1, $2, $3, $4)
	`
	for _, mv := range rec.MultiValues() {
		for i, v := range mv.Values {
			if _, err := r.db.ExecContext(ctx, tagQuery, id.String(), mv.Name, i, v); err != nil {
				return uuid.Nil, fmt.Errorf("insert %s tag for %q: %w", mv.Name, rec.Name, err)
			}
		}
	}
	return id, nil
}

// ListByRun returns the records of a run in their original order.
func (r *RecordRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]ingest.Record, error) {
	query := `
		SELECT id, name, website, generation, generation_short, generation_num,
			data_modeling, no_code_interface, native_connectors, quadrant_x, quadrant_y
		FROM catalog_records WHERE run_id = $1 ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, runID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []ingest.Record{}
	byID := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			id                   uuid.UUID
			rec                  ingest.Record
			dataModeling, noCode sql.NullString
			nativeConnectors     sql.NullInt64
		)
		if err := rows.Scan(&id, &rec.Name, &rec.Website, &rec.Generation, &rec.GenerationShort,
			&rec.GenerationNum, &dataModeling, &noCode, &nativeConnectors,
			&rec.Quadrant.X, &rec.Quadrant.Y,
		); err != nil {
			return nil, err
		}
		rec.DataModeling = fromNullString(dataModeling)
		rec.NoCodeInterface = fromNullString(noCode)
		if nativeConnectors.Valid {
			n := int(nativeConnectors.Int64)
			rec.NativeConnectors = &n
		}
		byID[id] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTags(ctx, runID, records, byID); err != nil {
		return nil, err
	}
	for i := range records {
		for _, mv := range records[i].MultiValues() {
			if mv.Values == nil {
				records[i].SetMultiValue(mv.Name, []string{})
			}
		}
	}
	return records, nil
}

func (r *RecordRepository) attachTags(ctx context.Context, runID uuid.UUID, records []ingest.Record, byID map[uuid.UUID]int) error {
	query := `
		SELECT t.record_id, t.field, t.value
		FROM catalog_record_tags t
		JOIN catalog_records r ON r.id = t.record_id
		WHERE r.run_id = $1
		ORDER BY t.record_id, t.field, t.position
	`
	rows, err := r.db.QueryContext(ctx, query, runID.String())
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id           uuid.UUID
			field, value string
		)
		if err := rows.Scan(&id, &field, &value); err != nil {
			return err
		}
		idx, ok := byID[id]
		if !ok {
			continue
		}
		rec := &records[idx]
		for _, mv := range rec.MultiValues() {
			if mv.Name == field {
				rec.SetMultiValue(field, append(mv.Values, value))
				break
			}
		}
	}
	return rows.Err()
}

// TagCounts returns how many records of a run carry each value of field.
func (r *RecordRepository) TagCounts(ctx context.Context, runID uuid.UUID, field string) (map[string]int, error) {
	query := `
		SELECT t.value, COUNT(*)
		FROM catalog_record_tags t
		JOIN catalog_records r ON r.id = t.record_id
		WHERE r.run_id = $1 AND t.field = $2
		GROUP BY t.value
	`
	rows, err := r.db.QueryContext(ctx, query, runID.String(), field)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			value string
			n     int
		)
		if err := rows.Scan(&value, &n); err != nil {
			return nil, err
		}
		counts[value] = n
	}
	return counts, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
