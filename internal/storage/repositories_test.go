package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/back1ply/Catalog-of-BI-tools/internal/ingest"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func sampleRecords() []ingest.Record {
	return []ingest.Record{
		{
			Name:             "Tableau",
			Website:          "https://tableau.com",
			Generation:       "Generation 2 - Self-service",
			GenerationShort:  "Gen 2",
			GenerationNum:    2,
			OptimizedFor:     []string{"Visualization"},
			UserFocus:        []string{"Business users", "Analysts"},
			Deployment:       []string{"Cloud", "On-prem"},
			DataModeling:     strPtr("Yes"),
			NoCodeInterface:  nil,
			Pricing:          []string{"Contact Only"},
			QueryUsing:       []string{},
			DWIntegrations:   []string{"Snowflake", "Azure SQL"},
			Features:         []string{},
			NativeConnectors: intPtr(80),
			Quadrant:         ingest.Point{X: 2.1, Y: 0.9},
		},
		{
			Name:            "Mystery",
			Website:         "",
			OptimizedFor:    []string{},
			UserFocus:       []string{},
			Deployment:      []string{},
			Pricing:         []string{},
			QueryUsing:      []string{},
			DWIntegrations:  []string{},
			Features:        []string{"Odd"},
			Quadrant:        ingest.Point{X: 1.85, Y: 0.5},
		},
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, Options{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db))
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "mysql", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), db))
}

func TestStore_SaveAndLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))

	records := sampleRecords()
	run, err := store.SaveSnapshot(ctx, "Catalog of BI tools.csv", 42, records)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, 2, run.RecordCount)

	loadedRun, loaded, err := store.LoadSnapshot(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, loadedRun.ID)
	assert.Equal(t, "Catalog of BI tools.csv", loadedRun.Source)
	assert.Equal(t, int64(42), loadedRun.Seed)
	assert.Equal(t, records, loaded)
}

func TestStore_LoadSnapshot_Latest(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewStore(db)

	older := &Run{Source: "old.csv", CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, NewRunRepository(db).Create(ctx, older))

	newer, err := store.SaveSnapshot(ctx, "new.csv", 0, sampleRecords()[:1])
	require.NoError(t, err)

	run, records, err := store.LoadSnapshot(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, run.ID)
	require.Len(t, records, 1)
	assert.Equal(t, "Tableau", records[0].Name)

	runs, err := store.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
}

func TestStore_LoadSnapshot_NotFound(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))

	_, _, err := store.LoadSnapshot(ctx, uuid.Nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = store.LoadSnapshot(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_TagCounts(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))

	records := sampleRecords()
	records[1].Deployment = []string{"Cloud"}
	run, err := store.SaveSnapshot(ctx, "in.csv", 1, records)
	require.NoError(t, err)

	counts, err := store.TagCounts(ctx, run.ID, "deployment")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Cloud": 2, "On-prem": 1}, counts)
}

func TestRecordID_Deterministic(t *testing.T) {
	runID := uuid.New()

	assert.Equal(t, RecordID(runID, 0, "Tableau"), RecordID(runID, 0, "Tableau"))
	assert.NotEqual(t, RecordID(runID, 0, "Tableau"), RecordID(runID, 1, "Tableau"))
	assert.NotEqual(t, RecordID(runID, 0, "Tableau"), RecordID(uuid.New(), 0, "Tableau"))
}

func TestStore_DuplicateNamesKeepBothRecords(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))

	records := sampleRecords()
	records[1] = records[0]
	run, err := store.SaveSnapshot(ctx, "dup.csv", 0, records)
	require.NoError(t, err)

	_, loaded, err := store.LoadSnapshot(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestStore_WithProgress(t *testing.T) {
	var calls [][2]int
	store := NewStore(openTestDB(t)).WithProgress(func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})

	_, err := store.SaveSnapshot(context.Background(), "p.csv", 0, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, calls)
}
