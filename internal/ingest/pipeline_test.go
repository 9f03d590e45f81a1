package ingest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullHeader = "Name,Website,Generation,Optimized for,User focus,Deployment support,Data modeling," +
	"No-code interface,Pricing,Query using,DW integrations,Features,Number of native connectors"

func newTestPipeline(t *testing.T, withSupplemental bool) *Pipeline {
	t.Helper()
	overrides := DefaultOverrides()
	if !withSupplemental {
		overrides.Supplemental = nil
	}
	return NewPipeline(Options{Overrides: overrides, Seed: 42})
}

func names(records []Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Name
	}
	return out
}

func TestPipeline_MinimalRow(t *testing.T) {
	input := "Name,Generation,Pricing\nFoo,Generation 1 - traditional BI,Freemium Contact Only"

	result, err := newTestPipeline(t, false).Transform(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, "Foo", rec.Name)
	assert.Equal(t, "Gen 1", rec.GenerationShort)
	assert.Equal(t, 1, rec.GenerationNum)
	assert.Equal(t, []string{"Contact Only", "Freemium"}, rec.Pricing)
	assert.Equal(t, "", rec.Website)
	assert.Nil(t, rec.DataModeling)
	assert.Nil(t, rec.NativeConnectors)
	assert.Equal(t, []string{}, rec.OptimizedFor)
	assert.Equal(t, []string{}, rec.DWIntegrations)
	assert.GreaterOrEqual(t, rec.Quadrant.X, 0.8)
	assert.LessOrEqual(t, rec.Quadrant.X, 1.2)
}

func TestPipeline_FullRow(t *testing.T) {
	input := fullHeader + "\n" +
		`Tableau,tableau.com,Generation 2 - Self-service,mid-market Enterprise,Business users Analysts,` +
		`Cloud On-prem,Yes,"Drag and drop, visual",free trial Contact Only,SQL R,` +
		`Snowflake Azure SQL BigQuery,Visualization Data Preparation Drill down,100+`

	result, err := newTestPipeline(t, false).Transform(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, "https://tableau.com", rec.Website)
	assert.Equal(t, "Generation 2 - Self-service", rec.Generation)
	assert.Equal(t, 2, rec.GenerationNum)
	assert.Equal(t, []string{"mid-market", "Enterprise"}, rec.OptimizedFor)
	assert.Equal(t, []string{"Business users", "Analysts"}, rec.UserFocus)
	assert.Equal(t, []string{"On-prem", "Cloud"}, rec.Deployment)
	require.NotNil(t, rec.DataModeling)
	assert.Equal(t, "Yes", *rec.DataModeling)
	require.NotNil(t, rec.NoCodeInterface)
	assert.Equal(t, "Drag and drop, visual", *rec.NoCodeInterface)
	assert.Equal(t, []string{"Contact Only", "free trial"}, rec.Pricing)
	assert.Equal(t, []string{"SQL", "R"}, rec.QueryUsing)
	assert.Equal(t, []string{"Snowflake", "Azure SQL", "BigQuery"}, rec.DWIntegrations)
	assert.Equal(t, []string{"Data Preparation", "Visualization", "Drill down"}, rec.Features)
	require.NotNil(t, rec.NativeConnectors)
	assert.Equal(t, 100, *rec.NativeConnectors)
	assert.Equal(t, Point{X: 1.4, Y: 0.6}, rec.Quadrant)
}

func TestPipeline_SkipsAndOrder(t *testing.T) {
	input := "Name,Generation\nAlpha,Generation 3\n\n  ,Generation 1 - traditional BI\nBeta,\n"

	result, err := newTestPipeline(t, true).Transform(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha", "Beta", "Cube", "Omni", "Virtualitics"}, names(result.Records))
	assert.Equal(t, 1, result.Stats.SkippedRows)
	assert.Equal(t, 2, result.Stats.Records)
	assert.Equal(t, 3, result.Stats.Supplemental)
	assert.Equal(t, 1, result.Stats.UnknownGenerations)
}

func TestPipeline_SkipsRowsWithoutName(t *testing.T) {
	input := "Website,Name\na.com,\nb.com,Bravo\n"

	result, err := newTestPipeline(t, false).Transform(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Bravo"}, names(result.Records))
	assert.Equal(t, 1, result.Stats.SkippedRows)
}

func TestPipeline_DuplicatesSurvive(t *testing.T) {
	input := "Name,Pricing\nCube,Freemium\nCube,Contact Only\n"

	result, err := newTestPipeline(t, true).Transform(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Cube", "Cube", "Cube", "Omni", "Virtualitics"}, names(result.Records))
	assert.Equal(t, []string{"Freemium"}, result.Records[0].Pricing)
	assert.Equal(t, []string{"Contact Only"}, result.Records[1].Pricing)
}

func TestPipeline_IdempotentWithSeed(t *testing.T) {
	input := fullHeader + "\nUnmapped,x.io,Generation 3\nTableau,,Generation 2 - Self-service\n"

	first, err := NewPipeline(Options{Seed: 7}).Transform(strings.NewReader(input))
	require.NoError(t, err)
	second, err := NewPipeline(Options{Seed: 7}).Transform(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, first.Records, second.Records)

	other, err := NewPipeline(Options{Seed: 8}).Transform(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, first.Records[1], other.Records[1], "pinned names never move")
	assert.Equal(t, 1, first.Stats.Jittered)
}

func TestPipeline_LeftoverTagsCounted(t *testing.T) {
	input := "Name,Deployment support,Features\nFoo,Cloud Docker,Glossary Widgets\n"

	result, err := newTestPipeline(t, false).Transform(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Cloud", "Docker"}, result.Records[0].Deployment)
	assert.Equal(t, 2, result.Stats.LeftoverTags)
}

func TestPipeline_OnRowProgress(t *testing.T) {
	var calls [][2]int
	pipeline := NewPipeline(Options{Seed: 1, OnRow: func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}})

	_, err := pipeline.Transform(strings.NewReader("Name\nA\nB\n"))
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, calls)
}

func TestPipeline_TransformFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Generation\nSigma,\n"), 0o644))

	result, err := newTestPipeline(t, false).TransformFile(path)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Gen 4+", result.Records[0].GenerationShort)
	assert.Equal(t, Point{X: 3.8, Y: 0.78}, result.Records[0].Quadrant)

	_, err = newTestPipeline(t, false).TransformFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestSummarize(t *testing.T) {
	input := "Name,Generation\nFoo,Generation 1 - traditional BI\nBar,\n"

	result, err := newTestPipeline(t, true).Transform(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, Summary{
		{Label: "Gen 1", Count: 1},
		{Label: UnknownBucket, Count: 1},
		{Label: "Gen 4+", Count: 3},
	}, result.Summary)
	assert.Equal(t, 5, result.Summary.Total())
	assert.Equal(t, 3, result.Summary.Count("Gen 4+"))
	assert.Equal(t, "Gen 1=1, Unknown=1, Gen 4+=3", result.Summary.String())

	data, err := result.Summary.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"Gen 1":1,"Unknown":1,"Gen 4+":3}`, string(data))

	var decoded Summary
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.Equal(t, result.Summary, decoded)
}

func TestWriteJSON_NullsAndEmptyLists(t *testing.T) {
	records := []Record{{Name: "Bare", Quadrant: Point{X: 1, Y: 0.5}}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, records, "  "))

	out := buf.String()
	assert.Contains(t, out, `"dataModeling": null`)
	assert.Contains(t, out, `"nativeConnectors": null`)
	assert.Contains(t, out, `"optimizedFor": []`)
	assert.Contains(t, out, `"quadrant": {`)

	decoded, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "Bare", decoded[0].Name)
	assert.Equal(t, []string{}, decoded[0].Features)
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		input    string
		expected *int
	}{
		{"", nil},
		{"N/A", nil},
		{"120+", intPtr(120)},
		{" 45 ", intPtr(45)},
		{"-3", intPtr(-3)},
		{"0", intPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLeadingInt(tt.input))
		})
	}
}

func intPtr(v int) *int { return &v }
