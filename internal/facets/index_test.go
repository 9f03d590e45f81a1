package facets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/back1ply/Catalog-of-BI-tools/internal/ingest"
)

func sampleRecords() []ingest.Record {
	return []ingest.Record{
		{
			Name: "Tableau", Generation: "Generation 2 - Self-service", GenerationShort: "Gen 2",
			UserFocus: []string{"Business users", "Analysts"}, Pricing: []string{"Contact Only", "free trial"},
			Deployment: []string{"On-prem", "Cloud"}, QueryUsing: []string{"SQL"},
			Features: []string{"Visualization"}, DWIntegrations: []string{"Snowflake"},
		},
		{
			Name: "Redash", Generation: "Generation 1 - Traditional BI", GenerationShort: "Gen 1",
			UserFocus: []string{"Analysts"}, Pricing: []string{"Freemium"},
			Deployment: []string{"Open-source", "Cloud"}, QueryUsing: []string{"SQL", "Python"},
			Features: []string{"SQL editor"}, DWIntegrations: []string{"Azure SQL"},
		},
		{
			Name: "Mystery", Generation: "", GenerationShort: "",
			Features: []string{"Visualization", "Visualization"},
		},
	}
}

func names(records []ingest.Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Name
	}
	return out
}

func TestBuild_Options(t *testing.T) {
	ix := Build(sampleRecords())

	assert.Equal(t, 3, ix.Len())
	assert.Equal(t, []string{"Gen 1", "Gen 2"}, ix.Values("generation"))
	assert.Equal(t, []string{"Analysts", "Business users"}, ix.Values("userFocus"))
	assert.Equal(t, []string{"Cloud", "On-prem", "Open-source"}, ix.Values("deployment"))
	assert.Equal(t, []string{"Contact Only", "Freemium", "free trial"}, ix.Values("pricing"))
	assert.Empty(t, ix.Values("optimizedFor"))
	assert.Nil(t, ix.Values("features"), "features are not a filter dimension")

	opts := ix.Options()
	assert.Len(t, opts, len(Dimensions))
}

func TestBuild_Records(t *testing.T) {
	ix := Build(sampleRecords())

	assert.Equal(t, []string{"Tableau", "Redash"}, names(ix.Records("deployment", "Cloud")))
	assert.Equal(t, []string{"Redash"}, names(ix.Records("queryUsing", "Python")))
	assert.Empty(t, ix.Records("pricing", "Pay per Session"))
}

func TestIndex_Filter(t *testing.T) {
	ix := Build(sampleRecords())

	tests := []struct {
		name     string
		query    Query
		expected []string
	}{
		{"everything", Query{}, []string{"Tableau", "Redash", "Mystery"}},
		{"search name", Query{Search: "RED"}, []string{"Redash"}},
		{"search feature", Query{Search: "visual"}, []string{"Tableau", "Mystery"}},
		{"search integration", Query{Search: "azure"}, []string{"Redash"}},
		{"search generation", Query{Search: "traditional"}, []string{"Redash"}},
		{"or within dimension", Query{Filters: map[string][]string{"pricing": {"Freemium", "free trial"}}}, []string{"Tableau", "Redash"}},
		{"and across dimensions", Query{Filters: map[string][]string{
			"deployment": {"Cloud"},
			"queryUsing": {"Python"},
		}}, []string{"Redash"}},
		{"scalar dimension", Query{Filters: map[string][]string{"generation": {"Gen 2"}}}, []string{"Tableau"}},
		{"search and filter", Query{Search: "sql", Filters: map[string][]string{"generation": {"Gen 2"}}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, names(ix.Filter(tt.query)))
		})
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("pricing")
	require.True(t, ok)
	assert.True(t, d.Multi)
	assert.Equal(t, "Pricing", d.Label)

	_, ok = Lookup("features")
	assert.False(t, ok)
}

func TestIndex_Snapshot(t *testing.T) {
	snap := Build(sampleRecords()).Snapshot()

	assert.Equal(t, []string{"Tableau", "Redash"}, snap.Index["userFocus"]["Analysts"])
	assert.Equal(t, []string{"Gen 1", "Gen 2"}, snap.Options["generation"])

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"isArray":true`)
}
