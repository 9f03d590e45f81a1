// Package facets derives the per-dimension value index that the presentation layer filters on.
package facets

import (
	"sort"
	"strings"

	"github.com/back1ply/Catalog-of-BI-tools/internal/ingest"
)

// Dimension is one filterable field of a catalog record.
type Dimension struct {
	Name  string `json:"name"`
	Key   string `json:"key"`
	Label string `json:"label"`
	Multi bool   `json:"isArray"`

	values func(ingest.Record) []string
}

// Dimensions lists the filterable fields in display order.
var Dimensions = []Dimension{
	{Name: "generation", Key: "generationShort", Label: "Generation", values: func(r ingest.Record) []string {
		return []string{r.GenerationShort}
	}},
	{Name: "userFocus", Key: "userFocus", Label: "User Focus", Multi: true, values: func(r ingest.Record) []string {
		return r.UserFocus
	}},
	{Name: "optimizedFor", Key: "optimizedFor", Label: "Optimized For", Multi: true, values: func(r ingest.Record) []string {
		return r.OptimizedFor
	}},
	{Name: "deployment", Key: "deployment", Label: "Deployment", Multi: true, values: func(r ingest.Record) []string {
		return r.Deployment
	}},
	{Name: "pricing", Key: "pricing", Label: "Pricing", Multi: true, values: func(r ingest.Record) []string {
		return r.Pricing
	}},
	{Name: "queryUsing", Key: "queryUsing", Label: "Query Using", Multi: true, values: func(r ingest.Record) []string {
		return r.QueryUsing
	}},
}

// Lookup returns the dimension with the given name.
func Lookup(name string) (Dimension, bool) {
	for _, d := range Dimensions {
		if d.Name == name {
			return d, true
		}
	}
	return Dimension{}, false
}

// Index maps every distinct value of every dimension to the records carrying it.
type Index struct {
	records  []ingest.Record
	options  map[string][]string
	postings map[string]map[string][]int
}

// Build scans records once and indexes every dimension.
func Build(records []ingest.Record) *Index {
	ix := &Index{
		records:  records,
		options:  make(map[string][]string, len(Dimensions)),
		postings: make(map[string]map[string][]int, len(Dimensions)),
	}
	for _, d := range Dimensions {
		ix.postings[d.Name] = make(map[string][]int)
	}

	for i, rec := range records {
		for _, d := range Dimensions {
			seen := make(map[string]struct{})
			for _, v := range d.values(rec) {
				if v == "" {
					continue
				}
				if _, dup := seen[v]; dup {
					continue
				}
				seen[v] = struct{}{}
				ix.postings[d.Name][v] = append(ix.postings[d.Name][v], i)
			}
		}
	}

	for _, d := range Dimensions {
		values := make([]string, 0, len(ix.postings[d.Name]))
		for v := range ix.postings[d.Name] {
			values = append(values, v)
		}
		sort.Strings(values)
		ix.options[d.Name] = values
	}

	return ix
}

// Values returns the sorted distinct values of a dimension.
func (ix *Index) Values(dimension string) []string {
	return ix.options[dimension]
}

// Options returns the sorted distinct values of every dimension.
func (ix *Index) Options() map[string][]string {
	out := make(map[string][]string, len(ix.options))
	for k, v := range ix.options {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Records returns the records carrying value in dimension, in collection order.
func (ix *Index) Records(dimension, value string) []ingest.Record {
	positions := ix.postings[dimension][value]
	out := make([]ingest.Record, len(positions))
	for i, pos := range positions {
		out[i] = ix.records[pos]
	}
	return out
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Query selects records. Search is a case-insensitive substring over name, features,
// integrations and generation. Filters are ANDed across dimensions and ORed within one.
type Query struct {
	Search  string              `json:"search,omitempty"`
	Filters map[string][]string `json:"filters,omitempty"`
}

// Filter returns the records matching q, in collection order.
func (ix *Index) Filter(q Query) []ingest.Record {
	needle := strings.ToLower(q.Search)
	out := []ingest.Record{}
	for _, rec := range ix.records {
		if needle != "" && !strings.Contains(haystack(rec), needle) {
			continue
		}
		if !matchesFilters(rec, q.Filters) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func haystack(rec ingest.Record) string {
	parts := make([]string, 0, 2+len(rec.Features)+len(rec.DWIntegrations))
	parts = append(parts, rec.Name)
	parts = append(parts, rec.Features...)
	parts = append(parts, rec.DWIntegrations...)
	parts = append(parts, rec.Generation)
	return strings.ToLower(strings.Join(parts, " "))
}

func matchesFilters(rec ingest.Record, filters map[string][]string) bool {
	for _, d := range Dimensions {
		active := filters[d.Name]
		if len(active) == 0 {
			continue
		}
		if !anyIn(active, d.values(rec)) {
			return false
		}
	}
	return true
}

func anyIn(wanted, have []string) bool {
	for _, w := range wanted {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

// Snapshot is the serializable form of an index: sorted options plus value -> record names.
type Snapshot struct {
	Dimensions []Dimension                     `json:"dimensions"`
	Options    map[string][]string             `json:"options"`
	Index      map[string]map[string][]string `json:"index"`
}

// Snapshot renders the index for publishing.
func (ix *Index) Snapshot() Snapshot {
	snap := Snapshot{
		Dimensions: Dimensions,
		Options:    ix.Options(),
		Index:      make(map[string]map[string][]string, len(ix.postings)),
	}
	for dim, values := range ix.postings {
		byValue := make(map[string][]string, len(values))
		for v, positions := range values {
			names := make([]string, len(positions))
			for i, pos := range positions {
				names[i] = ix.records[pos].Name
			}
			byValue[v] = names
		}
		snap.Index[dim] = byValue
	}
	return snap
}
