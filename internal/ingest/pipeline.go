package ingest

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/back1ply/Catalog-of-BI-tools/internal/observability"
)

// Options configures a Pipeline.
type Options struct {
	// Overrides defaults to DefaultOverrides().
	Overrides *Overrides
	// Seed for placement jitter; zero seeds from the clock. Ignored when Rand is set.
	Seed int64
	Rand *rand.Rand
	// Logger defaults to a no-op logger.
	Logger *observability.Logger
	// OnRow is called after each data row with the number of rows done and the total.
	OnRow func(done, total int)
}

// Stats summarizes one run.
type Stats struct {
	Lines              int `json:"lines"`
	SkippedRows        int `json:"skippedRows"`
	Records            int `json:"records"`
	Supplemental       int `json:"supplemental"`
	UnknownGenerations int `json:"unknownGenerations"`
	LeftoverTags       int `json:"leftoverTags"`
	Jittered           int `json:"jittered"`
}

// Result is the output of a run.
type Result struct {
	Records  []Record      `json:"records"`
	Summary  Summary       `json:"summary"`
	Stats    Stats         `json:"stats"`
	Duration time.Duration `json:"duration"`
}

// Pipeline turns catalog CSV text into normalized records.
type Pipeline struct {
	dicts        Dictionaries
	pairs        PairSet
	classifier   *Classifier
	placer       *Placer
	supplemental []Record
	logger       *observability.Logger
	onRow        func(done, total int)
}

// NewPipeline creates a pipeline from opts.
func NewPipeline(opts Options) *Pipeline {
	overrides := opts.Overrides
	if overrides == nil {
		overrides = DefaultOverrides()
	}
	logger := opts.Logger
	if logger == nil {
		logger = observability.Nop()
	}

	var placer *Placer
	if opts.Rand != nil {
		placer = NewPlacerWithRand(overrides.Coordinates, opts.Rand)
	} else {
		placer = NewPlacer(overrides.Coordinates, opts.Seed)
	}

	return &Pipeline{
		dicts:        DefaultDictionaries(),
		pairs:        DefaultIntegrationPairs(),
		classifier:   NewClassifier(overrides),
		placer:       placer,
		supplemental: overrides.Supplemental,
		logger:       logger.WithOperation("transform"),
		onRow:        opts.OnRow,
	}
}

// TransformFile runs the pipeline over the CSV at path.
func (p *Pipeline) TransformFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrMalformedInput, path, err)
	}
	defer f.Close()

	result, err := p.Transform(f)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", path, err)
	}
	return result, nil
}

// Transform parses the whole input, normalizes every named row and appends the
// supplemental records.
func (p *Pipeline) Transform(r io.Reader) (*Result, error) {
	start := time.Now()

	table, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	if !table.HasColumn(ColumnName) {
		p.logger.Warn().Strs("header", table.Header).Msg("header has no Name column, every row will be skipped")
	}

	stats := Stats{
		Lines:       len(table.Rows) + table.Skipped,
		SkippedRows: table.Skipped,
	}
	records := make([]Record, 0, len(table.Rows)+len(p.supplemental))

	for i, row := range table.Rows {
		rec, ok := p.Normalize(row)
		if !ok {
			stats.SkippedRows++
			p.logger.Debug().Int("line", row.Line).Msg("skipping row without a name")
		} else {
			p.observe(row, rec, &stats)
			records = append(records, rec)
		}
		if p.onRow != nil {
			p.onRow(i+1, len(table.Rows))
		}
	}
	stats.Records = len(records)

	for _, extra := range p.supplemental {
		extra.normalizeSlices()
		records = append(records, extra)
	}
	stats.Supplemental = len(p.supplemental)

	summary := Summarize(records)
	p.logger.Info().
		Int("records", len(records)).
		Int("skipped", stats.SkippedRows).
		Int("supplemental", stats.Supplemental).
		Int("unknown_generations", stats.UnknownGenerations).
		Str("distribution", summary.String()).
		Msg("catalog normalized")

	return &Result{
		Records:  records,
		Summary:  summary,
		Stats:    stats,
		Duration: time.Since(start),
	}, nil
}

// Normalize builds the record for one row. It reports false when the row has no name.
func (p *Pipeline) Normalize(row Row) (Record, bool) {
	name := row.Get(ColumnName)
	if name == "" {
		return Record{}, false
	}

	gen := p.classifier.Resolve(name, row.Get(ColumnGeneration))

	rec := Record{
		Name:             name,
		Website:          normalizeWebsite(row.Get(ColumnWebsite)),
		Generation:       gen.Full,
		GenerationShort:  gen.Short,
		GenerationNum:    gen.Num,
		OptimizedFor:     ExtractTokens(row.Get(ColumnOptimizedFor), p.dicts.OptimizedFor),
		UserFocus:        ExtractTokens(row.Get(ColumnUserFocus), p.dicts.UserFocus),
		Deployment:       ExtractTokens(row.Get(ColumnDeployment), p.dicts.Deployment),
		DataModeling:     optionalString(row.Get(ColumnDataModeling)),
		NoCodeInterface:  optionalString(row.Get(ColumnNoCodeInterface)),
		Pricing:          ExtractTokens(row.Get(ColumnPricing), p.dicts.Pricing),
		QueryUsing:       ExtractTokens(row.Get(ColumnQueryUsing), p.dicts.QueryUsing),
		DWIntegrations:   SplitIntegrations(row.Get(ColumnDWIntegrations), p.pairs),
		Features:         SplitFeatures(row.Get(ColumnFeatures), p.dicts.Features),
		NativeConnectors: parseLeadingInt(row.Get(ColumnNativeConnectors)),
		Quadrant:         p.placer.Resolve(name, gen.Num),
	}
	return rec, true
}

func (p *Pipeline) observe(row Row, rec Record, stats *Stats) {
	if rec.GenerationNum == 0 {
		stats.UnknownGenerations++
		p.logger.Debug().Str("name", rec.Name).Str("generation", rec.Generation).Msg("unknown generation")
	}
	if !p.placer.Pinned(rec.Name) {
		stats.Jittered++
	}

	checks := []struct {
		dict Dictionary
		tags []string
	}{
		{p.dicts.OptimizedFor, rec.OptimizedFor},
		{p.dicts.UserFocus, rec.UserFocus},
		{p.dicts.Deployment, rec.Deployment},
		{p.dicts.Pricing, rec.Pricing},
		{p.dicts.QueryUsing, rec.QueryUsing},
		{p.dicts.Features, rec.Features},
	}
	for _, c := range checks {
		for _, tag := range c.tags {
			if c.dict.Contains(tag) {
				continue
			}
			stats.LeftoverTags++
			p.logger.Debug().
				Int("line", row.Line).
				Str("name", rec.Name).
				Str("column", c.dict.Name).
				Str("tag", tag).
				Msg("tag not in dictionary")
		}
	}
}

func normalizeWebsite(site string) string {
	if site == "" || strings.HasPrefix(site, "http") {
		return site
	}
	return "https://" + site
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// parseLeadingInt reads an optional sign and the leading digits of v. It returns nil when
// v does not start with a number, so "120+" reads as 120 and "N/A" as nil.
func parseLeadingInt(v string) *int {
	s := strings.TrimSpace(v)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		n = n*10 + int(s[digits]-'0')
		digits++
	}
	if digits == 0 {
		return nil
	}
	if neg {
		n = -n
	}
	return &n
}
