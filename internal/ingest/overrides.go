package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Generation is a canonical generation descriptor. Num is 1-4, or 0 when unknown.
type Generation struct {
	Full  string `yaml:"full"`
	Short string `yaml:"short"`
	Num   int    `yaml:"num"`
}

// Overrides holds the name-keyed lookup tables that steer classification and placement.
type Overrides struct {
	// Generations maps raw generation spellings to canonical descriptors.
	Generations map[string]Generation `yaml:"generations"`
	// Inferred supplies a raw generation for names whose row has none.
	Inferred map[string]string `yaml:"inferred"`
	// Corrections replace the raw generation regardless of the row.
	Corrections map[string]string `yaml:"corrections"`
	// Coordinates pin quadrant positions by name.
	Coordinates map[string]Point `yaml:"coordinates"`
	// Supplemental records are appended after the CSV rows as authored.
	Supplemental []Record `yaml:"supplemental"`
}

// DefaultOverrides returns the built-in tables.
func DefaultOverrides() *Overrides {
	return &Overrides{
		Generations: map[string]Generation{
			"Generation 1 - traditional BI": {Full: "Generation 1 - Traditional BI", Short: "Gen 1", Num: 1},
			"Generation 2 - Self-service":   {Full: "Generation 2 - Self-service", Short: "Gen 2", Num: 2},
			"Generation 3":                  {Full: "Generation 3", Short: "Gen 3", Num: 3},
			"Generation 4+":                 {Full: "Generation 4+", Short: "Gen 4+", Num: 4},
		},
		Inferred: map[string]string{
			"AnswerRocket":        "Generation 3",
			"Sisense":             "Generation 3",
			"Gaphext":             "Generation 3",
			"Y42":                 "Generation 3",
			"Adverity.com":        "Generation 3",
			"Verb data":           "Generation 3",
			"Endor":               "Generation 3",
			"Scuba":               "Generation 3",
			"Whaly":               "Generation 3",
			"ToucanToco":          "Generation 3",
			"Mode":                "Generation 4+",
			"Cube":                "Generation 4+",
			"GoodData":            "Generation 4+",
			"Sigma":               "Generation 4+",
			"Omni":                "Generation 4+",
			"Virtualitics":        "Generation 4+",
			"Lightdash":           "Generation 3",
			"Acho":                "Generation 3",
			"Atscale":             "Generation 3",
			"Statsbot":            "Generation 2 - Self-service",
			"Polyture":            "Generation 2 - Self-service",
			"Veezoo":              "Generation 3",
			"Zepl":                "Generation 2 - Self-service",
			"Microsoft analytics": "Generation 1 - traditional BI",
			"Macheye":             "Generation 3",
			"DataHero":            "Generation 2 - Self-service",
			"Splashback":          "Generation 2 - Self-service",
		},
		Corrections: map[string]string{
			"Mode":      "Generation 4+",
			"Sigma":     "Generation 4+",
			"GoodData":  "Generation 4+",
			"Lightdash": "Generation 3",
		},
		Coordinates: map[string]Point{
			// Gen 1
			"Superset":            {X: 0.8, Y: 0.1},
			"Cluvio":              {X: 0.9, Y: 0.15},
			"Redash":              {X: 0.9, Y: 0.2},
			"Microsoft analytics": {X: 0.7, Y: 0.2},
			"Metric insights":     {X: 0.6, Y: 0.3},
			"Targit":              {X: 0.6, Y: 0.25},
			"Amazon Quick Sight":  {X: 0.8, Y: 0.35},
			"Preset":              {X: 1.2, Y: 0.2},
			// Gen 2
			"Domo":         {X: 1.6, Y: 0.38},
			"Incorta":      {X: 1.7, Y: 0.38},
			"Alteryx":      {X: 1.8, Y: 0.35},
			"Looker":       {X: 1.9, Y: 0.38},
			"Tableau":      {X: 1.4, Y: 0.6},
			"Qlik view":    {X: 1.3, Y: 0.52},
			"Power BI":     {X: 1.5, Y: 0.45},
			"Holistics.io": {X: 1.5, Y: 0.55},
			"Data Pine":    {X: 1.1, Y: 0.65},
			"Metabase":     {X: 1.5, Y: 0.7},
			"Mode":         {X: 3.5, Y: 0.38},
			"Mprove":       {X: 1.6, Y: 0.5},
			"Astrato":      {X: 1.8, Y: 0.48},
			"Baremetrics":  {X: 1.6, Y: 0.45},
			"Tellery":      {X: 1.7, Y: 0.42},
			"Bipp":         {X: 1.8, Y: 0.5},
			"Trevor":       {X: 1.7, Y: 0.45},
			"Varada":       {X: 1.9, Y: 0.35},
			"Glean":        {X: 1.8, Y: 0.55},
			"Explo":        {X: 1.7, Y: 0.6},
			"Einblick":     {X: 1.8, Y: 0.52},
			"Statsbot":     {X: 1.9, Y: 0.4},
			"Polyture":     {X: 1.8, Y: 0.55},
			"DataHero":     {X: 2.3, Y: 0.75},
			"Zepl":         {X: 1.9, Y: 0.3},
			"Splashback":   {X: 1.7, Y: 0.5},
			// Gen 3
			"Adverity.com": {X: 2.6, Y: 0.82},
			"Verb data":    {X: 2.7, Y: 0.85},
			"Scuba":        {X: 2.85, Y: 0.83},
			"Whaly":        {X: 3.0, Y: 0.85},
			"Endor":        {X: 2.7, Y: 0.78},
			"Gaphext":      {X: 2.5, Y: 0.7},
			"Y42":          {X: 2.7, Y: 0.7},
			"ToucanToco":   {X: 2.4, Y: 0.75},
			"Acho":         {X: 2.5, Y: 0.65},
			"Veezoo":       {X: 2.6, Y: 0.72},
			"Macheye":      {X: 2.6, Y: 0.78},
			"AnswerRocket": {X: 2.5, Y: 0.42},
			"Sisense":      {X: 2.6, Y: 0.4},
			"Lightdash":    {X: 2.7, Y: 0.25},
			"Atscale":      {X: 2.5, Y: 0.45},
			// Gen 4+
			"Omni":         {X: 3.7, Y: 0.8},
			"Sigma":        {X: 3.8, Y: 0.78},
			"Virtualitics": {X: 3.6, Y: 0.68},
			"Cube":         {X: 3.6, Y: 0.4},
			"GoodData":     {X: 3.7, Y: 0.35},
		},
		Supplemental: defaultSupplemental(),
	}
}

// LoadOverrides reads a YAML overrides file and merges it over the built-in tables.
// Map entries in the file replace same-named defaults; supplemental records are appended.
func LoadOverrides(path string) (*Overrides, error) {
	base := DefaultOverrides()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}

	var extra Overrides
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parse overrides: %w", err)
	}

	base.Merge(&extra)
	return base, nil
}

// Merge folds other into o.
func (o *Overrides) Merge(other *Overrides) {
	if other == nil {
		return
	}
	o.ensureMaps()
	for k, v := range other.Generations {
		o.Generations[k] = v
	}
	for k, v := range other.Inferred {
		o.Inferred[k] = v
	}
	for k, v := range other.Corrections {
		o.Corrections[k] = v
	}
	for k, v := range other.Coordinates {
		o.Coordinates[k] = v
	}
	o.Supplemental = append(o.Supplemental, other.Supplemental...)
}

func (o *Overrides) ensureMaps() {
	if o.Generations == nil {
		o.Generations = make(map[string]Generation)
	}
	if o.Inferred == nil {
		o.Inferred = make(map[string]string)
	}
	if o.Corrections == nil {
		o.Corrections = make(map[string]string)
	}
	if o.Coordinates == nil {
		o.Coordinates = make(map[string]Point)
	}
}

func defaultSupplemental() []Record {
	return []Record{
		{
			Name:            "Cube",
			Website:         "https://cube.dev",
			Generation:      "Generation 4+",
			GenerationShort: "Gen 4+",
			GenerationNum:   4,
			OptimizedFor:    []string{"mid-market", "Enterprise"},
			UserFocus:       []string{"Data Engineers", "Analysts"},
			Deployment:      []string{"Cloud", "Self-hosted"},
			Pricing:         []string{"Freemium"},
			QueryUsing:      []string{"SQL"},
			DWIntegrations:  []string{"Snowflake", "BigQuery", "Redshift", "PostgreSQL"},
			Features:        []string{"Data Modeling", "Embedded analytics", "Data Integration"},
			Quadrant:        Point{X: 3.6, Y: 0.4},
		},
		{
			Name:            "Omni",
			Website:         "https://omni.co",
			Generation:      "Generation 4+",
			GenerationShort: "Gen 4+",
			GenerationNum:   4,
			OptimizedFor:    []string{"mid-market", "Enterprise"},
			UserFocus:       []string{"Business users", "Analysts"},
			Deployment:      []string{"Cloud"},
			Pricing:         []string{"Contact Only"},
			QueryUsing:      []string{"SQL", "No-code"},
			DWIntegrations:  []string{"Snowflake", "BigQuery", "Redshift"},
			Features:        []string{"Visualization", "Data Modeling", "Embedded analytics"},
			Quadrant:        Point{X: 3.7, Y: 0.8},
		},
		{
			Name:            "Virtualitics",
			Website:         "https://virtualitics.com",
			Generation:      "Generation 4+",
			GenerationShort: "Gen 4+",
			GenerationNum:   4,
			OptimizedFor:    []string{"Enterprise"},
			UserFocus:       []string{"Business users", "Analysts"},
			Deployment:      []string{"Cloud", "On-prem"},
			Pricing:         []string{"Contact Only"},
			QueryUsing:      []string{"No-code", "Python"},
			DWIntegrations:  []string{"Snowflake"},
			Features:        []string{"Visualization", "Data exploration", "ML models creation"},
			Quadrant:        Point{X: 3.6, Y: 0.68},
		},
	}
}
