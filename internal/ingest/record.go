package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// Point is a quadrant position: X on the generation axis, Y from technical (0) to business (1).
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Rounded returns p with both coordinates rounded to two decimals.
func (p Point) Rounded() Point {
	return Point{X: round2(p.X), Y: round2(p.Y)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Record is one normalized catalog entry.
type Record struct {
	Name             string   `json:"name" yaml:"name"`
	Website          string   `json:"website" yaml:"website"`
	Generation       string   `json:"generation" yaml:"generation"`
	GenerationShort  string   `json:"generationShort" yaml:"generationShort"`
	GenerationNum    int      `json:"generationNum" yaml:"generationNum"`
	OptimizedFor     []string `json:"optimizedFor" yaml:"optimizedFor"`
	UserFocus        []string `json:"userFocus" yaml:"userFocus"`
	Deployment       []string `json:"deployment" yaml:"deployment"`
	DataModeling     *string  `json:"dataModeling" yaml:"dataModeling"`
	NoCodeInterface  *string  `json:"noCodeInterface" yaml:"noCodeInterface"`
	Pricing          []string `json:"pricing" yaml:"pricing"`
	QueryUsing       []string `json:"queryUsing" yaml:"queryUsing"`
	DWIntegrations   []string `json:"dwIntegrations" yaml:"dwIntegrations"`
	Features         []string `json:"features" yaml:"features"`
	NativeConnectors *int     `json:"nativeConnectors" yaml:"nativeConnectors"`
	Quadrant         Point    `json:"quadrant" yaml:"quadrant"`
}

// normalizeSlices replaces nil multi-value fields with empty slices so they encode as [].
func (r *Record) normalizeSlices() {
	for _, field := range []*[]string{
		&r.OptimizedFor, &r.UserFocus, &r.Deployment, &r.Pricing,
		&r.QueryUsing, &r.DWIntegrations, &r.Features,
	} {
		if *field == nil {
			*field = []string{}
		}
	}
}

// MultiValues returns the multi-value fields keyed by their output name, in output order.
func (r Record) MultiValues() []NamedValues {
	return []NamedValues{
		{Name: "optimizedFor", Values: r.OptimizedFor},
		{Name: "userFocus", Values: r.UserFocus},
		{Name: "deployment", Values: r.Deployment},
		{Name: "pricing", Values: r.Pricing},
		{Name: "queryUsing", Values: r.QueryUsing},
		{Name: "dwIntegrations", Values: r.DWIntegrations},
		{Name: "features", Values: r.Features},
	}
}

// SetMultiValue assigns the named multi-value field. Unknown names are ignored.
func (r *Record) SetMultiValue(name string, values []string) {
	switch name {
	case "optimizedFor":
		r.OptimizedFor = values
	case "userFocus":
		r.UserFocus = values
	case "deployment":
		r.Deployment = values
	case "pricing":
		r.Pricing = values
	case "queryUsing":
		r.QueryUsing = values
	case "dwIntegrations":
		r.DWIntegrations = values
	case "features":
		r.Features = values
	}
}

// NamedValues pairs a multi-value field name with its tags.
type NamedValues struct {
	Name   string
	Values []string
}

// WriteJSON encodes records as an indented JSON array.
func WriteJSON(w io.Writer, records []Record, indent string) error {
	out := make([]Record, len(records))
	for i, rec := range records {
		rec.normalizeSlices()
		out[i] = rec
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}

// ReadJSON decodes a previously written record collection.
func ReadJSON(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode records: %v", ErrMalformedInput, err)
	}
	for i := range records {
		records[i].normalizeSlices()
	}
	return records, nil
}
