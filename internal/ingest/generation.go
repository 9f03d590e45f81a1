package ingest

// Classifier resolves a row's generation from the name-keyed tables and its own cell.
type Classifier struct {
	canonical   map[string]Generation
	inferred    map[string]string
	corrections map[string]string
}

// NewClassifier builds a classifier over the given tables.
func NewClassifier(o *Overrides) *Classifier {
	return &Classifier{
		canonical:   o.Generations,
		inferred:    o.Inferred,
		corrections: o.Corrections,
	}
}

// RawLabel picks the raw generation text for name: a correction wins, then the row's own
// cell, then the inference table. Returns "" when none applies.
func (c *Classifier) RawLabel(name, cell string) string {
	if fixed, ok := c.corrections[name]; ok {
		return fixed
	}
	if cell != "" {
		return cell
	}
	return c.inferred[name]
}

// Resolve returns the canonical generation for name. Unrecognized raw labels pass through
// as both full and short label with Num 0.
func (c *Classifier) Resolve(name, cell string) Generation {
	raw := c.RawLabel(name, cell)
	if gen, ok := c.canonical[raw]; ok {
		return gen
	}
	return Generation{Full: raw, Short: raw, Num: 0}
}
