package ingest

import (
	"math/rand/v2"
	"time"
)

// Jitter bounds for names without a pinned position.
const (
	jitterX     = 0.2
	jitterY     = 0.15
	fallbackGen = 2
	centerY     = 0.5
)

// Placer assigns quadrant coordinates.
type Placer struct {
	coords map[string]Point
	rng    *rand.Rand
}

// NewPlacer builds a placer. A zero seed draws one from the clock.
func NewPlacer(coords map[string]Point, seed int64) *Placer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewPlacerWithRand(coords, rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1)))
}

// NewPlacerWithRand builds a placer over a caller-owned random source.
func NewPlacerWithRand(coords map[string]Point, rng *rand.Rand) *Placer {
	return &Placer{coords: coords, rng: rng}
}

// Pinned reports whether name has a literal position.
func (p *Placer) Pinned(name string) bool {
	_, ok := p.coords[name]
	return ok
}

// Resolve returns the pinned position for name, or a jittered point around the
// generation column (column 2 when the generation is unknown). Coordinates are rounded
// to two decimals.
func (p *Placer) Resolve(name string, ordinal int) Point {
	if pt, ok := p.coords[name]; ok {
		return pt.Rounded()
	}
	base := ordinal
	if base == 0 {
		base = fallbackGen
	}
	return Point{
		X: float64(base) + p.uniform(jitterX),
		Y: centerY + p.uniform(jitterY),
	}.Rounded()
}

// uniform returns a value in [-span, span).
func (p *Placer) uniform(span float64) float64 {
	return p.rng.Float64()*2*span - span
}
