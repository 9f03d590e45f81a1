package ingest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlacer_PinnedCoordinates(t *testing.T) {
	placer := NewPlacer(DefaultOverrides().Coordinates, 1)

	assert.True(t, placer.Pinned("Tableau"))
	assert.Equal(t, Point{X: 1.4, Y: 0.6}, placer.Resolve("Tableau", 2))
	assert.Equal(t, Point{X: 3.5, Y: 0.38}, placer.Resolve("Mode", 4))
}

func TestPlacer_FallbackBounds(t *testing.T) {
	placer := NewPlacer(nil, 99)

	for i := 0; i < 1000; i++ {
		pt := placer.Resolve("Unmapped", 3)
		assert.GreaterOrEqual(t, pt.X, 2.8)
		assert.LessOrEqual(t, pt.X, 3.2)
		assert.GreaterOrEqual(t, pt.Y, 0.35)
		assert.LessOrEqual(t, pt.Y, 0.65)
		assert.Equal(t, math.Round(pt.X*100)/100, pt.X)
		assert.Equal(t, math.Round(pt.Y*100)/100, pt.Y)
	}
}

func TestPlacer_UnknownGenerationCentersOnTwo(t *testing.T) {
	placer := NewPlacer(nil, 5)

	for i := 0; i < 200; i++ {
		pt := placer.Resolve("Unmapped", 0)
		assert.GreaterOrEqual(t, pt.X, 1.8)
		assert.LessOrEqual(t, pt.X, 2.2)
	}
}

func TestPlacer_SeedIsReproducible(t *testing.T) {
	a := NewPlacer(nil, 1234)
	b := NewPlacer(nil, 1234)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Resolve("x", 1), b.Resolve("x", 1))
	}
}

func TestPoint_Rounded(t *testing.T) {
	assert.Equal(t, Point{X: 1.24, Y: 0.67}, Point{X: 1.2449, Y: 0.666}.Rounded())
}
