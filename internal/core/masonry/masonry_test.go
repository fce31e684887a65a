package masonry_test

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/masonry"
)

func TestColumns(t *testing.T) {
	tests := []struct {
		width  int
		simple int
		adv    int
	}{
		{320, 1, 1},
		{639, 1, 1},
		{640, 2, 2},
		{767, 2, 2},
		{768, 3, 2},
		{1023, 3, 2},
		{1024, 4, 3},
		{1279, 4, 3},
		{1280, 4, 4},
		{1535, 4, 4},
		{1536, 5, 5},
		{2560, 5, 5},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.width), func(t *testing.T) {
			assert.Equal(t, tt.simple, masonry.Columns(tt.width, masonry.Simple))
			assert.Equal(t, tt.adv, masonry.Columns(tt.width, masonry.Advanced))
		})
	}
}

func TestDistribute_TiesGoToLowestIndex(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	l := masonry.Distribute(items, 3, 0, func(int) float64 { return 10 })

	assert.Equal(t, [][]int{{1, 4}, {2, 5}, {3, 6}}, l.Columns)
	assert.Equal(t, []float64{20, 20, 20}, l.Heights)
}

func TestDistribute_ShortestColumn(t *testing.T) {
	heights := map[string]float64{"a": 300, "b": 100, "c": 100, "d": 50}
	l := masonry.Distribute([]string{"a", "b", "c", "d"}, 2, 10, func(s string) float64 {
		return heights[s]
	})

	assert.Equal(t, [][]string{{"a"}, {"b", "c", "d"}}, l.Columns)
	assert.Equal(t, []float64{310, 280}, l.Heights)
}

func TestDistribute_ZeroColumns(t *testing.T) {
	l := masonry.Distribute([]int{1, 2}, 0, 0, func(int) float64 { return 1 })
	assert.Equal(t, [][]int{{1, 2}}, l.Columns)
}

func TestDistribute_Balance(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const gap = 16.0

	for round := range 200 {
		n := rng.IntN(40)
		cols := 1 + rng.IntN(5)
		items := make([]float64, n)
		for i := range items {
			items[i] = 50 + rng.Float64()*500
		}

		// Replay the placement to check the greedy invariant step by step.
		running := make([]float64, cols)
		placed := make(map[*float64]bool, n)
		ptrs := make([]*float64, n)
		for i := range items {
			ptrs[i] = &items[i]
		}

		l := masonry.Distribute(ptrs, cols, gap, func(p *float64) float64 {
			lo := slices.Min(running)
			c := slices.Index(running, lo)
			assert.LessOrEqual(t, slices.Max(running)-lo, maxOf(items)+gap, "round %d", round)
			running[c] += *p + gap
			return *p
		})

		total := 0
		for _, col := range l.Columns {
			for _, p := range col {
				require.False(t, placed[p], "round %d: item placed twice", round)
				placed[p] = true
				total++
			}
		}
		require.Equal(t, n, total, "round %d", round)
		assert.Equal(t, running, l.Heights)

		if n > 0 {
			lo, hi := slices.Min(l.Heights), slices.Max(l.Heights)
			assert.LessOrEqual(t, hi-lo, maxOf(items)+gap, "round %d", round)
		}
	}
}

func maxOf(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	return slices.Max(vs)
}

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		in   string
		h, w float64
		ok   bool
	}{
		{"100x70 cm", 100, 70, true},
		{"50 X 40", 50, 40, true},
		{"80,5×60", 80.5, 60, true},
		{"30x0", 0, 0, false},
		{"grande", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, w, ok := masonry.ParseDimensions(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.h, h, 1e-9)
			assert.InDelta(t, tt.w, w, 1e-9)
		})
	}
}

func TestLayoutSimple(t *testing.T) {
	artworks := []domain.Artwork{
		{ID: "tall", Dimensions: "200x100 cm"},
		{ID: "unknown"},
		{ID: "wide", Dimensions: "50x100"},
	}
	l := masonry.LayoutSimple(artworks, 2, 300, 10)

	require.Len(t, l.Columns, 2)
	assert.Equal(t, []string{"tall"}, ids(l.Columns[0]))
	assert.Equal(t, []string{"unknown", "wide"}, ids(l.Columns[1]))
	assert.Equal(t, []float64{610, 360 + 160}, l.Heights)
}

func TestLayoutAdvanced(t *testing.T) {
	artworks := []domain.Artwork{
		{ID: "a", ImageURL: "https://img/a.jpg"},
		{ID: "b", ImageURL: "https://img/b.jpg", ThumbnailURL: "https://img/b_t.jpg"},
		{ID: "c", ImageURL: "https://img/c.jpg"},
		{ID: "d", ImageURL: "https://img/d.jpg"},
	}
	ratios := masonry.Ratios{
		"https://img/a.jpg":   0.5,
		"https://img/b_t.jpg": 2,
		"https://img/d.jpg":   1.3,
	}

	l := masonry.LayoutAdvanced(artworks, 2, 100, 0, ratios)

	// Order is b (2.0), c (fallback 1.3), d (1.3, after c), a (0.5).
	assert.Equal(t, []string{"b", "a"}, ids(l.Columns[0]))
	assert.Equal(t, []string{"c", "d"}, ids(l.Columns[1]))
	assert.InDeltaSlice(t, []float64{250, 260}, l.Heights, 1e-9)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(artworks), "input untouched")

	assert.Equal(t,
		[]string{"https://img/a.jpg", "https://img/b_t.jpg", "https://img/c.jpg", "https://img/d.jpg"},
		masonry.ImageURLs(artworks))
}

func ids(as []domain.Artwork) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}
