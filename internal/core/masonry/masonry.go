// Package masonry spreads items over columns of a masonry grid.
//
// Placement is greedy: each item goes to the currently shortest column, ties
// going to the lowest index. The result is balanced enough for display, not
// an optimal partition.
package masonry

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/niksmo/galeria/internal/core/domain"
)

type Variant string

const (
	Simple   Variant = "simple"
	Advanced Variant = "advanced"
)

const (
	// FallbackHeight is the simple variant height when dimensions are unknown.
	FallbackHeight = 350.0
	// FallbackRatio is the advanced variant height/width ratio of images
	// whose metadata is not loaded.
	FallbackRatio = 1.3
)

type breakpoint struct {
	below   int
	columns int
}

var breakpoints = map[Variant][]breakpoint{
	Simple:   {{640, 1}, {768, 2}, {1024, 3}, {1536, 4}},
	Advanced: {{640, 1}, {1024, 2}, {1280, 3}, {1536, 4}},
}

const maxColumns = 5

// Columns is the column count for a viewport width in pixels.
func Columns(width int, v Variant) int {
	table, ok := breakpoints[v]
	if !ok {
		table = breakpoints[Simple]
	}
	for _, bp := range table {
		if width < bp.below {
			return bp.columns
		}
	}
	return maxColumns
}

// A Layout is the result of a distribution. Columns keep the order in which
// items were placed; Heights are the accumulated column heights.
type Layout[T any] struct {
	Columns [][]T
	Heights []float64
}

// Distribute places every item in exactly one of cols columns. height
// estimates an item; each placement grows its column by height+gap.
func Distribute[T any](items []T, cols int, gap float64, height func(T) float64) Layout[T] {
	cols = max(cols, 1)
	l := Layout[T]{
		Columns: make([][]T, cols),
		Heights: make([]float64, cols),
	}
	for i := range l.Columns {
		l.Columns[i] = make([]T, 0, len(items)/cols+1)
	}

	for _, it := range items {
		c := shortest(l.Heights)
		l.Columns[c] = append(l.Columns[c], it)
		l.Heights[c] += height(it) + gap
	}
	return l
}

// shortest is the index of the first minimum.
func shortest(heights []float64) int {
	idx := 0
	for i, h := range heights[1:] {
		if h < heights[idx] {
			idx = i + 1
		}
	}
	return idx
}

var dimensionsRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*[xX×]\s*(\d+(?:[.,]\d+)?)`)

// ParseDimensions reads "HxW" (e.g. "100x70 cm") as height and width.
func ParseDimensions(s string) (h, w float64, ok bool) {
	m := dimensionsRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	h, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, 0, false
	}
	w, err = strconv.ParseFloat(strings.ReplaceAll(m[2], ",", "."), 64)
	if err != nil || h <= 0 || w <= 0 {
		return 0, 0, false
	}
	return h, w, true
}

// SimpleHeight estimates an artwork from its dimensions string.
func SimpleHeight(a domain.Artwork, colWidth float64) float64 {
	h, w, ok := ParseDimensions(a.Dimensions)
	if !ok {
		return FallbackHeight
	}
	return colWidth * h / w
}

// LayoutSimple distributes artworks using their declared dimensions.
func LayoutSimple(artworks []domain.Artwork, cols int, colWidth, gap float64) Layout[domain.Artwork] {
	return Distribute(artworks, cols, gap, func(a domain.Artwork) float64 {
		return SimpleHeight(a, colWidth)
	})
}

// Ratios maps an image URL to its natural height/width ratio.
type Ratios map[string]float64

func (r Ratios) of(a domain.Artwork) float64 {
	if v, ok := r[imageOf(a)]; ok && v > 0 {
		return v
	}
	return FallbackRatio
}

func imageOf(a domain.Artwork) string {
	if a.ThumbnailURL != "" {
		return a.ThumbnailURL
	}
	return a.ImageURL
}

// ImageURLs lists the images the advanced variant needs metadata for.
func ImageURLs(artworks []domain.Artwork) []string {
	out := make([]string, 0, len(artworks))
	for _, a := range artworks {
		if u := imageOf(a); u != "" && !slices.Contains(out, u) {
			out = append(out, u)
		}
	}
	return out
}

// LayoutAdvanced puts tall images first and sizes items by their real
// aspect ratio.
func LayoutAdvanced(artworks []domain.Artwork, cols int, colWidth, gap float64, ratios Ratios) Layout[domain.Artwork] {
	sorted := slices.Clone(artworks)
	slices.SortStableFunc(sorted, func(a, b domain.Artwork) int {
		return cmp.Compare(ratios.of(b), ratios.of(a))
	})
	return Distribute(sorted, cols, gap, func(a domain.Artwork) float64 {
		return colWidth * ratios.of(a)
	})
}
