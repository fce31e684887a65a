package sitemap_test

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/sitemap"
)

func TestBuild(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	urls, err := sitemap.Build("https://galeria.example/", now,
		[]domain.Artwork{{ID: "a1", UpdatedAt: &updated}, {ID: ""}, {ID: "a 2"}},
		[]domain.DigitalArtwork{{ID: "d1"}},
	)
	require.NoError(t, err)

	locs := make([]string, len(urls))
	for i, u := range urls {
		locs[i] = u.Loc
	}
	assert.Equal(t, []string{
		"https://galeria.example/",
		"https://galeria.example/galeria",
		"https://galeria.example/arte-digital",
		"https://galeria.example/sobre-mi",
		"https://galeria.example/contacto",
		"https://galeria.example/obra/a1",
		"https://galeria.example/obra/a%202",
		"https://galeria.example/arte-digital/d1",
	}, locs)

	assert.Equal(t, sitemap.URL{
		Loc: "https://galeria.example/", LastMod: "2025-06-01",
		ChangeFreq: sitemap.Daily, Priority: "1.0",
	}, urls[0])
	assert.Equal(t, "2025-03-15", urls[5].LastMod)
	assert.Equal(t, "0.8", urls[5].Priority)
	assert.Empty(t, urls[6].LastMod)
	assert.Equal(t, "0.7", urls[7].Priority)
}

func TestBuild_RelativeSiteURL(t *testing.T) {
	_, err := sitemap.Build("galeria.example", time.Now(), nil, nil)
	require.Error(t, err)
}

func TestWrite(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, sitemap.Write(&sb, []sitemap.URL{
		{Loc: "https://galeria.example/obra/1", LastMod: "2025-03-15", ChangeFreq: sitemap.Weekly, Priority: "0.8"},
		{Loc: "https://galeria.example/sobre-mi", ChangeFreq: sitemap.Monthly, Priority: "0.7"},
	}))

	out := sb.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Equal(t, 1, strings.Count(out, "<lastmod>"))

	var doc struct {
		URLs []struct {
			Loc      string `xml:"loc"`
			Priority string `xml:"priority"`
		} `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.URLs, 2)
	assert.Equal(t, "https://galeria.example/sobre-mi", doc.URLs[1].Loc)
	assert.Equal(t, "0.7", doc.URLs[1].Priority)
}
