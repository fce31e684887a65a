// Package sitemap renders the public pages of the gallery as sitemap.xml.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/niksmo/galeria/internal/core/domain"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type ChangeFreq string

const (
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
)

type URL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq"`
	Priority   string     `xml:"priority"`
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

type page struct {
	path     string
	freq     ChangeFreq
	priority float64
}

var staticPages = []page{
	{"/", Daily, 1.0},
	{"/galeria", Daily, 0.9},
	{"/arte-digital", Weekly, 0.9},
	{"/sobre-mi", Monthly, 0.7},
	{"/contacto", Monthly, 0.6},
}

const (
	artworkPriority = 0.8
	digitalPriority = 0.7
)

// Build lists the static pages followed by one entry per artwork and per
// digital artwork. now is the lastmod of the static pages.
func Build(siteURL string, now time.Time, artworks []domain.Artwork, digital []domain.DigitalArtwork) ([]URL, error) {
	const op = "sitemap.Build"

	base, err := url.Parse(strings.TrimRight(siteURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%s: site url %q must be absolute", op, siteURL)
	}

	today := lastmod(&now)
	urls := make([]URL, 0, len(staticPages)+len(artworks)+len(digital))
	for _, p := range staticPages {
		urls = append(urls, entry(base, p.path, today, p.freq, p.priority))
	}
	for _, a := range artworks {
		if a.ID == "" {
			continue
		}
		urls = append(urls, entry(base, "/obra/"+url.PathEscape(a.ID), lastmod(a.UpdatedAt), Weekly, artworkPriority))
	}
	for _, d := range digital {
		if d.ID == "" {
			continue
		}
		urls = append(urls, entry(base, "/arte-digital/"+url.PathEscape(d.ID), lastmod(d.UpdatedAt), Weekly, digitalPriority))
	}
	return urls, nil
}

func entry(base *url.URL, path, mod string, freq ChangeFreq, priority float64) URL {
	return URL{
		Loc:        base.String() + path,
		LastMod:    mod,
		ChangeFreq: freq,
		Priority:   fmt.Sprintf("%.1f", priority),
	}
}

func lastmod(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

// Write renders urls as an indented urlset document.
func Write(w io.Writer, urls []URL) error {
	const op = "sitemap.Write"

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(urlset{Xmlns: xmlns, URLs: urls}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
