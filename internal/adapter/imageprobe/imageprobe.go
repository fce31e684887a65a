// Package imageprobe fetches image headers to learn their natural size.
package imageprobe

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"sync"

	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/niksmo/galeria/internal/core/masonry"
)

const (
	defaultConcurrency = 8
	// headerLimit bounds how much of an image is read to find its size.
	headerLimit = 1 << 20
)

type Size struct {
	Width  int
	Height int
}

// Ratio is height over width.
func (s Size) Ratio() float64 {
	if s.Width == 0 {
		return 0
	}
	return float64(s.Height) / float64(s.Width)
}

type Opt func(*Prober)

func WithHTTPClient(c *http.Client) Opt {
	return func(p *Prober) {
		if c != nil {
			p.http = c
		}
	}
}

func WithConcurrency(n int) Opt {
	return func(p *Prober) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// A Prober caches sizes by URL. Concurrent probes of one URL share a request.
type Prober struct {
	http        *http.Client
	concurrency int

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]Size
}

func New(opts ...Opt) *Prober {
	p := &Prober{
		http:        http.DefaultClient,
		concurrency: defaultConcurrency,
		cache:       make(map[string]Size),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the natural size of the image at url.
func (p *Prober) Size(ctx context.Context, url string) (Size, error) {
	const op = "Prober.Size"

	p.mu.RLock()
	s, ok := p.cache[url]
	p.mu.RUnlock()
	if ok {
		return s, nil
	}

	v, err, _ := p.group.Do(url, func() (any, error) {
		s, err := p.fetch(ctx, url)
		if err != nil {
			return Size{}, err
		}
		p.mu.Lock()
		p.cache[url] = s
		p.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return Size{}, fmt.Errorf("%s: %w", op, err)
	}
	return v.(Size), nil
}

func (p *Prober) fetch(ctx context.Context, url string) (Size, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Size{}, err
	}
	res, err := p.http.Do(req)
	if err != nil {
		return Size{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Size{}, fmt.Errorf("GET %s: status %d", url, res.StatusCode)
	}

	cfg, format, err := image.DecodeConfig(io.LimitReader(res.Body, headerLimit))
	if err != nil {
		return Size{}, fmt.Errorf("decode %s: %w", url, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Size{}, fmt.Errorf("decode %s: empty %s image", url, format)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}

// Ratios probes urls concurrently. Images that fail are left out, so the
// layout falls back to its default ratio for them.
func (p *Prober) Ratios(ctx context.Context, urls []string) masonry.Ratios {
	const op = "Prober.Ratios"
	log := slog.With("op", op)

	var mu sync.Mutex
	out := make(masonry.Ratios, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, u := range urls {
		g.Go(func() error {
			s, err := p.Size(gctx, u)
			if err != nil {
				log.Debug("image metadata unavailable", "url", u, "err", err)
				return nil
			}
			mu.Lock()
			out[u] = s.Ratio()
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
