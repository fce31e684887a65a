// Command sitemap writes sitemap.xml from the public artwork and digital
// art listings.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/niksmo/galeria/config"
	"github.com/niksmo/galeria/internal/adapter/apiclient"
	"github.com/niksmo/galeria/internal/adapter/services"
	"github.com/niksmo/galeria/internal/core/catalog"
	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/sitemap"
	"github.com/niksmo/galeria/pkg/retry"
	"github.com/niksmo/galeria/pkg/sigctx"
)

var retryCfg = retry.RetryConfig{
	MaxAttempts: 3,
	Backoff:     retry.ExponentialBackoff(500 * time.Millisecond),
	MaxDelay:    5 * time.Second,
	ShouldRetry: func(err error) bool {
		return errors.Is(err, apiclient.ErrNetwork)
	},
	OnRetry: func(attempt int, err error, wait time.Duration) {
		slog.Warn("backend unreachable, retrying", "attempt", attempt, "wait", wait, "err", err)
	},
}

func main() {
	fs := pflag.NewFlagSet("sitemap", pflag.ExitOnError)
	config.RegisterFlag(fs)
	out := fs.String("out", "", "output file (default sitemap.output from config)")
	siteURL := fs.String("site-url", "", "public site URL (default sitemap.site_url from config)")
	_ = fs.Parse(os.Args[1:])

	cfg := config.Load(config.FilePath(fs))
	if *out == "" {
		*out = cfg.Sitemap.Output
	}
	if *siteURL == "" {
		*siteURL = cfg.Sitemap.SiteURL
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))

	sigCtx, stop := sigctx.NotifyContext()
	defer stop()

	start := time.Now()
	n, err := generate(sigCtx, cfg, *siteURL, *out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate sitemap: %v\n", err)
		stop()
		os.Exit(1)
	}
	fmt.Printf("sitemap with %d urls written to %s in %s\n", n, *out, time.Since(start))
}

func generate(ctx context.Context, cfg config.Config, siteURL, out string) (int, error) {
	api := apiclient.New(cfg.API.BaseURL, nil,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.RequestTimeout}),
	)

	var (
		artworks []domain.Artwork
		digital  []domain.DigitalArtwork
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		artworks, err = allArtworks(gCtx, services.NewArtworks(api))
		return err
	})
	g.Go(func() (err error) {
		digital, err = retry.DoWithResult(gCtx, retryCfg, func() ([]domain.DigitalArtwork, error) {
			return services.NewDigitalArt(api).List(gCtx, "")
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	urls, err := sitemap.Build(siteURL, time.Now(), artworks, digital)
	if err != nil {
		return 0, err
	}
	if err := writeFile(out, func(w io.Writer) error {
		return sitemap.Write(w, urls)
	}); err != nil {
		return 0, err
	}
	return len(urls), nil
}

// allArtworks walks every page of the public listing.
func allArtworks(ctx context.Context, svc *services.Artworks) ([]domain.Artwork, error) {
	var out []domain.Artwork
	for page := 1; ; page++ {
		q := domain.ArtworkQuery{Page: page, Limit: catalog.RefetchLimit}
		p, err := retry.DoWithResult(ctx, retryCfg, func() (domain.ArtworkPage, error) {
			return svc.ListArtworks(ctx, q)
		})
		if err != nil {
			return nil, err
		}
		out = append(out, p.Artworks...)
		if page >= p.Pages || len(p.Artworks) == 0 {
			return out, nil
		}
	}
}

// writeFile replaces path only after the whole document is written.
func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sitemap-*.xml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
