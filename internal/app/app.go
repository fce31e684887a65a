package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/galeria/config"
	"github.com/niksmo/galeria/internal/adapter"
	"github.com/niksmo/galeria/internal/adapter/apiclient"
	"github.com/niksmo/galeria/internal/adapter/httphandler"
	"github.com/niksmo/galeria/internal/adapter/imageprobe"
	"github.com/niksmo/galeria/internal/adapter/kafka"
	"github.com/niksmo/galeria/internal/adapter/services"
	"github.com/niksmo/galeria/internal/adapter/storage"
	"github.com/niksmo/galeria/internal/core/cart"
	"github.com/niksmo/galeria/internal/core/catalog"
	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/masonry"
	"github.com/niksmo/galeria/internal/core/port"
	"github.com/niksmo/galeria/internal/core/service"
	"github.com/niksmo/galeria/pkg/schema"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sr"
)

type Services struct {
	Artworks   *services.Artworks
	DigitalArt *services.DigitalArt
	Auth       *services.Auth
	Orders     *services.Orders
	Messages   *services.Messages
	Contacts   *services.Contacts
	Finances   *services.Finances
	Notes      *services.Notes
	Agenda     *services.Agenda
	Newsletter *services.Newsletter
	Payments   *services.Payments
}

// App owns every long-lived component of the storefront.
type App struct {
	ctx     context.Context
	cfg     config.Config
	closers []func()

	kv        port.KeyValueStorage
	publisher port.CartEventPublisher

	Session  *storage.SessionStore
	API      *apiclient.Client
	Services Services
	Cart     *cart.Store
	Catalog  *catalog.Store
	Checkout *service.Service
	Prober   *imageprobe.Prober
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initOutboundAdapters()
	app.initPublisher()
	app.initCore()

	return app
}

func (app *App) Config() config.Config {
	return app.cfg
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	cfg := app.cfg.Storage
	switch cfg.Driver {
	case "memory":
		app.kv = storage.NewMemoryStorage()
	case "redis":
		tlsCfg, err := adapter.MakeTLSConfig(cfg.Redis.TLS)
		if err != nil {
			app.fallDown(op, err)
		}
		client := redis.NewClient(&redis.Options{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			TLSConfig: tlsCfg,
		})
		if err := client.Ping(app.ctx).Err(); err != nil {
			_ = client.Close()
			app.fallDown(op, err)
		}
		kv := storage.NewRedisStorage(client, cfg.KeyPrefix)
		app.kv = kv
		app.closers = append(app.closers, kv.Close)
	default:
		kv, err := storage.NewFileStorage(cfg.Dir)
		if err != nil {
			app.fallDown(op, err)
		}
		app.kv = kv
	}

	app.Session = storage.NewSessionStore(app.kv)
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	hc := &http.Client{Timeout: app.cfg.API.RequestTimeout}
	app.API = apiclient.New(app.cfg.API.BaseURL, app.Session,
		apiclient.WithHTTPClient(hc),
	)

	unsubscribe := app.API.OnAuthRequired(func(ev apiclient.AuthRequired) {
		slog.With("op", op).Warn("session expired, logging out", "endpoint", ev.Endpoint)
		if err := app.Session.Clear(context.WithoutCancel(app.ctx)); err != nil {
			slog.With("op", op).Error("failed to clear session", "err", err)
		}
	})
	app.closers = append(app.closers, unsubscribe)

	api := app.API
	app.Services = Services{
		Artworks:   services.NewArtworks(api),
		DigitalArt: services.NewDigitalArt(api),
		Auth:       services.NewAuth(api),
		Orders:     services.NewOrders(api),
		Messages:   services.NewMessages(api),
		Contacts:   services.NewContacts(api),
		Finances:   services.NewFinances(api),
		Notes:      services.NewNotes(api),
		Agenda:     services.NewAgenda(api),
		Newsletter: services.NewNewsletter(api),
		Payments:   services.NewPayments(api),
	}

	app.Prober = imageprobe.New(imageprobe.WithHTTPClient(hc))
}

func (app *App) initPublisher() {
	const op = "App.initPublisher"

	if !app.cfg.BrokerEnabled() {
		app.publisher = kafka.NopPublisher{}
		return
	}

	broker := app.cfg.Broker
	tlsCfg, err := adapter.MakeTLSConfig(broker.TLS)
	if err != nil {
		app.fallDown(op, err)
	}

	srOpts := []sr.ClientOpt{sr.URLs(broker.SchemaRegistryURLs...)}
	var kgoOpts []kgo.Opt
	if tlsCfg != nil {
		srOpts = append(srOpts, sr.HTTPClient(&http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsCfg},
		}))
		kgoOpts = append(kgoOpts, kgo.DialTLSConfig(tlsCfg))
	}

	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := schema.NewSerdeCartEventV1(
		app.ctx,
		schema.SubjectOpt(broker.CartEventsTopic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientOpt(app.ctx, broker.SeedBrokers, broker.CartEventsTopic, kgoOpts...),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.publisher = producer
	app.closers = append(app.closers, producer.Close)
}

func (app *App) initCore() {
	const op = "App.initCore"

	app.Cart = cart.NewStore(app.kv, cart.WithPublisher(app.publisher))
	if err := app.Cart.Load(app.ctx); err != nil {
		app.fallDown(op, err)
	}

	app.Catalog = catalog.NewStore(app.Services.Artworks)
	app.Checkout = service.New(app.Cart, app.Services.Payments)
}

// NewSearchInput returns a search box bound to the catalog with the
// configured debounce delay.
func (app *App) NewSearchInput() *catalog.SearchInput {
	return catalog.NewSearchInput(app.Catalog, app.cfg.Catalog.SearchDebounce)
}

// Layout arranges artworks for the configured viewport. The advanced
// variant probes image sizes first.
func (app *App) Layout(ctx context.Context, artworks []domain.Artwork) masonry.Layout[domain.Artwork] {
	cfg := app.cfg.Layout
	variant := masonry.Variant(cfg.Variant)
	cols := masonry.Columns(cfg.ViewportWidth, variant)

	if variant == masonry.Simple {
		return masonry.LayoutSimple(artworks, cols, cfg.ColumnWidth, cfg.Gap)
	}
	ratios := app.Prober.Ratios(ctx, masonry.ImageURLs(artworks))
	return masonry.LayoutAdvanced(artworks, cols, cfg.ColumnWidth, cfg.Gap, ratios)
}

// CheckoutServer serves the payment return URLs on the configured address.
func (app *App) CheckoutServer(onResult func(domain.PaymentResult)) (httphandler.HTTPServer, error) {
	mux := http.NewServeMux()
	httphandler.RegisterCheckout(mux, app.Checkout, onResult)

	handler := httphandler.LogRequests(mux)
	return httphandler.NewHTTPServer(app.cfg.Checkout.ReturnAddr, handler)
}

func (app *App) Close() {
	slog.Info("application is closing...")

	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
