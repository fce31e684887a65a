package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/niksmo/galeria/internal/adapter"
	"github.com/niksmo/galeria/internal/core/validate"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "GALERIA"
	configFileEnvName = envPrefix + "_CONFIG_FILE"
)

type api struct {
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
}

type redisCfg struct {
	Addr     string           `mapstructure:"addr"`
	Password string           `mapstructure:"password"`
	DB       int              `mapstructure:"db" validate:"gte=0"`
	TLS      adapter.TLSFiles `mapstructure:"tls"`
}

type storage struct {
	Driver    string   `mapstructure:"driver" validate:"oneof=file redis memory"`
	Dir       string   `mapstructure:"dir" validate:"required_if=Driver file"`
	Redis     redisCfg `mapstructure:"redis"`
	KeyPrefix string   `mapstructure:"key_prefix"`
}

type catalog struct {
	PageLimit      int           `mapstructure:"page_limit" validate:"gte=0"`
	SearchDebounce time.Duration `mapstructure:"search_debounce" validate:"gte=0"`
}

type layout struct {
	Variant       string  `mapstructure:"variant" validate:"oneof=simple advanced"`
	ColumnWidth   float64 `mapstructure:"column_width" validate:"gt=0"`
	Gap           float64 `mapstructure:"gap" validate:"gte=0"`
	ViewportWidth int     `mapstructure:"viewport_width" validate:"gt=0"`
}

type checkout struct {
	ReturnAddr string        `mapstructure:"return_addr" validate:"required"`
	Wait       time.Duration `mapstructure:"wait" validate:"gte=0"`
}

type sitemap struct {
	SiteURL string `mapstructure:"site_url" validate:"required,url"`
	Output  string `mapstructure:"output" validate:"required"`
}

type broker struct {
	SeedBrokers        []string         `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string         `mapstructure:"schema_registry_urls"`
	CartEventsTopic    string           `mapstructure:"cart_events_topic"`
	TLS                adapter.TLSFiles `mapstructure:"tls"`
}

type Config struct {
	LogLevel slog.Level `mapstructure:"log_level"`
	API      api        `mapstructure:"api"`
	Storage  storage    `mapstructure:"storage"`
	Catalog  catalog    `mapstructure:"catalog"`
	Layout   layout     `mapstructure:"layout"`
	Checkout checkout   `mapstructure:"checkout"`
	Sitemap  sitemap    `mapstructure:"sitemap"`
	Broker   broker     `mapstructure:"broker"`
}

// BrokerEnabled reports whether cart events go to Kafka.
func (c Config) BrokerEnabled() bool {
	return len(c.Broker.SeedBrokers) != 0
}

var defaults = map[string]any{
	"log_level":                   "warn",
	"api.base_url":                "http://localhost:5000/api",
	"api.request_timeout":         "0s",
	"storage.driver":              "file",
	"storage.dir":                 defaultStorageDir(),
	"storage.redis.addr":          "localhost:6379",
	"storage.redis.password":      "",
	"storage.redis.db":            0,
	"storage.redis.tls.ca_file":   "",
	"storage.redis.tls.cert_file": "",
	"storage.redis.tls.key_file":  "",
	"storage.key_prefix":          "galeria:",
	"catalog.page_limit":          0,
	"catalog.search_debounce":     "300ms",
	"layout.variant":              "advanced",
	"layout.column_width":         280,
	"layout.gap":                  16,
	"layout.viewport_width":       1280,
	"checkout.return_addr":        "127.0.0.1:8765",
	"checkout.wait":               "10m",
	"sitemap.site_url":            "https://galeria.example.com",
	"sitemap.output":              "public/sitemap.xml",
	"broker.seed_brokers":         []string{},
	"broker.schema_registry_urls": []string{},
	"broker.cart_events_topic":    "cart-events",
	"broker.tls.ca_file":          "",
	"broker.tls.cert_file":        "",
	"broker.tls.key_file":         "",
}

func defaultStorageDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".galeria"
	}
	return dir + string(os.PathSeparator) + "galeria"
}

// Load reads the config file at path, if any, and exits the process on error.
func Load(path string) Config {
	cfg, err := LoadFrom(path)
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFrom merges defaults, the optional YAML file and GALERIA_* variables.
func LoadFrom(path string) (Config, error) {
	const op = "config.LoadFrom"

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// FilePath returns the config file named by GALERIA_CONFIG_FILE or, failing
// that, by the --config flag of fs.
func FilePath(fs *pflag.FlagSet) string {
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env
	}
	if fs == nil {
		return ""
	}
	path, _ := fs.GetString("config")
	return path
}

// RegisterFlag adds --config to fs.
func RegisterFlag(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (YAML)")
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
	os.Exit(2)
}

// Print writes the effective settings to w, without secrets.
func (c Config) Print(w io.Writer) error {
	brokers := "disabled"
	if c.BrokerEnabled() {
		brokers = strings.Join(c.Broker.SeedBrokers, ",")
	}
	timeout := "none"
	if c.API.RequestTimeout > 0 {
		timeout = c.API.RequestTimeout.String()
	}

	sections := []struct {
		name  string
		pairs [][2]string
	}{
		{"general", [][2]string{
			{"log_level", c.LogLevel.String()},
			{"api.base_url", c.API.BaseURL},
			{"api.request_timeout", timeout},
		}},
		{"storage", [][2]string{
			{"driver", c.Storage.Driver},
			{"dir", c.Storage.Dir},
			{"redis.addr", c.Storage.Redis.Addr},
			{"key_prefix", c.Storage.KeyPrefix},
		}},
		{"layout", [][2]string{
			{"variant", c.Layout.Variant},
			{"viewport_width", strconv.Itoa(c.Layout.ViewportWidth)},
		}},
		{"checkout", [][2]string{
			{"return_addr", c.Checkout.ReturnAddr},
			{"wait", c.Checkout.Wait.String()},
		}},
		{"broker", [][2]string{
			{"seed_brokers", brokers},
			{"cart_events_topic", c.Broker.CartEventsTopic},
		}},
	}

	var b strings.Builder
	for _, sec := range sections {
		fmt.Fprintf(&b, "[%s]\n", sec.name)
		for _, kv := range sec.pairs {
			fmt.Fprintf(&b, "  %s = %s\n", kv[0], kv[1])
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
