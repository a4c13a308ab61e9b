package app

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"barbridge/internal/pagination"
	"barbridge/internal/provider/binance"
	"barbridge/internal/provider/polygon"
)

// Config holds process configuration from flags and environment.
type Config struct {
	HTTPHost string
	HTTPPort int

	DataProvider   string // polygon | binance
	PolygonBaseURL string
	PolygonAPIKeys []string
	KeyStrategy    string // round-robin | least-used
	BinanceBaseURL string

	RatePerMinute int
	MaxInFlight   int

	Window      time.Duration
	Granularity time.Duration
	RTHOnly     bool
	Order       string // paged | chronological

	HeartbeatInterval time.Duration
	HeartbeatFailures int
	ShutdownTimeout   time.Duration

	LogLevel  string // debug | info | warn | error
	LogFormat string // text | json
}

// NewFlagSet declares every option. Each flag also reads the upper-snake env var.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("http-host", "0.0.0.0", "gRPC listen host")
	fs.Int("http-port", 8443, "gRPC listen port")
	fs.String("data-provider", "polygon", "upstream: polygon | binance")
	fs.String("polygon-base-url", polygon.DefaultBaseURL, "Polygon REST base URL")
	fs.String("polygon-api-keys", "", "comma-separated Polygon API keys (env POLYGON_API_KEYS or POLYGON_API_KEY)")
	fs.String("key-strategy", "round-robin", "Polygon key selection: round-robin | least-used")
	fs.String("binance-base-url", binance.DefaultBaseURL, "Binance REST base URL")
	fs.Int("rate-per-minute", 0, "max upstream fetches per minute, 0 for unlimited")
	fs.Int("max-in-flight", 1, "max concurrent upstream fetches on the shared session")
	fs.Duration("window", 10*24*time.Hour, "time span requested per page")
	fs.Duration("granularity", time.Minute, "bar size")
	fs.Bool("rth-only", true, "regular trading hours only")
	fs.String("order", string(pagination.OrderPaged), "bar order: paged | chronological (env BAR_ORDER)")
	fs.Duration("heartbeat-interval", 30*time.Second, "upstream ping interval, 0 disables")
	fs.Int("heartbeat-failures", 3, "consecutive ping failures before the session counts as lost")
	fs.Duration("shutdown-timeout", 30*time.Second, "grace period for in-flight streams on shutdown, 0 waits without limit")
	fs.String("log-level", "info", "debug | info | warn | error")
	fs.String("log-format", "text", "text | json")
	return fs
}

// LoadConfig parses args over environment over defaults.
func LoadConfig(args []string) (*Config, error) {
	fs := NewFlagSet("barbridge")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	_ = v.BindEnv("polygon-api-keys", "POLYGON_API_KEYS", "POLYGON_API_KEY")
	_ = v.BindEnv("order", "BAR_ORDER", "ORDER")

	cfg := &Config{
		HTTPHost:          v.GetString("http-host"),
		HTTPPort:          v.GetInt("http-port"),
		DataProvider:      strings.ToLower(strings.TrimSpace(v.GetString("data-provider"))),
		PolygonBaseURL:    v.GetString("polygon-base-url"),
		PolygonAPIKeys:    splitKeys(v.GetString("polygon-api-keys")),
		KeyStrategy:       v.GetString("key-strategy"),
		BinanceBaseURL:    v.GetString("binance-base-url"),
		RatePerMinute:     v.GetInt("rate-per-minute"),
		MaxInFlight:       v.GetInt("max-in-flight"),
		Window:            v.GetDuration("window"),
		Granularity:       v.GetDuration("granularity"),
		RTHOnly:           v.GetBool("rth-only"),
		Order:             v.GetString("order"),
		HeartbeatInterval: v.GetDuration("heartbeat-interval"),
		HeartbeatFailures: v.GetInt("heartbeat-failures"),
		ShutdownTimeout:   v.GetDuration("shutdown-timeout"),
		LogLevel:          v.GetString("log-level"),
		LogFormat:         v.GetString("log-format"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Validate rejects configurations the process cannot start with.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("http-port %d out of range", c.HTTPPort)
	}
	switch c.DataProvider {
	case "polygon":
		if len(c.PolygonAPIKeys) == 0 {
			return fmt.Errorf("POLYGON_API_KEY or POLYGON_API_KEYS not set")
		}
		if _, err := polygon.ParseStrategy(c.KeyStrategy); err != nil {
			return err
		}
	case "binance":
	default:
		return fmt.Errorf("unsupported data provider: %s. Options: polygon, binance", c.DataProvider)
	}
	if _, err := pagination.ParseOrder(c.Order); err != nil {
		return err
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive, got %s", c.Window)
	}
	if c.Granularity <= 0 || c.Granularity > c.Window {
		return fmt.Errorf("granularity %s must be positive and not exceed window %s", c.Granularity, c.Window)
	}
	if c.MaxInFlight < 1 {
		return fmt.Errorf("max-in-flight must be at least 1")
	}
	if c.RatePerMinute < 0 {
		return fmt.Errorf("rate-per-minute must not be negative")
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown-timeout must not be negative")
	}
	return nil
}

// Addr is the gRPC listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(c.HTTPPort))
}
