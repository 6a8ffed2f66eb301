// Package config loads runtime settings.
//
// Values are layered: built-in defaults, then the TOML file named by
// VINYLVAULT_CONFIG, then environment variables (optionally seeded from
// .env.local and .env).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const configPathEnv = "VINYLVAULT_CONFIG"

// Duration decodes TOML strings such as "3s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Server struct {
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	EnableHSTS     bool     `toml:"enable_hsts"`
	RateLimitRPS   float64  `toml:"rate_limit_rps"`
	RateLimitBurst int      `toml:"rate_limit_burst"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
}

type Database struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

type Auth struct {
	JWTSecret string `toml:"jwt_secret"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Telemetry struct {
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// Discogs holds the catalog client settings. Token wins over the
// consumer key/secret pair when both are set.
type Discogs struct {
	BaseURL        string   `toml:"base_url"`
	UserAgent      string   `toml:"user_agent"`
	Token          string   `toml:"token"`
	ConsumerKey    string   `toml:"consumer_key"`
	ConsumerSecret string   `toml:"consumer_secret"`
	Timeout        Duration `toml:"timeout"`
	LowWaterMark   int      `toml:"low_water_mark"`
}

type Config struct {
	Server    Server    `toml:"server"`
	Database  Database  `toml:"database"`
	Auth      Auth      `toml:"auth"`
	Logging   Logging   `toml:"logging"`
	Telemetry Telemetry `toml:"telemetry"`
	Discogs   Discogs   `toml:"discogs"`
}

// Addr is the listen address derived from the port.
func (c Config) Addr() string {
	if strings.Contains(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}

// Load reads .env files, the optional TOML file and the environment, then
// validates the result.
func Load() (Config, error) {
	return load(".env.local", ".env")
}

func load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		// godotenv never overrides a variable that is already set, so
		// earlier files win.
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	cfg := Default()
	if path := strings.TrimSpace(os.Getenv(configPathEnv)); path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("parse config %s:%d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Discogs.BaseURL = strings.TrimRight(strings.TrimSpace(c.Discogs.BaseURL), "/")
	origins := c.Server.AllowedOrigins[:0]
	for _, o := range c.Server.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.Server.AllowedOrigins = origins
}
