package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultAPIURL   = "https://api.yelp.com/v3/graphql"
	defaultCategory = "bubbletea"
	defaultRegion   = "CA"
	defaultLimit    = 50
	defaultSortBy   = "rating"
)

// envPrefixes lists the variable families read from the environment.
var envPrefixes = []string{"YELP_", "PG_", "IMPORT_", "HOURS_", "PUSHGATEWAY_", "APP_", "LOG_"}

// SortKeys are the sort orders the search API accepts.
var SortKeys = map[string]bool{
	"rating":       true,
	"review_count": true,
	"distance":     true,
	"best_match":   true,
}

type Config struct {
	App struct {
		Env      string `koanf:"env"`
		LogLevel string `koanf:"log_level"`
	} `koanf:"app"`

	Yelp struct {
		APIKey   string        `koanf:"api_key"`
		APIURL   string        `koanf:"api_url"`
		Timeout  time.Duration `koanf:"api_timeout"`
		Category string        `koanf:"search_category"`
	} `koanf:"yelp"`

	Postgres struct {
		Host     string `koanf:"host"`
		Port     string `koanf:"port"`
		User     string `koanf:"user"`
		Password string `koanf:"password"`
		DBName   string `koanf:"db"`
		SSLMode  string `koanf:"sslmode"`
	} `koanf:"pg"`

	Import struct {
		Region      string `koanf:"region"`
		Hours       bool   `koanf:"hours"`
		Limit       int    `koanf:"limit"`
		SortBy      string `koanf:"sort_by"`
		AutoMigrate bool   `koanf:"auto_migrate"`
	} `koanf:"import"`

	HoursCacheTTL  time.Duration `koanf:"hours_cache_ttl"`
	PushgatewayURL string        `koanf:"pushgateway_url"`
}

// DSN renders the postgres connection URL.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.User, c.Postgres.Password),
		Host:     c.Postgres.Host + ":" + c.Postgres.Port,
		Path:     "/" + c.Postgres.DBName,
		RawQuery: "sslmode=" + c.Postgres.SSLMode,
	}
	return u.String()
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Environ)
}

// LoadFrom reads the configuration from the given environment source.
func LoadFrom(environ func() []string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(".", env.Opt{
		EnvironFunc:   environ,
		TransformFunc: transformEnvKey,
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// An explicit IMPORT_LIMIT, zero included, overrides the default and is validated as given.
	cfg := new(Config)
	cfg.Import.Limit = defaultLimit
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// transformEnvKey maps PG_HOST to pg.host and HOURS_CACHE_TTL to hours_cache_ttl.
// Variables outside the known families are dropped.
func transformEnvKey(k, v string) (string, any) {
	matched := false
	for _, p := range envPrefixes {
		if strings.HasPrefix(k, p) {
			matched = true
			break
		}
	}
	if !matched {
		return "", nil
	}

	key := strings.ToLower(k)
	switch {
	case strings.HasPrefix(key, "hours_"), strings.HasPrefix(key, "pushgateway_"):
		return key, v
	case strings.HasPrefix(key, "log_"):
		return "app." + key, v
	}

	group, rest, ok := strings.Cut(key, "_")
	if !ok {
		return "", nil
	}
	return group + "." + rest, v
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "development"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Yelp.APIURL == "" {
		c.Yelp.APIURL = defaultAPIURL
	}
	if c.Yelp.Category == "" {
		c.Yelp.Category = defaultCategory
	}
	if c.Postgres.Host == "" {
		c.Postgres.Host = "localhost"
	}
	if c.Postgres.Port == "" {
		c.Postgres.Port = "5432"
	}
	if c.Postgres.User == "" {
		c.Postgres.User = "postgres"
	}
	if c.Postgres.DBName == "" {
		c.Postgres.DBName = "bubble_tea"
	}
	if c.Postgres.SSLMode == "" {
		c.Postgres.SSLMode = "disable"
	}
	if c.Import.Region == "" {
		c.Import.Region = defaultRegion
	}
	if c.Import.SortBy == "" {
		c.Import.SortBy = defaultSortBy
	}
}

// Validate rejects configurations the importer cannot run with.
func (c *Config) Validate() error {
	if c.Yelp.APIKey == "" {
		return errors.New("YELP_API_KEY is required")
	}
	if c.Postgres.Password == "" {
		return errors.New("PG_PASSWORD is required")
	}
	if c.Import.Limit < 1 {
		return errors.Errorf("IMPORT_LIMIT must be positive, got %d", c.Import.Limit)
	}
	if !SortKeys[c.Import.SortBy] {
		return errors.Errorf("IMPORT_SORT_BY %q is not one of rating, review_count, distance, best_match", c.Import.SortBy)
	}
	if c.HoursCacheTTL < 0 {
		return errors.Errorf("HOURS_CACHE_TTL must not be negative, got %s", c.HoursCacheTTL)
	}
	return nil
}
