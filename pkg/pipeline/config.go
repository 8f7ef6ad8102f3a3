package pipeline

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/provflow/pkg/errors"
)

// Config is the on-disk configuration file:
//
//	[layout]
//	width = 1200
//	height = 600
//
//	[ordering]
//	strategy = "auto"
//	limit = 8
//
//	[cache]
//	disabled = false
//	dir = "/var/cache/provflow"
//	redis = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	mongo = "mongodb://localhost:27017"
//	database = "provflow"
type Config struct {
	Layout   LayoutConfig   `toml:"layout"`
	Ordering OrderingConfig `toml:"ordering"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Store    StoreConfig    `toml:"store"`
}

type LayoutConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type OrderingConfig struct {
	Strategy string `toml:"strategy"`
	Limit    int    `toml:"limit"`
}

type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
	Redis    string `toml:"redis"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type StoreConfig struct {
	Mongo    string `toml:"mongo"`
	Database string `toml:"database"`
}

// LoadConfig reads a TOML config file. Unknown keys are rejected so typos
// do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Apply copies configured values into opts wherever opts is still zero, so
// explicit flags and request fields win over the file.
func (c Config) Apply(opts *Options) {
	if opts.Width == 0 {
		opts.Width = c.Layout.Width
	}
	if opts.Height == 0 {
		opts.Height = c.Layout.Height
	}
	if opts.Ordering == "" {
		opts.Ordering = c.Ordering.Strategy
	}
	if opts.ExhaustiveLimit == 0 {
		opts.ExhaustiveLimit = c.Ordering.Limit
	}
}
