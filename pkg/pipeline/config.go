package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/brickfall/pkg/cache"
	errs "github.com/matzehuels/brickfall/pkg/errors"
	"github.com/matzehuels/brickfall/pkg/history"
)

// DefaultServerAddr is where `brickfall serve` listens by default.
const DefaultServerAddr = "127.0.0.1:8022"

// Config is the on-disk configuration, read from TOML:
//
//	workers = 4
//	validate = true
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[history]
//	backend = "sqlite"
//	path = "/var/lib/brickfall/history.db"
//
//	[server]
//	addr = ":8022"
type Config struct {
	Workers    int            `toml:"workers"`
	CheckInput bool           `toml:"validate"`
	Cache      cache.Config   `toml:"cache"`
	History    history.Config `toml:"history"`
	Server     ServerConfig   `toml:"server"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		CheckInput: true,
		Cache:      cache.Config{Backend: cache.BackendFile},
		History:    history.Config{Backend: history.BackendNone},
		Server:     ServerConfig{Addr: DefaultServerAddr},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/brickfall/config.toml or its
// platform equivalent.
func DefaultConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "brickfall", "config.toml"), nil
}

// LoadConfig reads the file at path over [DefaultConfig]. With an empty
// path the default location is used and a missing file is not an error; an
// explicitly named file must exist. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errs.New(errs.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

var (
	cacheBackends   = []string{cache.BackendFile, cache.BackendRedis, cache.BackendNone}
	historyBackends = []string{history.BackendNone, history.BackendMemory, history.BackendSQLite, history.BackendMongo}
)

// Validate checks value ranges and backend names.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "workers must not be negative, got %d", c.Workers)
	}
	if c.Cache.Backend != "" && !slices.Contains(cacheBackends, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: %s)",
			c.Cache.Backend, strings.Join(cacheBackends, ", "))
	}
	if c.History.Backend != "" && !slices.Contains(historyBackends, c.History.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown history backend %q (must be one of: %s)",
			c.History.Backend, strings.Join(historyBackends, ", "))
	}
	return nil
}

// Apply copies the config's run settings onto opts where opts leaves them
// unset.
func (c Config) Apply(opts *Options) {
	if opts.Workers == 0 {
		opts.Workers = c.Workers
	}
	if !c.CheckInput {
		opts.SkipValidate = true
	}
}
