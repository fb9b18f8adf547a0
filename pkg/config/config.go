// Package config loads classgraph settings from a TOML file.
//
// Every value has a built-in default, so a missing file or a partial file
// is valid. Only keys that appear in the file override the defaults.
//
//	[layout]
//	seed = 7
//	max_iterations = 800
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/classgraph/pkg/errors"
	"github.com/matzehuels/classgraph/pkg/geometry"
	"github.com/matzehuels/classgraph/pkg/layout"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Store backends.
const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

// Config is the full configuration file.
type Config struct {
	Layout   layout.Config   `toml:"layout"`
	Sizer    layout.Sizer    `toml:"sizer"`
	Geometry geometry.Config `toml:"geometry"`
	Cache    Cache           `toml:"cache"`
	Store    Store           `toml:"store"`
	Server   Server          `toml:"server"`
}

// Cache selects and configures the layout/artifact cache.
type Cache struct {
	Backend   string   `toml:"backend" validate:"oneof=none file redis"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB   int      `toml:"redis_db" validate:"gte=0"`
	TTL       Duration `toml:"ttl"`
}

// Store selects and configures project persistence.
type Store struct {
	Backend  string `toml:"backend" validate:"oneof=file mongo"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	Database string `toml:"database"`
}

// Server configures `classgraph serve`.
type Server struct {
	Addr         string   `toml:"addr" validate:"required"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes" validate:"gt=0"`
}

// Duration is a time.Duration that decodes from TOML strings like "30s".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout:   layout.DefaultConfig(),
		Sizer:    layout.DefaultSizer,
		Geometry: geometry.DefaultConfig(),
		Cache: Cache{
			Backend: CacheFile,
			Dir:     filepath.Join(userCacheDir(), "classgraph"),
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Store: Store{
			Backend:  StoreFile,
			Dir:      filepath.Join(userDataDir(), "classgraph", "projects"),
			Database: "classgraph",
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			MaxBodyBytes: 4 << 20,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/classgraph/config.toml, falling back
// to the OS user config directory.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "classgraph", "config.toml")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".classgraph", "config.toml")
	}
	return filepath.Join(dir, "classgraph", "config.toml")
}

// Load reads path over the defaults. An empty path means [DefaultPath];
// a missing file at the default path is not an error, while a missing
// file named explicitly is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s not found", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode parses TOML text over the defaults. It is Load without the file.
func Decode(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return cfg, cfg.Validate()
}

var validate = validator.New()

// Validate checks struct tags and the cross-field layout constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", formatValidationError(err))
	}
	if err := c.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout")
	}
	return nil
}

// formatValidationError reports the first failing field as "Section.Field: reason".
func formatValidationError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	e := verrs[0]
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s: field is required", field)
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s]", field, e.Param())
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("%s: must be %s %s", field, e.Tag(), e.Param())
	case "hexcolor":
		return fmt.Sprintf("%s: not a hex color", field)
	default:
		return fmt.Sprintf("%s: failed %s", field, e.Tag())
	}
}

func userCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return dir
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return os.TempDir()
}

func userDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share")
	}
	return os.TempDir()
}
