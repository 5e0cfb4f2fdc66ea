package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// HTTP surface
	ListenAddr        string `mapstructure:"listen_addr" yaml:"listen_addr" validate:"required,hostname_port"`
	MaxUploadMB       int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" validate:"min=1,max=1024"`
	PreviewRows       int    `mapstructure:"preview_rows" yaml:"preview_rows" validate:"min=1,max=1000"`
	SessionTTLMin     int    `mapstructure:"session_ttl_min" yaml:"session_ttl_min" validate:"min=0"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec" validate:"min=1"`

	// Parsing
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter" validate:"omitempty,oneof=0x2C ; tab 0x7C"`
	DateLayout string `mapstructure:"date_layout" yaml:"date_layout"`
	Timezone   string `mapstructure:"timezone" yaml:"timezone" validate:"required"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"listen_addr", "max_upload_mb", "preview_rows", "session_ttl_min", "request_timeout_sec",
	"delimiter", "date_layout", "timezone", "log_level", "log_format",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and that the timezone resolves.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location resolves Timezone.
func (c *Global) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DelimiterRune returns the configured CSV delimiter, or 0 to sniff.
func (c *Global) DelimiterRune() rune {
	return ParseDelimiter(c.Delimiter)
}

// ParseDelimiter accepts a single character or the word "tab".
func ParseDelimiter(s string) rune {
	switch s {
	case "":
		return 0
	case "tab", `\t`:
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// SessionTTL is the idle lifetime of a server session.
func (c *Global) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMin) * time.Minute
}

// RequestTimeout bounds a single HTTP request.
func (c *Global) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// MaxUploadBytes is the request body limit for uploads.
func (c *Global) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Get returns the string form of a key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "listen_addr":
		return c.ListenAddr, nil
	case "max_upload_mb":
		return strconv.Itoa(c.MaxUploadMB), nil
	case "preview_rows":
		return strconv.Itoa(c.PreviewRows), nil
	case "session_ttl_min":
		return strconv.Itoa(c.SessionTTLMin), nil
	case "request_timeout_sec":
		return strconv.Itoa(c.RequestTimeoutSec), nil
	case "delimiter":
		return c.Delimiter, nil
	case "date_layout":
		return c.DateLayout, nil
	case "timezone":
		return c.Timezone, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set assigns a key from its string form and validates the result. On error
// the configuration is left unchanged.
func (c *Global) Set(key, val string) error {
	next := *c
	atoi := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "listen_addr":
		next.ListenAddr = val
	case "max_upload_mb":
		next.MaxUploadMB, err = atoi()
	case "preview_rows":
		next.PreviewRows, err = atoi()
	case "session_ttl_min":
		next.SessionTTLMin, err = atoi()
	case "request_timeout_sec":
		next.RequestTimeoutSec, err = atoi()
	case "delimiter":
		next.Delimiter = val
	case "date_layout":
		next.DateLayout = val
	case "timezone":
		next.Timezone = val
	case "log_level":
		next.LogLevel = val
	case "log_format":
		next.LogFormat = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Dir returns ~/.airq.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".airq"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.airq/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("AIRQ")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("max_upload_mb", 10)
	v.SetDefault("preview_rows", 5)
	v.SetDefault("session_ttl_min", 30)
	v.SetDefault("request_timeout_sec", 30)
	v.SetDefault("delimiter", "")
	v.SetDefault("date_layout", "")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
