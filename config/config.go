// config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultPort is used when PORT is not provided.
const DefaultPort = 3000

// DefaultDBName is the database used when neither db_name nor the URI path names one.
const DefaultDBName = "test"

// CORSMode selects how caller origins are validated.
type CORSMode string

const (
	// CORSModeAuto picks multi when FRONTEND_URLS is set, single when only
	// FRONTEND_URL is set, and multi otherwise.
	CORSModeAuto CORSMode = ""

	// CORSModeMulti accepts requests without an Origin header and requests whose
	// Origin exactly matches one entry of FRONTEND_URLS. Other origins are rejected
	// with an error.
	CORSModeMulti CORSMode = "multi"

	// CORSModeSingle grants CORS only to the one origin in FRONTEND_URL.
	CORSModeSingle CORSMode = "single"
)

// HTTPConfig groups listener and request-handling settings.
type HTTPConfig struct {
	Port                int   `mapstructure:"port"`
	MaxRequestBodyBytes int64 `mapstructure:"max_request_body_bytes"`
	EnableCompression   bool  `mapstructure:"enable_compression"`

	ReadHeaderTimeout time.Duration `mapstructure:"-"`
	ShutdownTimeout   time.Duration `mapstructure:"-"`
}

// CORSConfig holds the origin allow-list.
type CORSConfig struct {
	Mode CORSMode `mapstructure:"cors_mode"`

	// FrontendURLs is FRONTEND_URLS split on ",". Entries are not trimmed or
	// normalized; matching is exact.
	FrontendURLs []string `mapstructure:"-"`

	// FrontendURL is the single origin used in CORSModeSingle.
	FrontendURL string `mapstructure:"frontend_url"`
}

// AllowedOrigins returns the origins permitted under the resolved mode.
func (c CORSConfig) AllowedOrigins() []string {
	if c.Mode == CORSModeSingle {
		return []string{c.FrontendURL}
	}
	return c.FrontendURLs
}

// Config is the immutable process configuration, read once at startup.
type Config struct {
	// runtime
	Env      string `mapstructure:"env"`       // "dev" | "prod"
	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error …

	// database
	MongoURI         string        `mapstructure:"mongodb_uri"`
	DBName           string        `mapstructure:"db_name"`
	DBConnectTimeout time.Duration `mapstructure:"-"`

	HTTP HTTPConfig `mapstructure:",squash"`
	CORS CORSConfig `mapstructure:",squash"`
}

// Dump returns a pretty JSON string of the config with credentials in the
// Mongo URI redacted. Use at debug level only.
func (c Config) Dump() string {
	cp := c
	cp.MongoURI = redactURI(c.MongoURI)
	b, _ := json.MarshalIndent(cp, "", "  ")
	return string(b)
}

func redactURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "REDACTED")
	}
	return u.String()
}

// envNames maps config keys to the environment variables that feed them.
var envNames = map[string]string{
	"env":                    "APP_ENV",
	"log_level":              "LOG_LEVEL",
	"mongodb_uri":            "MONGODB_URI",
	"db_name":                "DB_NAME",
	"db_connect_timeout":     "DB_CONNECT_TIMEOUT",
	"port":                   "PORT",
	"read_header_timeout":    "READ_HEADER_TIMEOUT",
	"shutdown_timeout":       "SHUTDOWN_TIMEOUT",
	"max_request_body_bytes": "MAX_REQUEST_BODY_BYTES",
	"enable_compression":     "ENABLE_COMPRESSION",
	"cors_mode":              "CORS_MODE",
	"frontend_urls":          "FRONTEND_URLS",
	"frontend_url":           "FRONTEND_URL",
}

// Load merges defaults → config.* file(s) → .env → env vars → explicit flags into one Config.
// Final precedence (highest wins): flags(explicit) > env > .env > config > defaults.
//
// args are the command-line arguments without the program name.
func Load(logger *zap.Logger, args []string) (*Config, error) {
	// 0) Optionally load .env (real env still wins over .env)
	if err := godotenv.Load(); err == nil && logger != nil {
		logger.Info("Loaded .env file")
	}

	// 1) Flags; only explicitly set flags override.
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// 2) Viper + env
	v := viper.New()
	for key, env := range envNames {
		_ = v.BindEnv(key, env)
	}

	// 3) Optional config.* files (yaml|yml|json|toml)
	mergeConfigFiles(logger, v)

	// 4) Defaults (lowest precedence)
	setDefaults(v)

	// 5) Apply explicit flags (highest precedence)
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = v.BindPFlag(f.Name, f)
		}
	})

	// 6) Build struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.MongoURI = strings.TrimSpace(cfg.MongoURI)
	cfg.CORS.Mode = CORSMode(strings.ToLower(strings.TrimSpace(string(cfg.CORS.Mode))))

	urlsSet := v.IsSet("frontend_urls")
	if urlsSet {
		cfg.CORS.FrontendURLs = splitOrigins(v.Get("frontend_urls"))
		urlsSet = len(cfg.CORS.FrontendURLs) > 0
	}
	if cfg.CORS.Mode == CORSModeAuto {
		switch {
		case urlsSet:
			cfg.CORS.Mode = CORSModeMulti
		case cfg.CORS.FrontendURL != "":
			cfg.CORS.Mode = CORSModeSingle
		default:
			cfg.CORS.Mode = CORSModeMulti
		}
	}

	if cfg.DBName == "" {
		cfg.DBName = dbNameFromURI(cfg.MongoURI)
	}

	// Parse durations
	cfg.DBConnectTimeout = durationKey(logger, v, "db_connect_timeout", 10*time.Second)
	cfg.HTTP.ReadHeaderTimeout = durationKey(logger, v, "read_header_timeout", 10*time.Second)
	cfg.HTTP.ShutdownTimeout = durationKey(logger, v, "shutdown_timeout", 15*time.Second)

	// 7) Validate
	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("inkwell", pflag.ContinueOnError)

	fs.String("env", "dev", `Runtime environment "dev"|"prod"`)
	fs.String("log_level", "info", "Log level")

	fs.String("mongodb_uri", "", "MongoDB connection string")
	fs.String("db_name", "", "Database name (defaults to the URI path, then \"test\")")
	fs.String("db_connect_timeout", "10s", "Timeout for the startup ping (e.g., \"10s\")")

	fs.Int("port", DefaultPort, "HTTP port")
	fs.String("read_header_timeout", "10s", "HTTP read header timeout")
	fs.String("shutdown_timeout", "15s", "Graceful shutdown window")
	fs.Int64("max_request_body_bytes", 100<<10, "Max JSON request body size in bytes (0 = unlimited)")
	fs.Bool("enable_compression", false, "Enable HTTP compression")

	fs.String("cors_mode", "", `CORS origin policy: "multi" or "single" (empty = auto)`)
	fs.String("frontend_urls", "", "Comma-separated allowed origins (multi mode)")
	fs.String("frontend_url", "", "Allowed origin (single mode)")

	return fs
}

func mergeConfigFiles(logger *zap.Logger, v *viper.Viper) {
	for _, ext := range [...]string{"yaml", "yml", "json", "toml"} {
		file := "config." + ext
		if _, err := os.Stat(file); err != nil {
			continue
		}
		b, err := os.ReadFile(file)
		if err != nil {
			if logger != nil {
				logger.Warn("cannot read config file", zap.String("file", file), zap.Error(err))
			}
			continue
		}
		v.SetConfigType(ext)
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			if logger != nil {
				logger.Warn("cannot decode config file", zap.String("file", file), zap.Error(err))
			}
			continue
		}
		if logger != nil {
			logger.Info("Loaded config file", zap.String("file", file))
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")

	v.SetDefault("db_name", "")
	v.SetDefault("db_connect_timeout", "10s")

	v.SetDefault("port", DefaultPort)
	v.SetDefault("read_header_timeout", "10s")
	v.SetDefault("shutdown_timeout", "15s")
	v.SetDefault("max_request_body_bytes", int64(100<<10))
	v.SetDefault("enable_compression", false)

	v.SetDefault("cors_mode", "")
	v.SetDefault("frontend_url", "")
}

// splitOrigins accepts a comma-separated string (env, flags) or a list (config files).
func splitOrigins(raw any) []string {
	switch t := raw.(type) {
	case string:
		if t == "" {
			return nil
		}
		return strings.Split(t, ",")
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, fmt.Sprint(e))
		}
		return out
	}
	return nil
}

// dbNameFromURI returns the database named in the connection string, or
// DefaultDBName. An unparseable URI also yields DefaultDBName; database.Open
// reports the parse error.
func dbNameFromURI(uri string) string {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil || cs.Database == "" {
		return DefaultDBName
	}
	return cs.Database
}

func durationKey(logger *zap.Logger, v *viper.Viper, key string, def time.Duration) time.Duration {
	d, err := parseDurationFlexible(v.Get(key), def)
	if err != nil && logger != nil {
		logger.Warn("invalid "+key+"; using default",
			zap.Any("value", v.Get(key)), zap.Duration("default", def), zap.Error(err))
	}
	return d
}

func validate(cfg Config) error {
	var missing []string
	var invalid []string

	if cfg.MongoURI == "" {
		missing = append(missing, "MONGODB_URI (or --mongodb_uri)")
	}

	switch cfg.CORS.Mode {
	case CORSModeMulti:
		if len(cfg.CORS.FrontendURLs) == 0 {
			missing = append(missing, "FRONTEND_URLS (or --frontend_urls)")
		}
	case CORSModeSingle:
		if cfg.CORS.FrontendURL == "" {
			missing = append(missing, "FRONTEND_URL (or --frontend_url)")
		}
	default:
		invalid = append(invalid, fmt.Sprintf("cors_mode must be \"multi\" or \"single\", got %q", cfg.CORS.Mode))
	}

	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		invalid = append(invalid, "port must be in 1..65535")
	}
	if cfg.HTTP.MaxRequestBodyBytes < 0 {
		invalid = append(invalid, "max_request_body_bytes must be >= 0")
	}
	if _, err := zapcore.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		invalid = append(invalid, fmt.Sprintf("log_level %q is not a valid level", cfg.LogLevel))
	}

	if len(missing) == 0 && len(invalid) == 0 {
		return nil
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid: "+strings.Join(invalid, ", "))
	}
	return fmt.Errorf("configuration errors: %s", strings.Join(parts, " | "))
}
