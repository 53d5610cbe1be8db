// Package config loads the demo server configuration: built-in defaults,
// then an optional TOML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joeshaw/envdecode"
)

// Transports the demo binary can serve.
const (
	TransportStdio  = "stdio"
	TransportHTTP   = "http"
	TransportLambda = "lambda"
)

// ConfigFileEnv names the variable consulted when Load is given no path.
const ConfigFileEnv = "MCP_CONFIG_FILE"

// Config is the complete demo server configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	HTTP   HTTPConfig   `toml:"http"`
	Log    LogConfig    `toml:"log"`

	// Transport is one of stdio, http or lambda. Empty selects lambda when
	// running inside a function runtime and stdio otherwise.
	Transport      string        `toml:"transport" env:"MCP_TRANSPORT"`
	RequestTimeout time.Duration `toml:"request_timeout" env:"MCP_REQUEST_TIMEOUT"`
	// ResourceDir, when set, is exposed file by file as resources.
	ResourceDir string `toml:"resource_dir" env:"MCP_RESOURCE_DIR"`

	// LambdaFunctionName is set by the function runtime.
	LambdaFunctionName string `toml:"-" env:"AWS_LAMBDA_FUNCTION_NAME"`
}

// ServerConfig is the identity reported in initialize results.
type ServerConfig struct {
	Name    string `toml:"name" env:"MCP_SERVER_NAME"`
	Version string `toml:"version" env:"MCP_SERVER_VERSION"`
}

// HTTPConfig configures the http transport.
type HTTPConfig struct {
	Addr        string `toml:"addr" env:"MCP_HTTP_ADDR"`
	AllowOrigin string `toml:"allow_origin" env:"MCP_HTTP_ALLOW_ORIGIN"`
}

// LogConfig selects the slog level and output format (text or json).
type LogConfig struct {
	Level  string `toml:"level" env:"MCP_LOG_LEVEL"`
	Format string `toml:"format" env:"MCP_LOG_FORMAT"`
}

// Default returns the built-in configuration. Its Transport is empty, which
// Load resolves from the runtime environment.
func Default() Config {
	return Config{
		Server:         ServerConfig{Name: "mcp-demo", Version: "1.0.0"},
		HTTP:           HTTPConfig{Addr: ":8080", AllowOrigin: "*"},
		Log:            LogConfig{Level: "info", Format: "text"},
		RequestTimeout: 30 * time.Second,
	}
}

// Load builds a Config from defaults, the TOML file at path (or at
// $MCP_CONFIG_FILE when path is empty) and the environment, in that order of
// increasing precedence. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	// StrictDecode reports an environment that sets none of the fields as
	// ErrInvalidTarget; cfg is always a valid target.
	if err := envdecode.StrictDecode(&cfg); err != nil && !errors.Is(err, envdecode.ErrInvalidTarget) && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("config: environment: %w", err)
	}

	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
		if cfg.InLambda() {
			cfg.Transport = TransportLambda
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// InLambda reports whether the process runs inside a function runtime.
func (c Config) InLambda() bool { return c.LambdaFunctionName != "" }

// Validate rejects unknown transports, log levels and formats.
func (c Config) Validate() error {
	var errs []error
	switch c.Transport {
	case TransportStdio, TransportLambda:
	case TransportHTTP:
		if c.HTTP.Addr == "" {
			errs = append(errs, errors.New("http transport requires an address"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown transport %q", c.Transport))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request timeout must not be negative, got %s", c.RequestTimeout))
	}
	if c.Server.Name == "" {
		errs = append(errs, errors.New("server name must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// ParseLevel maps a level name onto a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
