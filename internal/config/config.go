package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	API   APIConfig
	State StateConfig
	Log   LogConfig
}

// APIConfig points the client at the job-board backend.
type APIConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// StateConfig locates the local database holding the session.
type StateConfig struct {
	DBPath string
}

type LogConfig struct {
	Level string
}

// ServerConfig drives the bundled development backend. Everything has a
// default so `devserver` runs with no environment at all.
type ServerConfig struct {
	Port      string
	JWTSecret string
	TokenTTL  time.Duration
	AuthRPS   float64
	Seed      bool
	Log       LogConfig
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}

	cfg.API = APIConfig{
		BaseURL: req("JOBDECK_API_URL"),
	}

	timeout, err := time.ParseDuration(opt("JOBDECK_HTTP_TIMEOUT", "15s"))
	if err != nil || timeout <= 0 {
		return Config{}, fmt.Errorf("invalid JOBDECK_HTTP_TIMEOUT: %q", os.Getenv("JOBDECK_HTTP_TIMEOUT"))
	}
	cfg.API.Timeout = timeout

	rps, err := strconv.ParseFloat(opt("JOBDECK_HTTP_RPS", "10"), 64)
	if err != nil || rps <= 0 {
		return Config{}, fmt.Errorf("invalid JOBDECK_HTTP_RPS: %q", os.Getenv("JOBDECK_HTTP_RPS"))
	}
	cfg.API.RequestsPerSecond = rps

	cfg.State = StateConfig{
		DBPath: opt("JOBDECK_STATE_DB", defaultStatePath()),
	}
	cfg.Log = LogConfig{
		Level: opt("JOBDECK_LOG_LEVEL", "info"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func LoadServer() (ServerConfig, error) {
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}

	ttl, err := time.ParseDuration(opt("DEVSERVER_TOKEN_TTL", "1h"))
	if err != nil || ttl <= 0 {
		return ServerConfig{}, fmt.Errorf("invalid DEVSERVER_TOKEN_TTL: %q", os.Getenv("DEVSERVER_TOKEN_TTL"))
	}

	rps, err := strconv.ParseFloat(opt("DEVSERVER_AUTH_RPS", "5"), 64)
	if err != nil || rps <= 0 {
		return ServerConfig{}, fmt.Errorf("invalid DEVSERVER_AUTH_RPS: %q", os.Getenv("DEVSERVER_AUTH_RPS"))
	}

	seed, err := strconv.ParseBool(opt("DEVSERVER_SEED", "true"))
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid DEVSERVER_SEED: %q", os.Getenv("DEVSERVER_SEED"))
	}

	return ServerConfig{
		Port:      opt("DEVSERVER_PORT", "5000"),
		JWTSecret: opt("DEVSERVER_JWT_SECRET", "devserver-local-secret"),
		TokenTTL:  ttl,
		AuthRPS:   rps,
		Seed:      seed,
		Log:       LogConfig{Level: opt("DEVSERVER_LOG_LEVEL", "info")},
	}, nil
}

// defaultStatePath keeps the session database under the user config dir,
// falling back to the working directory when none is resolvable.
func defaultStatePath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "jobdeck.db"
	}
	return filepath.Join(base, "jobdeck", "jobdeck.db")
}

// ListenAddr normalizes a port value into an address fiber can bind.
func (c ServerConfig) ListenAddr() string {
	p := strings.TrimSpace(c.Port)
	if p == "" {
		p = "5000"
	}
	if strings.HasPrefix(p, ":") {
		return p
	}
	return ":" + p
}
