package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/refinline/resolver"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// CacheEnabled shares loaded and resolved documents across tool calls.
	CacheEnabled bool

	// Resolution limits.
	MaxDepth    int
	HTTPTimeout time.Duration

	// Size limits, in bytes.
	MaxInlineSize int64
	MaxOutputSize int

	// AllowPrivateIPs lets url inputs reach private and loopback addresses.
	AllowPrivateIPs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from REFINLINE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:    envBool("REFINLINE_CACHE_ENABLED", true),
		MaxDepth:        envInt("REFINLINE_MAX_DEPTH", resolver.MaxRefDepth),
		HTTPTimeout:     envDuration("REFINLINE_HTTP_TIMEOUT", 30*time.Second),
		MaxInlineSize:   int64(envInt("REFINLINE_MAX_INLINE_SIZE", 10*1024*1024)),
		MaxOutputSize:   envInt("REFINLINE_MAX_OUTPUT", 1024*1024),
		AllowPrivateIPs: envBool("REFINLINE_ALLOW_PRIVATE_IPS", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
