package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (a trailing "/" means prefix match)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	CleanupInterval time.Duration
	// IdleTimeout drops buckets not used for this long.
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig limits every endpoint that calls the model to perMinute requests per
// client, with the given burst. Other endpoints are unlimited. perMinute <= 0
// disables limiting.
func NewConfig(perMinute, burst int) *Config {
	if perMinute <= 0 {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       make(map[string]bool),
		EndpointConfigs: ParseEndpoints(perMinute, burst),
	}
}

// ParseEndpoints returns the limits for the endpoints that trigger completions.
func ParseEndpoints(perMinute, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/parse", Method: http.MethodPost, Limit: perMinute, Window: time.Minute, Burst: burst},
		{Path: "/resume/", Method: http.MethodGet, Limit: perMinute, Window: time.Minute, Burst: burst},
	}
}

// ParseIPList parses a comma-separated list of IP addresses into a set.
func ParseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
