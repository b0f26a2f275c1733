package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// EndpointConfig is the limit for one endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // requests per window
	Window time.Duration // refill window
	Burst  int           // bucket capacity, Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	// IdleTTL is how long an untouched bucket is kept before it is dropped.
	IdleTTL         time.Duration
	MaxBuckets      int
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the limits used when no configuration is given.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		IdleTTL:         time.Hour,
		MaxBuckets:      DefaultMaxBuckets,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(30, time.Hour),
	}
}

// DefaultEndpointConfigs returns per-endpoint limits. Report generation may call the
// hosted model, so it gets its own, stricter limit.
func DefaultEndpointConfigs(generateLimit int, generateWindow time.Duration) []EndpointConfig {
	burst := generateLimit / 10
	if burst < 1 {
		burst = 1
	}
	return []EndpointConfig{
		{Path: "/api/report/generate", Method: http.MethodPost, Limit: generateLimit, Window: generateWindow, Burst: burst},

		{Path: "/api/report/save", Method: http.MethodPost, Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/profile/save", Method: http.MethodPost, Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/signup", Method: http.MethodPost, Limit: 20, Window: time.Minute, Burst: 5},
	}
}

// ParseIPList turns a list of addresses into a lookup set, skipping blanks.
func ParseIPList(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
