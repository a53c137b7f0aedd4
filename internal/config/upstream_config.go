package config

import "time"

// UpstreamConfig bounds how the service talks to the OCLC APIs.
type UpstreamConfig interface {
	GetHTTPTimeout() time.Duration
	GetMaxAttempts() int
	GetUpstreamRateLimit() float64
	GetUpstreamBurst() int
}

type Upstream struct{}

var _ UpstreamConfig = Upstream{}

func (Upstream) GetHTTPTimeout() time.Duration {
	return GetEnvDuration("HTTP_TIMEOUT", 10*time.Second)
}

func (Upstream) GetMaxAttempts() int {
	if attempts := GetEnvInt("MAX_ATTEMPTS", 3); attempts > 0 {
		return attempts
	}
	return 3
}

// GetUpstreamRateLimit is in requests per second across all upstream services.
func (Upstream) GetUpstreamRateLimit() float64 {
	return GetEnvFloat("UPSTREAM_RPS", 10)
}

func (Upstream) GetUpstreamBurst() int {
	return GetEnvInt("UPSTREAM_BURST", 10)
}
