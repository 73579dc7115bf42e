package gateway

import "time"

// RetryPolicy bounds the backoff loop around retryable provider failures.
// The zero value takes the defaults; all three knobs come from config in
// production.
type RetryPolicy struct {
	Base        time.Duration
	Factor      int
	MaxAttempts int
}

type RetryConfig struct {
	RetryBaseMillis  int `mapstructure:"GATEWAY_RETRY_BASE_MILLIS"`
	RetryFactor      int `mapstructure:"GATEWAY_RETRY_FACTOR"`
	RetryMaxAttempts int `mapstructure:"GATEWAY_RETRY_MAX_ATTEMPTS"`
}

func (c RetryConfig) Policy() RetryPolicy {
	return RetryPolicy{
		Base:        time.Duration(c.RetryBaseMillis) * time.Millisecond,
		Factor:      c.RetryFactor,
		MaxAttempts: c.RetryMaxAttempts,
	}.withDefaults()
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Base <= 0 {
		p.Base = 500 * time.Millisecond
	}
	if p.Factor <= 1 {
		p.Factor = 2
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	return p
}
