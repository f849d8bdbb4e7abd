package middleware

import (
	"io"
	"testing"

	"github.com/kizuna-chat/kizuna-server/internal/config"
	"github.com/sirupsen/logrus"
)

func limiterConfig(enabled bool, rpm, burst int) *config.Config {
	return &config.Config{
		RateLimit: config.RateLimitConfig{
			Enabled:           enabled,
			RequestsPerMinute: rpm,
			Burst:             burst,
		},
	}
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(limiterConfig(false, 1, 1), discardLogger())
	for i := 0; i < 100; i++ {
		if !rl.Allow("client-1") {
			t.Fatal("disabled limiter rejected a request")
		}
	}
}

func TestRateLimiter_BurstExhaustion(t *testing.T) {
	rl := NewRateLimiter(limiterConfig(true, 1, 2), discardLogger())

	if !rl.Allow("client-1") || !rl.Allow("client-1") {
		t.Fatal("burst requests rejected")
	}
	if rl.Allow("client-1") {
		t.Error("request beyond burst allowed")
	}
}

func TestRateLimiter_ClientsIndependent(t *testing.T) {
	rl := NewRateLimiter(limiterConfig(true, 1, 1), discardLogger())

	if !rl.Allow("client-1") {
		t.Fatal("first request rejected")
	}
	if rl.Allow("client-1") {
		t.Error("client-1 should be throttled")
	}
	if !rl.Allow("client-2") {
		t.Error("client-2 throttled by client-1's usage")
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(limiterConfig(true, 1, 1), discardLogger())

	rl.Allow("client-1")
	if rl.Allow("client-1") {
		t.Fatal("expected throttle before reset")
	}
	rl.Reset("client-1")
	if !rl.Allow("client-1") {
		t.Error("request rejected after reset")
	}
}
