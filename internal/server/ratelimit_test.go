package server_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eco-assistant/internal/server"
)

func TestRateLimiter_ExhaustsAndIsolatesByIP(t *testing.T) {
	rl := server.NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d should pass", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "bucket should be empty")

	// A different client has its own bucket.
	assert.True(t, rl.Allow("10.0.0.2"))
}
