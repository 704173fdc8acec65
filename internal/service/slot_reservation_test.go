package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHoldTTL(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	assert.NoError(t, err)

	t.Run("hold lives until end of the booked day", func(t *testing.T) {
		now := time.Date(2025, 7, 1, 10, 0, 0, 0, loc)
		ttl := HoldTTL("2025-07-01", now)
		assert.Equal(t, 14*time.Hour, ttl)
	})

	t.Run("future date extends the hold", func(t *testing.T) {
		now := time.Date(2025, 7, 1, 10, 0, 0, 0, loc)
		ttl := HoldTTL("2025-07-03", now)
		assert.Equal(t, 62*time.Hour, ttl)
	})

	t.Run("past date gets a short cleanup TTL", func(t *testing.T) {
		now := time.Date(2025, 7, 5, 10, 0, 0, 0, loc)
		assert.Equal(t, time.Minute, HoldTTL("2025-07-01", now))
	})

	t.Run("malformed date falls back to an hour", func(t *testing.T) {
		now := time.Date(2025, 7, 1, 10, 0, 0, 0, loc)
		assert.Equal(t, time.Hour, HoldTTL("bogus", now))
	})
}
