package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2099-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC), date)

	for _, bad := range []string{"", "2099-1-1", "01.01.2099", "2099-13-01", "tomorrow"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateOf_UsesReferenceZone(t *testing.T) {
	tashkent := time.FixedZone("UTC+5", 5*60*60)
	// 21:00 UTC is already the next day at UTC+5
	now := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), DateOf(now, tashkent))
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), DateOf(now, time.UTC))
}

func TestSubscription_DaysRemaining(t *testing.T) {
	sub := Subscription{UserID: 100, ExpiresOn: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name   string
		today  time.Time
		days   int
		active bool
	}{
		{"two days before", time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC), 2, true},
		{"day before", time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), 1, true},
		{"expiry day", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 0, true},
		{"day after", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.days, sub.DaysRemaining(tt.today))
			assert.Equal(t, tt.active, sub.IsActiveOn(tt.today))
		})
	}
}
