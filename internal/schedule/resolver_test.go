package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"clinic-backend/internal/domain/entity"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"09:30", "09:30"},
		{"9:30", "09:30"},
		{"18:00", "18:00"},
		{"00:00", "00:00"},
		{"23:59", "23:59"},
		{"24:00", ""},
		{"18:60", ""},
		{"930", ""},
		{"half past nine", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTime(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeSlots(t *testing.T) {
	got := NormalizeSlots([]string{"18:30", "9:00", "09:00", "bogus", "11:15"})
	assert.Equal(t, []string{"09:00", "11:15", "18:30"}, got)
}

func TestResolve(t *testing.T) {
	defaults := []string{"10:00", "10:30", "18:00"}

	t.Run("no override returns defaults minus booked", func(t *testing.T) {
		got := Resolve(defaults, nil, []string{"10:30"})
		assert.Equal(t, []string{"10:00", "18:00"}, got)
	})

	t.Run("closed override empties the day", func(t *testing.T) {
		override := &entity.AvailabilityOverride{Closed: true, Slots: entity.StringList{"10:00"}}
		got := Resolve(defaults, override, nil)
		assert.Empty(t, got)
	})

	t.Run("override slots replace defaults", func(t *testing.T) {
		override := &entity.AvailabilityOverride{Slots: entity.StringList{"14:00", "14:30"}}
		got := Resolve(defaults, override, []string{"14:30"})
		assert.Equal(t, []string{"14:00"}, got)
	})

	t.Run("override without slots reverts to defaults", func(t *testing.T) {
		override := &entity.AvailabilityOverride{}
		got := Resolve(defaults, override, nil)
		assert.Equal(t, []string{"10:00", "10:30", "18:00"}, got)
	})

	t.Run("booked times are normalized before subtraction", func(t *testing.T) {
		got := Resolve(defaults, nil, []string{"9:59", "10:00"})
		assert.Equal(t, []string{"10:30", "18:00"}, got)
	})

	t.Run("fully booked day resolves to empty", func(t *testing.T) {
		got := Resolve(defaults, nil, defaults)
		assert.Empty(t, got)
	})
}

func TestValidateDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	assert.NoError(t, err)

	// Tuesday, so today+1 is Wednesday and today+2 is Thursday.
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, loc)

	t.Run("today is bookable", func(t *testing.T) {
		assert.NoError(t, ValidateDate("2025-07-01", entity.ConsultOnline, now))
	})

	t.Run("horizon edge is bookable", func(t *testing.T) {
		assert.NoError(t, ValidateDate("2025-07-03", entity.ConsultOffline, now))
	})

	t.Run("beyond horizon is rejected", func(t *testing.T) {
		err := ValidateDate("2025-07-04", entity.ConsultOnline, now)
		assert.ErrorIs(t, err, ErrDateBeyondHorizon)
	})

	t.Run("past date is rejected", func(t *testing.T) {
		err := ValidateDate("2025-06-30", entity.ConsultOnline, now)
		assert.ErrorIs(t, err, ErrDateInPast)
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		err := ValidateDate("01-07-2025", entity.ConsultOnline, now)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("offline is closed on Sunday and Monday", func(t *testing.T) {
		// Saturday, so the horizon covers Sunday and Monday.
		saturday := time.Date(2025, 7, 5, 10, 0, 0, 0, loc)
		assert.ErrorIs(t, ValidateDate("2025-07-06", entity.ConsultOffline, saturday), ErrClinicClosedWeekday)
		assert.ErrorIs(t, ValidateDate("2025-07-07", entity.ConsultOffline, saturday), ErrClinicClosedWeekday)
		assert.NoError(t, ValidateDate("2025-07-05", entity.ConsultOffline, saturday))
	})

	t.Run("online has no weekday restriction", func(t *testing.T) {
		saturday := time.Date(2025, 7, 5, 10, 0, 0, 0, loc)
		assert.NoError(t, ValidateDate("2025-07-06", entity.ConsultOnline, saturday))
		assert.NoError(t, ValidateDate("2025-07-07", entity.ConsultOnline, saturday))
	})
}

func TestPartition(t *testing.T) {
	b := Partition([]string{"09:00", "11:59", "12:00", "17:59", "18:00", "20:30"})
	assert.Equal(t, []string{"09:00", "11:59"}, b.Morning)
	assert.Equal(t, []string{"12:00", "17:59"}, b.Afternoon)
	assert.Equal(t, []string{"18:00", "20:30"}, b.Evening)
}

func TestPartitionEmpty(t *testing.T) {
	b := Partition(nil)
	assert.NotNil(t, b.Morning)
	assert.NotNil(t, b.Afternoon)
	assert.NotNil(t, b.Evening)
	assert.Empty(t, b.Morning)
}

func TestContains(t *testing.T) {
	slots := []string{"09:00", "10:30"}
	assert.True(t, Contains(slots, "09:00"))
	assert.True(t, Contains(slots, "9:00"))
	assert.False(t, Contains(slots, "11:00"))
	assert.False(t, Contains(slots, "bogus"))
}
