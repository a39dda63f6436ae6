package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDueDate(t *testing.T) {
	want := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"iso date", "2024-03-12", false},
		{"rfc3339", "2024-03-12T18:30:00Z", false},
		{"rfc3339 with offset keeps local date", "2024-03-12T23:30:00-05:00", false},
		{"slashes", "2024/03/12", false},
		{"short month", "Mar 12 2024", false},
		{"long month", "March 12, 2024", false},
		{"padded", "  2024-03-12 ", false},
		{"empty", "", true},
		{"garbage", "someday", true},
		{"impossible date", "2024-02-30", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDueDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	assert.True(t, SameDay(a, a.Add(23*time.Hour)))
	assert.False(t, SameDay(a, a.Add(24*time.Hour)))
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, 3, 12, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(from, time.Date(2024, 3, 13, 1, 0, 0, 0, time.UTC)))
	assert.Equal(t, -2, DaysBetween(from, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, DaysBetween(from, from))
}
