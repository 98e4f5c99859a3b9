package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToZulu(t *testing.T) {
	cet := time.FixedZone("CET", 60*60)

	tests := []struct {
		name     string
		input    string
		loc      *time.Location
		expected string
	}{
		{"utc local time", "2024-03-01T09:00:00", time.UTC, "20240301T090000Z"},
		{"shifted by location", "2024-03-01T09:00:00", cet, "20240301T080000Z"},
		{"previous day after shift", "2024-03-01T00:30:00", cet, "20240229T233000Z"},
		{"explicit offset wins", "2024-03-01T09:00:00+02:00", time.UTC, "20240301T070000Z"},
		{"zulu input", "2024-03-01T09:00:00Z", cet, "20240301T090000Z"},
		{"without seconds", "2024-03-01T09:15", time.UTC, "20240301T091500Z"},
		{"milliseconds", "2024-03-01T09:15:00.000", time.UTC, "20240301T091500Z"},
		{"space separator", "2024-03-01 18:45:10", time.UTC, "20240301T184510Z"},
		{"date only", "2024-03-01", time.UTC, "20240301T000000Z"},
		{"trimmed", "  2024-03-01T09:00:00 ", time.UTC, "20240301T090000Z"},
		{"empty", "", time.UTC, ""},
		{"garbage", "next tuesday", time.UTC, ""},
		{"impossible date", "2024-02-30T09:00:00", time.UTC, ""},
		{"impossible time", "2024-03-01T25:00:00", time.UTC, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToZulu(tt.input, tt.loc))
		})
	}
}

func TestToZuluNilLocation(t *testing.T) {
	assert.Equal(t, FormatZulu(time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)), ToZulu("2024-03-01T09:00:00", nil))
}
