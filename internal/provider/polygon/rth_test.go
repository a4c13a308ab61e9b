package polygon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInRegularHours(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"open EST", time.Date(2024, 1, 9, 14, 30, 0, 0, time.UTC), true},
		{"before open EST", time.Date(2024, 1, 9, 14, 29, 0, 0, time.UTC), false},
		{"last minute EST", time.Date(2024, 1, 9, 20, 59, 0, 0, time.UTC), true},
		{"close EST", time.Date(2024, 1, 9, 21, 0, 0, 0, time.UTC), false},
		{"open EDT", time.Date(2024, 7, 9, 13, 30, 0, 0, time.UTC), true},
		{"close EDT", time.Date(2024, 7, 9, 20, 0, 0, 0, time.UTC), false},
		{"saturday", time.Date(2024, 7, 13, 15, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InRegularHours(tt.at))
		})
	}
}
