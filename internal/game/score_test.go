package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePoints(t *testing.T) {
	tests := []struct {
		name      string
		sub       *Submission
		timeLimit int
		want      int
	}{
		{"no answer", nil, 20, 0},
		{"wrong answer", &Submission{OptionIndex: 1, TimeRemaining: 20}, 20, 0},
		{"instant", &Submission{OptionIndex: 2, TimeRemaining: 20}, 20, 1000},
		{"last moment", &Submission{OptionIndex: 2, TimeRemaining: 0}, 20, 500},
		{"three quarters left", &Submission{OptionIndex: 2, TimeRemaining: 15}, 20, 875},
		{"rounds half up", &Submission{OptionIndex: 2, TimeRemaining: 1}, 30, 517},
		{"untimed", &Submission{OptionIndex: 2, TimeRemaining: 0}, 0, 1000},
		{"untimed wrong", &Submission{OptionIndex: 0}, 0, 0},
		{"clamped above", &Submission{OptionIndex: 2, TimeRemaining: 25}, 20, 1000},
		{"clamped below", &Submission{OptionIndex: 2, TimeRemaining: -3}, 20, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculatePoints(tt.sub, 2, tt.timeLimit))
		})
	}
}
