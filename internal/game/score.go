package game

import "math"

const (
	MaxPoints        = 1000
	MinCorrectPoints = 500
)

// Submission is a recorded answer. TimeRemaining is the server countdown when it arrived.
type Submission struct {
	OptionIndex   int
	TimeRemaining int
}

// CalculatePoints scores one player's submission for one question.
// sub is nil when the player did not answer.
func CalculatePoints(sub *Submission, correctOption, timeLimitSeconds int) int {
	if sub == nil || sub.OptionIndex != correctOption {
		return 0
	}
	if timeLimitSeconds <= 0 {
		return MaxPoints
	}

	ratio := float64(sub.TimeRemaining) / float64(timeLimitSeconds)
	ratio = math.Max(0, math.Min(1, ratio))

	decay := float64(MaxPoints - MinCorrectPoints)
	return int(math.Round(MinCorrectPoints + decay*ratio))
}
