package game

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFinished = errors.New("game already finished")
	ErrRoomClosed   = errors.New("room is closed")
	ErrNoQuestions  = errors.New("no questions available")
)

// Rejections: the command was valid input but not applicable right now.
var (
	ErrNotHost             = errors.New("only the host can do that")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrIdentityMismatch    = errors.New("user mismatch")
	ErrNotAcceptingAnswers = errors.New("not accepting answers")
	ErrAlreadyAnswered     = errors.New("already answered this question")
	ErrUnknownPlayer       = errors.New("player is not in this game")
	ErrInvalidOption       = errors.New("option index out of range")
)

var rejections = []error{
	ErrNotHost,
	ErrIdentityMismatch,
	ErrNotAcceptingAnswers,
	ErrAlreadyAnswered,
	ErrUnknownPlayer,
	ErrInvalidOption,
	ErrGameAlreadyStarted,
}

// IsRejection reports whether err means the command was inapplicable rather than failed.
// Rejections go back to the issuing connection only and never change room state.
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
