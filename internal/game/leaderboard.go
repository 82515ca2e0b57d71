package game

import (
	"slices"

	"quizstorm/internal/model"
)

// PlayerScore is the input row of the leaderboard, in join order
type PlayerScore struct {
	PlayerID    string
	DisplayName string
	Score       int
}

// BuildLeaderboard ranks players by score, highest first. Equal scores keep input order.
func BuildLeaderboard(players []PlayerScore) []model.Standing {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b PlayerScore) int {
		return b.Score - a.Score
	})

	board := make([]model.Standing, len(sorted))
	for i, p := range sorted {
		board[i] = model.Standing{
			PlayerID:    p.PlayerID,
			DisplayName: p.DisplayName,
			Score:       p.Score,
			Rank:        i + 1,
		}
	}
	return board
}

// Winner is the top of the board, or nil for an empty game
func Winner(board []model.Standing) *model.Standing {
	if len(board) == 0 {
		return nil
	}
	w := board[0]
	return &w
}
