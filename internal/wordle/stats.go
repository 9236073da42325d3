package wordle

import (
	"sort"

	"github.com/example/wordlebot/pkg/models"
)

// Summary aggregates a player's stored results
type Summary struct {
	Played        int
	Solved        int
	CurrentStreak int
	MaxStreak     int
	// Distribution[i] counts puzzles solved in i+1 guesses
	Distribution [MaxAttempts]int
}

// WinRate returns the share of played puzzles that were solved, in percent
func (s Summary) WinRate() int {
	if s.Played == 0 {
		return 0
	}
	return s.Solved * 100 / s.Played
}

// Summarize computes statistics for one player's results. A streak is a run
// of solved puzzles with consecutive game numbers; the current streak is the
// run ending at the most recent game played.
func Summarize(results []models.PuzzleResult) Summary {
	var s Summary
	if len(results) == 0 {
		return s
	}

	sorted := make([]models.PuzzleResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].GameNumber < sorted[j].GameNumber
	})

	streak := 0
	var previous uint
	for _, r := range sorted {
		s.Played++
		if !r.Solved {
			streak = 0
			previous = r.GameNumber
			continue
		}

		s.Solved++
		if n := r.AttemptCount(); n >= 1 && n <= MaxAttempts {
			s.Distribution[n-1]++
		}

		if streak > 0 && r.GameNumber == previous+1 {
			streak++
		} else {
			streak = 1
		}
		if streak > s.MaxStreak {
			s.MaxStreak = streak
		}
		previous = r.GameNumber
	}
	s.CurrentStreak = streak

	return s
}
