package wordle

import "time"

// DateLayout is the ISO calendar date format used for answer lookups and awards
const DateLayout = "2006-01-02"

// Epoch is the date of game number 0
var Epoch = time.Date(2021, time.June, 19, 0, 0, 0, 0, time.UTC)

// DateOf returns the UTC calendar date of a game number. Numbers above
// MaxGameNumber map to the date of MaxGameNumber.
func DateOf(gameNumber uint) time.Time {
	if gameNumber > MaxGameNumber {
		gameNumber = MaxGameNumber
	}
	return Epoch.AddDate(0, 0, int(gameNumber))
}

// DayOf returns the calendar date of a game number as YYYY-MM-DD
func DayOf(gameNumber uint) string {
	return DateOf(gameNumber).Format(DateLayout)
}

// GameNumberOn returns the game number published on the UTC date of t.
// Dates before the epoch map to game 0.
func GameNumberOn(t time.Time) uint {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(Epoch) {
		return 0
	}
	return uint(day.Sub(Epoch).Hours() / 24)
}
