package wordle

import (
	"regexp"
	"strconv"
	"strings"
)

// FailedMarker is the attempts token of an unsolved puzzle
const FailedMarker = "X"

// MaxAttempts is the number of guesses a player gets
const MaxAttempts = 6

// MaxGameNumber is the largest game number accepted in a share header.
// Larger values fall outside the calendar the Day Mapper can represent.
const MaxGameNumber = 99999

// headerPattern matches "Wordle 1,234 3/6" followed by at most one decoration
// rune such as the hard-mode star. The game number is plain digits or groups
// of three separated by "," or ".".
var headerPattern = regexp.MustCompile(`(?i)^wordle\s+([0-9]{1,3}(?:[,.][0-9]{3})+|[0-9]+)\s+([1-6x])/6[^\d\s]?$`)

// numberSeparators are stripped from the game number before parsing.
var numberSeparators = strings.NewReplacer(",", "", ".", "")

// Result is a parsed share message
type Result struct {
	GameNumber uint
	Solved     bool
	Attempts   int    // 0 when the puzzle was not solved
	Pattern    string // emoji grid, empty when the message has none
	ShareText  string
}

// Parse extracts a result from a share message. The second return value is
// false when the text is not a result report.
func Parse(text string) (Result, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{}, false
	}

	lines := strings.Split(trimmed, "\n")
	header := strings.TrimSpace(lines[0])

	match := headerPattern.FindStringSubmatch(header)
	if match == nil {
		return Result{}, false
	}

	gameNumber, err := strconv.ParseUint(numberSeparators.Replace(match[1]), 10, 32)
	if err != nil || gameNumber == 0 || gameNumber > MaxGameNumber {
		return Result{}, false
	}

	result := Result{
		GameNumber: uint(gameNumber),
		ShareText:  trimmed,
	}

	if !strings.EqualFold(match[2], FailedMarker) {
		result.Solved = true
		result.Attempts = int(match[2][0] - '0')
	}

	var grid []string
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line != "" {
			grid = append(grid, line)
		}
	}
	result.Pattern = strings.Join(grid, "\n")

	return result, true
}

// Score renders the attempts the way they appear in a share header: "3" or "X".
func (r Result) Score() string {
	if !r.Solved {
		return FailedMarker
	}
	return strconv.Itoa(r.Attempts)
}
