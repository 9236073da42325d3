package bot

import (
	"fmt"
	"strings"

	"github.com/example/wordlebot/internal/submission"
	"github.com/example/wordlebot/internal/wordle"
)

const storeFailedText = "⚠️ Sorry, I couldn't save your result right now. Please try again later."

// outcomeReply renders the reply for a submission. The second return value
// is false when the bot should stay silent.
func outcomeReply(out submission.Outcome) (string, bool) {
	switch out.Status {
	case submission.StatusStored:
		return fmt.Sprintf("✅ Saved Wordle %s: %s/6.", formatGameNumber(out.Result.GameNumber), out.Result.Score()), true
	case submission.StatusDuplicate:
		return fmt.Sprintf("You already submitted Wordle %s. Only your first result counts.",
			formatGameNumber(out.Result.GameNumber)), true
	case submission.StatusStoreFailed:
		return storeFailedText, true
	default:
		return "", false
	}
}

func statsText(s wordle.Summary) string {
	var text strings.Builder
	fmt.Fprintf(&text, "📊 Your Wordle stats\n\n")
	fmt.Fprintf(&text, "Played: %d\n", s.Played)
	fmt.Fprintf(&text, "Win %%: %d\n", s.WinRate())
	fmt.Fprintf(&text, "Current streak: %d\n", s.CurrentStreak)
	fmt.Fprintf(&text, "Max streak: %d\n\n", s.MaxStreak)
	fmt.Fprintf(&text, "Guess distribution:\n")
	for i, count := range s.Distribution {
		fmt.Fprintf(&text, "%d: %s %d\n", i+1, strings.Repeat("🟩", min(count, 10)), count)
	}
	return strings.TrimRight(text.String(), "\n")
}

func reminderText(gameNumber uint) string {
	return fmt.Sprintf("⏰ Don't forget today's Wordle %s! Send me your result when you're done.",
		formatGameNumber(gameNumber))
}

// formatGameNumber groups thousands the way the game's share text does: 1,234
func formatGameNumber(n uint) string {
	digits := fmt.Sprint(n)
	if len(digits) <= 3 {
		return digits
	}

	var out strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		out.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if out.Len() > 0 {
			out.WriteByte(',')
		}
		out.WriteString(digits[i : i+3])
	}
	return out.String()
}
