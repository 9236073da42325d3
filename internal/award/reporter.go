package award

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/wordlebot/internal/config"
)

// ErrAwardDeliveryFailed is returned when the rewards service rejected or
// never received an award
var ErrAwardDeliveryFailed = errors.New("award delivery failed")

// TokenHeader carries the shared bot token
const TokenHeader = "X-Bot-Token"

// awardPath is appended to the configured base URL
const awardPath = "/api/wordle/award"

// Delivery describes what happened to an award
type Delivery int

const (
	// DeliveryNone means no award was attempted
	DeliveryNone Delivery = iota
	// DeliverySkipped means the rewards service is not configured
	DeliverySkipped
	// DeliveryDelivered means the rewards service accepted the award
	DeliveryDelivered
)

func (d Delivery) String() string {
	switch d {
	case DeliverySkipped:
		return "skipped"
	case DeliveryDelivered:
		return "delivered"
	default:
		return "none"
	}
}

// Score is a solved attempt count, or a failure when Solved is false
type Score struct {
	Solved   bool
	Attempts int
}

// MarshalJSON encodes the attempts as a number, or "X" for a failed puzzle
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Solved {
		return []byte(`"X"`), nil
	}
	return []byte(strconv.Itoa(s.Attempts)), nil
}

// Award is the scoring event sent for a first-time submission
type Award struct {
	UserID string `json:"telegram_user_id"`
	Day    string `json:"wordle_day"`
	Answer string `json:"answer"`
	Score  Score  `json:"score"`
}

// Reporter posts awards to the rewards service
type Reporter struct {
	endpoint   string
	token      string
	enabled    bool
	httpClient *http.Client
}

// NewReporter creates a reporter. An unconfigured reporter skips every award.
func NewReporter(cfg config.AwardConfig) *Reporter {
	return &Reporter{
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + awardPath,
		token:      cfg.Token,
		enabled:    cfg.Enabled(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Report sends one award. It never retries.
func (r *Reporter) Report(ctx context.Context, award Award) (Delivery, error) {
	if !r.enabled {
		return DeliverySkipped, nil
	}

	payload, err := json.Marshal(award)
	if err != nil {
		return DeliveryNone, fmt.Errorf("%w: failed to marshal award: %v", ErrAwardDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return DeliveryNone, fmt.Errorf("%w: failed to create request: %v", ErrAwardDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(TokenHeader, r.token)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return DeliveryNone, fmt.Errorf("%w: failed to send request: %v", ErrAwardDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return DeliveryNone, fmt.Errorf("%w: status %d: %s", ErrAwardDeliveryFailed,
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return DeliveryDelivered, nil
}
