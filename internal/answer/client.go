package answer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/example/wordlebot/internal/config"
)

// ErrAnswerUnavailable is returned when the day's solution could not be fetched
var ErrAnswerUnavailable = errors.New("answer unavailable")

// Client fetches the canonical Wordle solution for a date
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// response is the body of GET {base}/{date}.json
type response struct {
	Solution string `json:"solution"`
}

// NewClient creates a new answer service client
func NewClient(cfg config.AnswerConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Resolve returns the lowercase solution for a YYYY-MM-DD date
func (c *Client) Resolve(ctx context.Context, date string) (string, error) {
	url := fmt.Sprintf("%s/%s.json", c.baseURL, date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrAnswerUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to send request: %v", ErrAnswerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: unexpected status %d for %s", ErrAnswerUnavailable, resp.StatusCode, date)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrAnswerUnavailable, err)
	}

	solution := strings.ToLower(strings.TrimSpace(body.Solution))
	if solution == "" {
		return "", fmt.Errorf("%w: response for %s has no solution", ErrAnswerUnavailable, date)
	}

	return solution, nil
}
