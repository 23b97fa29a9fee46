package autoplay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wricardo/domination/game/engine"
	"github.com/wricardo/domination/game/match"
	"github.com/wricardo/domination/game/service"
)

// ErrRequestFailed is returned when the API answers with a non-2xx status
var ErrRequestFailed = errors.New("api request failed")

// Client talks to the match REST API
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%w: %s %s: %s (%d)", ErrRequestFailed, method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%w: %s %s: %s", ErrRequestFailed, method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func matchPath(matchID, suffix string) string {
	return "/api/matches/" + url.PathEscape(matchID) + suffix
}

// CreateMatch starts a match on the named arena, or the server default when arena is empty
func (c *Client) CreateMatch(ctx context.Context, arena string) (*service.MatchInfo, error) {
	var info service.MatchInfo
	body := map[string]string{"config_id": arena}
	if err := c.do(ctx, http.MethodPost, "/api/matches", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Match fetches the current state of a match
func (c *Client) Match(ctx context.Context, matchID string) (*service.MatchInfo, error) {
	var info service.MatchInfo
	if err := c.do(ctx, http.MethodGet, matchPath(matchID, ""), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Tick advances a match once
func (c *Client) Tick(ctx context.Context, matchID string) (*service.TickResult, error) {
	var result service.TickResult
	if err := c.do(ctx, http.MethodPost, matchPath(matchID, "/tick"), map[string]int{"count": 1}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Capture claims a tile
func (c *Client) Capture(ctx context.Context, matchID string, pos engine.Position) (*match.CaptureResult, error) {
	var result match.CaptureResult
	if err := c.do(ctx, http.MethodPost, matchPath(matchID, "/captures"), pos, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Stun freezes an enemy
func (c *Client) Stun(ctx context.Context, matchID, enemy string) (*engine.ScoreSummary, error) {
	var score engine.ScoreSummary
	if err := c.do(ctx, http.MethodPost, matchPath(matchID, "/stuns"), map[string]string{"enemy": enemy}, &score); err != nil {
		return nil, err
	}
	return &score, nil
}

// Finish finalizes the score sheet
func (c *Client) Finish(ctx context.Context, matchID string) (*engine.ScoreSummary, error) {
	var score engine.ScoreSummary
	if err := c.do(ctx, http.MethodPost, matchPath(matchID, "/finish"), nil, &score); err != nil {
		return nil, err
	}
	return &score, nil
}

// Score returns the current score sheet
func (c *Client) Score(ctx context.Context, matchID string) (*engine.ScoreSummary, error) {
	var score engine.ScoreSummary
	if err := c.do(ctx, http.MethodGet, matchPath(matchID, "/score"), nil, &score); err != nil {
		return nil, err
	}
	return &score, nil
}
