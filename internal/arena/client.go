package arena

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// The backend occasionally reports its own upstream timeouts as a 500
// with this exact message; those are transient and worth retrying.
const serverTimeoutMessage = "timeout exceeded when trying to connect"

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/237.84.2.178 Safari/537.36"

type Config struct {
	BaseURL string
	Origin  string
	// Per-attempt request timeout; reset on every retry.
	Timeout       time.Duration
	RetryMax      int
	RetryBackoff  time.Duration
	SessionTypeID int
}

// Client is a typed gateway over the arena HTTP API. Connection
// timeouts (client-side or server-reported) are retried with a linearly
// increasing capped delay; every other error goes back to the caller
// untouched.
type Client struct {
	cfg   Config
	inner *http.Client
	// Injectable for tests; sleeps between retry attempts.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 5 * time.Second
	}
	if cfg.SessionTypeID == 0 {
		cfg.SessionTypeID = 1
	}
	return &Client{
		cfg:   cfg,
		inner: &http.Client{},
		sleep: sleepCtx,
	}
}

func (c *Client) FetchUserStats(ctx context.Context, userID int64) (UserStats, error) {
	var stats UserStats
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api3/rewards/fractal/user/%d", userID), "", nil, &stats)
	return stats, err
}

func (c *Client) ListAgents(ctx context.Context, userID int64, token string) ([]Agent, error) {
	var agents []Agent
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api3/agents/user/%d", userID), token, nil, &agents)
	return agents, err
}

func (c *Client) InitiateSession(ctx context.Context, userID, agentID int64, entryFee float64, token string) (MatchHandle, error) {
	body := map[string]any{
		"userId":        userID,
		"agentId":       agentID,
		"entryFees":     entryFee,
		"sessionTypeId": c.cfg.SessionTypeID,
	}
	var handle MatchHandle
	err := c.do(ctx, http.MethodPost, "/api3/matchmaking/initiate", token, body, &handle)
	return handle, err
}

func (c *Client) FetchSessionDetail(ctx context.Context, matchmakingID int64) (MatchStatus, error) {
	var status MatchStatus
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api3/matchmaking/detail/%d", matchmakingID), "", nil, &status)
	return status, err
}

func (c *Client) FetchNonce(ctx context.Context) (string, error) {
	var out struct {
		Nonce string `json:"nonce"`
	}
	if err := c.do(ctx, http.MethodGet, "/api3/auth/nonce", "", nil, &out); err != nil {
		return "", err
	}
	if out.Nonce == "" {
		return "", fmt.Errorf("%w: nonce missing", ErrMalformed)
	}
	return out.Nonce, nil
}

func (c *Client) VerifySignature(ctx context.Context, message, signature string) (AuthResult, error) {
	body := map[string]any{
		"message":      message,
		"signature":    signature,
		"referralCode": nil,
	}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api3/auth/verify", "", body, &out); err != nil {
		return AuthResult{}, err
	}
	if out.AccessToken == "" {
		return AuthResult{}, fmt.Errorf("%w: accessToken missing", ErrMalformed)
	}
	return out, nil
}

// do runs one logical request, retrying transient timeouts up to the
// configured cap with delay attempt*backoff. Business errors are never
// retried here.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var raw []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		raw = encoded
	}

	for attempt := 0; ; attempt++ {
		status, respBody, err := c.send(ctx, method, path, token, raw)
		switch {
		case err != nil:
			if !isTimeout(err) {
				return err
			}
		case status == http.StatusUnauthorized:
			return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
		case status == http.StatusNotFound:
			return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
		case status >= 400:
			msg := serverMessage(respBody)
			if msg != serverTimeoutMessage {
				return &RemoteError{Status: status, Message: msg}
			}
			err = &RemoteError{Status: status, Message: msg}
		default:
			if out == nil || len(respBody) == 0 {
				return nil
			}
			if uerr := json.Unmarshal(respBody, out); uerr != nil {
				return fmt.Errorf("%w: %s %s: %v", ErrMalformed, method, path, uerr)
			}
			return nil
		}

		if attempt >= c.cfg.RetryMax {
			return fmt.Errorf("%s %s: retries exhausted after %d attempts: %w", method, path, attempt+1, err)
		}
		delay := time.Duration(attempt+1) * c.cfg.RetryBackoff
		log.Warn().Err(err).Int("retry", attempt+1).Dur("delay", delay).Str("path", path).Msg("transient timeout, retrying")
		if serr := c.sleep(ctx, delay); serr != nil {
			return serr
		}
	}
}

func (c *Client) send(ctx context.Context, method, path, token string, body []byte) (int, []byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", browserUserAgent)
	if c.cfg.Origin != "" {
		req.Header.Set("Origin", c.cfg.Origin)
		req.Header.Set("Referer", c.cfg.Origin+"/")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}

func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
