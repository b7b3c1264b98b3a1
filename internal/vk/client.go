// Package vk is a thin HTTP client for the VK community bot API:
// long-poll session acquisition, update polling and outbound sends.
package vk

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"akvabot/internal/metrics"
)

const (
	apiBase = "https://api.vk.com/method"

	// PollWait is the long-poll hold window in seconds.
	PollWait = 25
)

// Client calls the VK API on behalf of a single community.
type Client struct {
	token   string
	groupID string
	version string
	baseURL string

	apiClient  *http.Client
	pollClient *http.Client
	limiter    *rate.Limiter
	logger     *zerolog.Logger
}

// LongPollServer is the {server, key, ts} descriptor returned by
// groups.getLongPollServer. TS advances as updates are consumed.
type LongPollServer struct {
	Server string `json:"server"`
	Key    string `json:"key"`
	TS     string `json:"ts"`
}

// Update is a single raw long-poll update. Object is left undecoded
// for the normalizer.
type Update struct {
	Type    string          `json:"type"`
	Object  json.RawMessage `json:"object"`
	GroupID int64           `json:"group_id"`
}

// PollResponse is the body of an a_check poll call.
type PollResponse struct {
	TS      string   `json:"ts"`
	Failed  int      `json:"failed"`
	Updates []Update `json:"updates"`
}

type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

// NewClient constructs a client with credentials for one community.
func NewClient(token, groupID, version string, logger *zerolog.Logger) *Client {
	if version == "" {
		version = "5.199"
	}
	return &Client{
		token:     token,
		groupID:   groupID,
		version:   version,
		baseURL:   apiBase,
		apiClient: &http.Client{Timeout: 10 * time.Second},
		// The poll call intentionally blocks for up to PollWait seconds.
		pollClient: &http.Client{Timeout: (PollWait + 10) * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(20), 5),
		logger:     logger,
	}
}

// GetLongPollServer acquires a fresh long-poll descriptor.
func (c *Client) GetLongPollServer(ctx context.Context) (*LongPollServer, error) {
	q := url.Values{}
	q.Set("group_id", c.groupID)
	q.Set("access_token", c.token)
	q.Set("v", c.version)
	endpoint := fmt.Sprintf("%s/groups.getLongPollServer?%s", c.baseURL, q.Encode())

	var wrap struct {
		Response *LongPollServer `json:"response"`
		Error    *apiError       `json:"error"`
	}
	if err := c.doGet(ctx, c.apiClient, endpoint, &wrap); err != nil {
		return nil, err
	}
	if wrap.Error != nil {
		return nil, fmt.Errorf("vk error %d: %s", wrap.Error.Code, wrap.Error.Message)
	}
	if wrap.Response == nil || wrap.Response.Server == "" {
		return nil, fmt.Errorf("empty long poll descriptor")
	}
	return wrap.Response, nil
}

// Poll issues one a_check request against the descriptor using its
// current ts. Server-reported failures come back in PollResponse.Failed,
// not as an error.
func (c *Client) Poll(ctx context.Context, srv *LongPollServer) (*PollResponse, error) {
	q := url.Values{}
	q.Set("act", "a_check")
	q.Set("key", srv.Key)
	q.Set("ts", srv.TS)
	q.Set("wait", fmt.Sprintf("%d", PollWait))
	endpoint := fmt.Sprintf("%s?%s", srv.Server, q.Encode())

	var resp PollResponse
	if err := c.doGet(ctx, c.pollClient, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendMessage posts one outbound message, optionally with a keyboard.
// Send failure is not fatal to a conversation: it logs a warning and
// returns false.
func (c *Client) SendMessage(ctx context.Context, userID int64, text string, kb *Keyboard) bool {
	if err := c.limiter.Wait(ctx); err != nil {
		return false
	}

	form := url.Values{}
	form.Set("user_id", fmt.Sprintf("%d", userID))
	form.Set("message", text)
	form.Set("random_id", fmt.Sprintf("%d", randomID()))
	form.Set("access_token", c.token)
	form.Set("v", c.version)
	if kb != nil {
		data, err := json.Marshal(kb)
		if err == nil {
			form.Set("keyboard", string(data))
		}
	}

	endpoint := fmt.Sprintf("%s/messages.send", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		c.logger.Warn().Err(err).Int64("user_id", userID).Msg("build send request failed")
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.apiClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("user_id", userID).Msg("messages.send transport error")
		metrics.IncSendFailure()
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Warn().Int("status", resp.StatusCode).Int64("user_id", userID).Msg("messages.send non-success status")
		metrics.IncSendFailure()
		return false
	}

	var wrap struct {
		Error *apiError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrap); err == nil && wrap.Error != nil {
		c.logger.Warn().
			Int("code", wrap.Error.Code).
			Str("msg", wrap.Error.Message).
			Int64("user_id", userID).
			Msg("messages.send rejected")
		metrics.IncSendFailure()
		return false
	}
	return true
}

func (c *Client) doGet(ctx context.Context, hc *http.Client, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// randomID produces the messages.send idempotency token.
func randomID() int64 {
	u := uuid.New()
	return int64(binary.BigEndian.Uint32(u[0:4]))
}
