// Package client talks to the foxd daemon REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/P8labs/foxctl/model"
)

// Client is immutable once created and safe for concurrent use. Each call is
// a single request: no retries, no de-duplication of in-flight calls.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

type Option func(*options)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithTimeout bounds every request, 0 means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errEmptyBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	var hc *http.Client
	if o.httpClient == nil {
		hc = &http.Client{Timeout: o.timeout}
	} else if o.timeout > 0 {
		copied := *o.httpClient
		copied.Timeout = o.timeout
		hc = &copied
	} else {
		hc = o.httpClient
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  logger,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Health(ctx context.Context) (*model.HealthResponse, error) {
	var health model.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) Devices(ctx context.Context) (*model.DevicesResponse, error) {
	var devices model.DevicesResponse
	if err := c.do(ctx, http.MethodGet, "/devices", nil, &devices); err != nil {
		return nil, err
	}
	return &devices, nil
}

func (c *Client) Device(ctx context.Context, mac string) (*model.Device, error) {
	var device model.Device
	if err := c.do(ctx, http.MethodGet, devicePath(mac), nil, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// UpdateDeviceNickname sets the nickname of the device, or clears it when
// nickname is nil.
func (c *Client) UpdateDeviceNickname(ctx context.Context, mac string, nickname *string) (*model.Device, error) {
	var device model.Device
	body := model.NicknameRequest{Nickname: nickname}
	if err := c.do(ctx, http.MethodPost, devicePath(mac)+"/nickname", body, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

func (c *Client) Rules(ctx context.Context) (*model.RulesResponse, error) {
	var rules model.RulesResponse
	if err := c.do(ctx, http.MethodGet, "/rules", nil, &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (c *Client) Rule(ctx context.Context, id int64) (*model.Rule, error) {
	var rule model.Rule
	if err := c.do(ctx, http.MethodGet, rulePath(id), nil, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (c *Client) CreateRule(ctx context.Context, req model.RuleRequest) (*model.Rule, error) {
	var rule model.Rule
	if err := c.do(ctx, http.MethodPost, "/rules", req, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// UpdateRule sends only the fields set in update.
func (c *Client) UpdateRule(ctx context.Context, id int64, update model.RuleUpdate) (*model.Rule, error) {
	var rule model.Rule
	if err := c.do(ctx, http.MethodPut, rulePath(id), update, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (c *Client) DeleteRule(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, rulePath(id), nil, nil)
}

func (c *Client) Config(ctx context.Context) (*model.Config, error) {
	var cfg model.Config
	if err := c.do(ctx, http.MethodGet, "/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateConfig sends only the keys set in update.
func (c *Client) UpdateConfig(ctx context.Context, update model.ConfigUpdate) (*model.Config, error) {
	var cfg model.Config
	if err := c.do(ctx, http.MethodPost, "/config", update, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) Metrics(ctx context.Context) (*model.Metrics, error) {
	var metrics model.Metrics
	if err := c.do(ctx, http.MethodGet, "/metrics", nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// RestartDaemon only waits for the acknowledgment, not for the restart.
func (c *Client) RestartDaemon(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/restart", nil, nil)
}

func (c *Client) Logs(ctx context.Context) (*model.LogsResponse, error) {
	var logs model.LogsResponse
	if err := c.do(ctx, http.MethodGet, "/logs", nil, &logs); err != nil {
		return nil, err
	}
	return &logs, nil
}

func (c *Client) do(ctx context.Context, method string, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %v %v request: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create %v %v request: %w", method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "endpoint", endpoint, "error", err)
		// transport errors are surfaced as they are
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return &APIError{Status: resp.StatusCode, Body: string(text)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %v %v response: %w", method, endpoint, err)
	}
	return nil
}

// devicePath escapes mac as a whole path segment, colons included.
func devicePath(mac string) string {
	return "/devices/" + strings.ReplaceAll(url.PathEscape(mac), ":", "%3A")
}

func rulePath(id int64) string {
	return "/rules/" + strconv.FormatInt(id, 10)
}
