package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/stockalert/pkg/logger"
	"github.com/dmitrymomot/stockalert/pkg/notifications"
)

const defaultTimeout = 10 * time.Second

// Client talks to the remote notification service. It implements
// notifications.Backend.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithBearerToken sends token in the Authorization header.
func WithBearerToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ notifications.Backend = (*Client)(nil)

// List fetches notifications. Unread only unless includeRead is set.
func (c *Client) List(ctx context.Context, includeRead bool) ([]notifications.Notification, error) {
	q := url.Values{"include_read": {strconv.FormatBool(includeRead)}}

	var records []Record
	if err := c.do(ctx, http.MethodGet, "/notifications?"+q.Encode(), nil, &records); err != nil {
		return nil, err
	}

	out := make([]notifications.Notification, 0, len(records))
	for _, r := range records {
		out = append(out, r.Notification())
	}
	return out, nil
}

// MarkRead sets the remote read flag for id.
func (c *Client) MarkRead(ctx context.Context, id string, value bool) error {
	if id == "" {
		return ErrEmptyID
	}
	body := map[string]bool{"is_read": value}
	return c.do(ctx, http.MethodPatch, "/notifications/"+url.PathEscape(id)+"/read", body, nil)
}

// Create registers a locally created notification with the service.
func (c *Client) Create(ctx context.Context, n notifications.Notification) error {
	return c.do(ctx, http.MethodPost, "/notifications", FromNotification(n), nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.logger.LogAttrs(ctx, slog.LevelDebug, "backend request",
		logger.Component("backend"),
		slog.String("method", method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		logger.Duration(time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method:     method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrDecodeResponse, err)
	}
	return nil
}
