// Package client talks to the latestview server's HTTP API.
// Client implements store.MessageStore so the client-side flows can treat the
// remote table like any other message store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/latestview/internal/proto"
	"github.com/vovakirdan/latestview/internal/store"
)

const maxResponseBytes = 1 << 20

// APIError is returned for non-2xx responses.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client is an HTTP client for the message API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) { c.log = logger }
}

// New creates a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http or https, got %q", baseURL)
	}

	nop := zerolog.Nop()
	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: 10 * time.Second},
		userAgent: "latestview",
		log:       &nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetMessage returns the room's message, or nil when it has none.
func (c *Client) GetMessage(ctx context.Context, roomID string) (*store.Message, error) {
	var resp proto.MessageResponse
	if err := c.do(ctx, http.MethodGet, roomPath(roomID, "message"), nil, nil, &resp); err != nil {
		return nil, err
	}
	return messageFromProto(resp.Message), nil
}

// UpsertMessage replaces the room's message.
func (c *Client) UpsertMessage(ctx context.Context, roomID, text string) (*store.Message, error) {
	var resp proto.MessageResponse
	body := proto.UpsertRequest{Text: text}
	if err := c.do(ctx, http.MethodPut, roomPath(roomID, "message"), nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.Message == nil {
		return nil, errors.New("upsert response carried no message")
	}
	return messageFromProto(resp.Message), nil
}

// LatestMessage returns the newest message, optionally filtered by room.
func (c *Client) LatestMessage(ctx context.Context, roomID string) (*store.Message, error) {
	var query url.Values
	if roomID != "" {
		query = url.Values{"room_id": []string{roomID}}
	}

	var resp proto.MessageResponse
	if err := c.do(ctx, http.MethodGet, "/api/messages/latest", query, nil, &resp); err != nil {
		return nil, err
	}
	return messageFromProto(resp.Message), nil
}

// RoomExists reports whether the room already has a message.
func (c *Client) RoomExists(ctx context.Context, roomID string) (bool, error) {
	var resp proto.RoomResponse
	if err := c.do(ctx, http.MethodGet, roomPath(roomID, ""), nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// Health checks that the server is reachable.
func (c *Client) Health(ctx context.Context) (*proto.HealthResponse, error) {
	var resp proto.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api request")

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errResp proto.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	endpoint := c.baseURL.String() + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

// roomPath builds /api/rooms/{room}[/suffix] with the room id escaped as one segment.
func roomPath(roomID, suffix string) string {
	p := "/api/rooms/" + url.PathEscape(roomID)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

func messageFromProto(m *proto.Message) *store.Message {
	if m == nil {
		return nil
	}
	return &store.Message{
		RoomID:    m.RoomID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}
