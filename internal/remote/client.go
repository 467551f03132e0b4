package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"RoomEditor/internal/logger"
	"RoomEditor/internal/scene"

	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second

	// maxBody bounds how much of a response is read.
	maxBody = 16 << 20
)

// Client loads and saves scenes on the external scene endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request. Zero disables the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the scene stored under id.
func (c *Client) Load(ctx context.Context, id string) (scene.Scene, error) {
	body, status, err := c.do(ctx, http.MethodGet, id, nil)
	if err != nil {
		return scene.Scene{}, &NetworkError{Op: "load", SceneID: id, Status: status, Err: err}
	}
	s, err := scene.Decode(body)
	if err != nil {
		return scene.Scene{}, &NetworkError{Op: "load", SceneID: id, Status: status, Err: err}
	}
	logger.Log.Info("Scene loaded from endpoint",
		zap.String("scene", id),
		zap.Int("floors", len(s.Floors)),
		zap.Int("furniture", s.FurnitureCount()))
	return s, nil
}

// Save replaces the scene stored under id.
func (c *Client) Save(ctx context.Context, id string, s scene.Scene) error {
	data, err := scene.Encode(s)
	if err != nil {
		return &NetworkError{Op: "save", SceneID: id, Err: err}
	}
	if _, status, err := c.do(ctx, http.MethodPut, id, data); err != nil {
		return &NetworkError{Op: "save", SceneID: id, Status: status, Err: err}
	}
	logger.Log.Info("Scene saved to endpoint", zap.String("scene", id), zap.Int("bytes", len(data)))
	return nil
}

func (c *Client) do(ctx context.Context, method, id string, payload []byte) ([]byte, int, error) {
	if id == "" {
		return nil, 0, errors.New("empty scene id")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/scenes/"+url.PathEscape(id), body)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Log.Warn("Scene endpoint unreachable",
			zap.String("method", method),
			zap.String("scene", id),
			zap.Error(err))
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(data)))
	}
	return data, resp.StatusCode, nil
}
