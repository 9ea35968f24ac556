package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"snackhub/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const requestTimeout = 15 * time.Second

// Default outbound budget when the config leaves it unset.
const (
	defaultRate  = rate.Limit(20)
	defaultBurst = 40
)

// Client talks JSON to the portal backend. The session cookie is carried by
// the jar; credentials themselves never pass through this package.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

// WithRate overrides the outbound request budget.
func WithRate(r float64, burst int) Option {
	return func(c *Client) {
		if r > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(r), burst)
		}
	}
}

// WithHTTPClient swaps the underlying http.Client. The cookie jar is kept
// unless the replacement carries its own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc.Jar == nil {
			hc.Jar = c.httpClient.Jar
		}
		c.httpClient = hc
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: missing scheme or host", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(defaultRate, defaultBurst),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

type errorBody struct {
	Message string `json:"message"`
}

// do issues one request. There is never an automatic retry: approval-style
// mutations must not be silently duplicated.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqID := logger.RequestIDFrom(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
		ctx = logger.WithRequestID(ctx, reqID)
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "remote"),
		zap.String("method", method),
		zap.String("path", path),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Kind: ErrNetwork, Message: err.Error(), RequestID: reqID}
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			log.Error("failed to marshal request body", zap.Error(err))
			return &Error{Kind: ErrValidation, Message: err.Error(), RequestID: reqID}
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return &Error{Kind: ErrValidation, Message: err.Error(), RequestID: reqID}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed", zap.Error(err))
		return &Error{Kind: ErrNetwork, Message: err.Error(), RequestID: reqID}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read response body", zap.Error(err))
		return &Error{Kind: ErrNetwork, Message: err.Error(), RequestID: reqID}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(respBytes, &eb)
		if eb.Message == "" {
			eb.Message = strings.TrimSpace(string(respBytes))
		}

		log.Warn("backend returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("response", eb.Message),
		)

		return &Error{
			Kind:      kindForStatus(resp.StatusCode),
			Status:    resp.StatusCode,
			Message:   eb.Message,
			RequestID: reqID,
		}
	}

	if out != nil && len(respBytes) > 0 {
		if err := json.Unmarshal(respBytes, out); err != nil {
			log.Error("failed to decode response", zap.Error(err))
			return &Error{
				Kind:      ErrServer,
				Status:    resp.StatusCode,
				Message:   fmt.Sprintf("malformed response: %v", err),
				RequestID: reqID,
			}
		}
	}

	log.Debug("request completed", zap.Int("status", resp.StatusCode))
	return nil
}
