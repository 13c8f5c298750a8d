// Package net talks to the drawing backend: accounts, saved drawings and
// backend discovery on the local network.
package net

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"pkt.systems/pslog"

	"Exacldraw/internal/logx"
)

var (
	// ErrUnauthorized is returned when the backend rejects the credentials or
	// the token.
	ErrUnauthorized = errors.New("net: unauthorized")
	// ErrNoToken is returned by calls that need a signed-in user.
	ErrNoToken = errors.New("net: not signed in")
)

// StatusError is an unexpected HTTP status from the backend.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("net: %s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("net: %s: unexpected status %d: %s", e.Op, e.Status, e.Body)
}

// Unwrap maps 401 and 403 onto ErrUnauthorized.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// Drawing is a saved drawing as listed by the backend.
type Drawing struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	FilePath string `json:"filePath"`
}

// ClientOptions configure a Client.
type ClientOptions struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	RetryMax int
	// RetryWaitMin and RetryWaitMax bound the backoff between retries.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       pslog.Logger
}

// Client is a backend API client. It is safe for concurrent use.
type Client struct {
	base *url.URL
	http *retryablehttp.Client
	log  pslog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient validates the base URL and builds a retrying HTTP client.
func NewClient(opts ClientOptions) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("net: backend base url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("net: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("net: base url %q must be http or https", raw)
	}
	logger := logx.WithComponent(opts.Logger, "backend")

	hc := retryablehttp.NewClient()
	hc.Logger = leveled{logger}
	hc.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		hc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		hc.RetryWaitMax = opts.RetryWaitMax
	}
	hc.CheckRetry = retryPolicy
	hc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Timeout > 0 {
		hc.HTTPClient.Timeout = opts.Timeout
	}

	return &Client{
		base:  base,
		token: strings.TrimSpace(opts.Token),
		http:  hc,
		log:   logger.With("backend", base.String()),
	}, nil
}

// retryPolicy retries reads on server errors but never resends a write the
// backend has answered.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp != nil && resp.Request != nil && resp.Request.Method != http.MethodGet {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.base.String() }

// Token returns the bearer token, empty when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// SignUp creates an account and returns its token, which the client keeps.
func (c *Client) SignUp(ctx context.Context, email, password, username string) (string, error) {
	return c.authenticate(ctx, "signup", "/api/signup", http.StatusCreated,
		credentials{Email: email, Password: password, Username: username})
}

// SignIn logs in and returns the token, which the client keeps.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "signin", "/api/signin", http.StatusOK,
		credentials{Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, op, p string, want int, creds credentials) (string, error) {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return "", fmt.Errorf("net: %s: email and password are required", op)
	}
	body, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("net: %s: %w", op, err)
	}
	var out tokenResponse
	if err := c.do(ctx, op, http.MethodPost, p, "application/json", body, false, want, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("net: %s: response carries no token", op)
	}
	c.SetToken(out.Token)
	c.log.Info("signed in", "op", op, "email", creds.Email)
	return out.Token, nil
}

// ListDrawings returns the signed-in user's saved drawings.
func (c *Client) ListDrawings(ctx context.Context) ([]Drawing, error) {
	var out []Drawing
	if err := c.do(ctx, "list drawings", http.MethodGet, "/api/drawings", "", nil, true, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveDrawing uploads a PNG under the given name.
func (c *Client) SaveDrawing(ctx context.Context, name string, png []byte) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("net: save drawing: name is required")
	}
	if len(png) == 0 {
		return errors.New("net: save drawing: empty image")
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="drawing"; filename="drawing.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("net: save drawing: %w", err)
	}
	if _, err := part.Write(png); err != nil {
		return fmt.Errorf("net: save drawing: %w", err)
	}
	if err := mw.WriteField("name", name); err != nil {
		return fmt.Errorf("net: save drawing: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("net: save drawing: %w", err)
	}
	if err := c.do(ctx, "save drawing", http.MethodPost, "/api/drawing", mw.FormDataContentType(), body.Bytes(), true, http.StatusCreated, nil); err != nil {
		return err
	}
	c.log.Info("drawing saved", "name", name, "bytes", len(png))
	return nil
}

// ImageURL is where the backend serves the image of d.
func (c *Client) ImageURL(d Drawing) string {
	file := path.Base(strings.ReplaceAll(d.FilePath, `\`, "/"))
	u := *c.base
	u.Path = path.Join("/", u.Path, "uploads", file)
	return u.String()
}

func (c *Client) do(ctx context.Context, op, method, p, contentType string, body []byte, auth bool, want int, out any) error {
	token := c.Token()
	if auth && token == "" {
		return ErrNoToken
	}
	u := *c.base
	u.Path = path.Join("/", u.Path, p)

	var raw any
	if body != nil {
		raw = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u.String(), raw)
	if err != nil {
		return fmt.Errorf("net: %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("net: %s: %w", op, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("net: %s: read response: %w", op, err)
	}
	if resp.StatusCode != want {
		serr := &StatusError{Op: op, Status: resp.StatusCode, Body: snippet(data)}
		if errors.Is(serr, ErrUnauthorized) {
			c.log.Warn("backend rejected credentials", "op", op, "status", resp.StatusCode)
		}
		return serr
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("net: %s: decode response: %w", op, err)
	}
	return nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// leveled adapts pslog to retryablehttp.LeveledLogger.
type leveled struct {
	l pslog.Logger
}

func (l leveled) Error(msg string, kv ...any) { l.l.Error(msg, kv...) }
func (l leveled) Info(msg string, kv ...any)  { l.l.Info(msg, kv...) }
func (l leveled) Debug(msg string, kv ...any) { l.l.Debug(msg, kv...) }
func (l leveled) Warn(msg string, kv ...any)  { l.l.Warn(msg, kv...) }
