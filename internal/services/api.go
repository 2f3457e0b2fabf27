// HTTP client wrapper for the Parle API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/parle/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries a per-request uuid.
	RequestIDHeader = "X-Request-ID"
)

// TokenStore is the persisted bearer token read before each request.
type TokenStore interface {
	Load() (string, error)
	Clear() error
}

// UnauthorizedHandler is called after a 401 response, once the persisted token has been cleared.
type UnauthorizedHandler func(ctx context.Context, err *APIError)

// APIOpts contains configuration options for creating an [APIService].
type APIOpts struct {
	BaseURL    string
	HTTPClient *http.Client  // defaults to a client with Timeout
	Timeout    time.Duration // ignored when HTTPClient is set
	Tokens     TokenStore    // nil sends unauthenticated requests
	RateLimit  float64       // requests per second, 0 disables
	Logger     *log.Logger
}

// APIService wraps an [http.Client] bound to one base URL.
//
// Every request gets the stored bearer token, a JSON Accept header and a request ID.
// Non-2xx responses are returned as [*APIError]; a 401 additionally clears the stored
// token and fires the registered [UnauthorizedHandler]s before the error is returned.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	limiter    *rate.Limiter
	logger     *log.Logger

	mu             sync.RWMutex
	onUnauthorized []UnauthorizedHandler
}

// NewAPIService creates a new API service instance for the Parle API.
func NewAPIService(opts APIOpts) *APIService {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &APIService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		tokens:     opts.Tokens,
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

// BaseURL returns the normalized base URL.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// OnUnauthorized registers h to run after every 401 response.
func (a *APIService) OnUnauthorized(h UnauthorizedHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onUnauthorized = append(a.onUnauthorized, h)
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Decode unmarshals the body into out. Empty bodies leave out untouched.
func (r *APIResponse) Decode(out any) error {
	if out == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string // server-supplied "detail", may be empty
	Body       []byte
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap lets errors.Is match [shared.ErrAPIRequest] and, by status, [shared.ErrUnauthorized] or [shared.ErrNotFound].
func (e *APIError) Unwrap() []error {
	errs := []error{shared.ErrAPIRequest}
	switch e.StatusCode {
	case http.StatusUnauthorized:
		errs = append(errs, shared.ErrUnauthorized)
	case http.StatusNotFound:
		errs = append(errs, shared.ErrNotFound)
	}
	return errs
}

// ErrorDetail returns the server detail carried by err, or fallback when there is none.
func ErrorDetail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// parseDetail extracts "detail" as sent by FastAPI: a string, or a list of validation errors.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return string(envelope.Detail)
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.send(ctx, http.MethodGet, path, nil, nil, "")
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.send(ctx, http.MethodPost, path, nil, data, "application/json")
}

// DoJSON sends in (when non-nil) as JSON and decodes the response into out (when non-nil).
func (a *APIService) DoJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body []byte
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = data
		contentType = "application/json"
	}

	resp, err := a.send(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// PostForm sends form as application/x-www-form-urlencoded and decodes the response into out.
func (a *APIService) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	resp, err := a.send(ctx, http.MethodPost, path, nil, []byte(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// FormFile is one file part of a multipart upload.
type FormFile struct {
	Field       string
	Filename    string
	ContentType string // guessed from the extension when empty
	Content     io.Reader
}

func (f FormFile) header() textproto.MIMEHeader {
	contentType := f.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(f.Filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, filepath.Base(f.Filename)))
	h.Set("Content-Type", contentType)
	return h
}

// Upload sends fields and files as multipart/form-data and decodes the response into out.
func (a *APIService) Upload(ctx context.Context, path string, fields map[string]string, files []FormFile, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreatePart(f.header())
		if err != nil {
			return fmt.Errorf("failed to create form file %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return fmt.Errorf("failed to copy %s: %w", f.Filename, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	resp, err := a.send(ctx, http.MethodPost, path, nil, buf.Bytes(), mw.FormDataContentType())
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (a *APIService) send(ctx context.Context, method, path string, query url.Values, body []byte, contentType string) (*APIResponse, error) {
	fullURL := a.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, shared.GenerateID())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	a.authorize(req)

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", shared.ErrAPIRequest, err)
		}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	a.logger.Debug("api request", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(data),
			Body:       data,
		}
		if resp.StatusCode == http.StatusUnauthorized {
			a.unauthorized(ctx, apiErr)
		}
		return apiResp, apiErr
	}

	return apiResp, nil
}

// authorize sets the bearer header from the token store. A failing store sends the request anonymously.
func (a *APIService) authorize(req *http.Request) {
	if a.tokens == nil {
		return
	}
	token, err := a.tokens.Load()
	if err != nil {
		a.logger.Warn("failed to read stored token", "error", err)
		return
	}
	if token == "" {
		return
	}
	(&oauth2.Token{AccessToken: token}).SetAuthHeader(req)
}

func (a *APIService) unauthorized(ctx context.Context, apiErr *APIError) {
	if a.tokens != nil {
		if err := a.tokens.Clear(); err != nil {
			a.logger.Warn("failed to clear stored token", "error", err)
		}
	}

	a.mu.RLock()
	handlers := append([]UnauthorizedHandler(nil), a.onUnauthorized...)
	a.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, apiErr)
	}
}
