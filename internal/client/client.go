// Package client performs the four backend calls behind the document portal:
// register, login, upload and search. Each call is a single round trip.
//
// Failures come back as typed errors (*TransportError, *DecodeError) so the
// caller decides how to present them; Operation.Fallback gives the text the
// portal shows. A backend that answers with an error status but a JSON body
// is not a failure here: the decoded body is returned as the result.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"docportal/internal/middleware"
	"docportal/internal/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each call; 0 means no timeout. The client passed to
// WithHTTPClient is copied, not modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Register posts the credentials as JSON to /register/.
func (c *Client) Register(ctx context.Context, creds models.Credentials) (*models.MessageResult, error) {
	var result models.MessageResult
	if err := c.postJSON(ctx, OpRegister, "/register/", creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login posts the credentials as JSON to /login/.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.MessageResult, error) {
	var result models.MessageResult
	if err := c.postJSON(ctx, OpLogin, "/login/", creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Upload sends file as the multipart field "file" to /upload/.
func (c *Client) Upload(ctx context.Context, file *models.SelectedFile) (*models.MessageResult, error) {
	if file == nil {
		return nil, fmt.Errorf("upload: no file selected")
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("upload: failed to create form part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("upload: failed to write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("upload: failed to close form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload/", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result models.MessageResult
	if err := c.do(req, OpUpload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search asks /search/ with the query percent-encoded (spaces as %20).
func (c *Client) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/search/?query="+EncodeQuery(query), nil)
	if err != nil {
		return nil, err
	}

	var result models.SearchResult
	if err := c.do(req, OpSearch, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EncodeQuery percent-encodes a query value for the search URL.
func EncodeQuery(query string) string {
	return strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

func (c *Client) postJSON(ctx context.Context, op Operation, path string, payload, out interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: failed to encode request: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, op, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if id := middleware.GetRequestID(ctx); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, op Operation, out interface{}) error {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend call failed",
			zap.String("op", string(op)),
			zap.String("url", req.URL.Redacted()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Warn("backend response not decodable",
			zap.String("op", string(op)),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return &DecodeError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("backend call completed",
		zap.String("op", string(op)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
