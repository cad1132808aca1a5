// Package proxmox is a thin client for the Proxmox VE management HTTP API.
// It logs in once against the ticket endpoint, then forwards resource calls
// as GET/PUT/POST/DELETE requests over /api2/{format} paths, attaching the
// session ticket and CSRF-prevention token to each request.
package proxmox

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/virtops/proxmox-client/internal/httpclient"
)

// Client is a logged-in session against one Proxmox VE server. It performs no
// synchronization of its own; the token is immutable after Authenticate, so
// concurrent verb calls are safe as long as the http.Client is shared.
type Client struct {
	logger *zap.Logger
	cred   Credential
	token  AuthToken
	format resolvedFormat
	exec   *httpclient.Executor
	tlsCfg *tls.Config
}

// Response is the post-processed result of one verb call. Body always holds
// the raw bytes; Data or DataURI is filled according to the configured
// response format.
type Response struct {
	StatusCode int
	Body       []byte // raw bytes for html/extjs/text/png
	Data       any    // decoded "data" envelope for json/object
	DataURI    string // data:image/png;base64,... for pngb64
}

// Text returns the raw body as a string.
func (r *Response) Text() string { return string(r.Body) }

type options struct {
	responseType string
	tlsVerify    bool
	timeout      time.Duration
	httpClient   *http.Client
}

// Option configures Authenticate.
type Option func(*options)

// WithResponseType selects the wire/presentation format: json (default),
// html, extjs, text, png, pngb64 or object.
func WithResponseType(t string) Option {
	return func(o *options) { o.responseType = t }
}

// WithTLSVerify enables certificate verification. Off by default: Proxmox
// nodes commonly run self-signed certificates.
func WithTLSVerify(v bool) Option {
	return func(o *options) { o.tlsVerify = v }
}

// WithTimeout overrides the per-request timeout (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithHTTPClient supplies a custom transport; WithTLSVerify and WithTimeout
// are ignored when set.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// Authenticate resolves the credential source, performs the login exchange
// and returns a ready client. One login per client; there is no refresh path,
// so an expired ticket means building a new client.
func Authenticate(ctx context.Context, logger *zap.Logger, src any, opts ...Option) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	o := options{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	cred, err := ResolveCredentials(src)
	if err != nil {
		return nil, err
	}

	format, err := parseResponseFormat(o.responseType)
	if err != nil {
		return nil, err
	}

	tlsCfg := &tls.Config{InsecureSkipVerify: !o.tlsVerify} //nolint:gosec
	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{
			Timeout:   o.timeout,
			Transport: &http.Transport{TLSClientConfig: tlsCfg},
		}
	}

	exec := httpclient.New(logger, hc, "proxmox")
	token, err := login(ctx, logger, exec, cred)
	if err != nil {
		return nil, err
	}

	return &Client{
		logger: logger,
		cred:   cred,
		token:  token,
		format: format,
		exec:   exec,
		tlsCfg: tlsCfg,
	}, nil
}

// Token returns the session's auth token.
func (c *Client) Token() AuthToken { return c.token }

// Close ends the session locally. Proxmox tickets cannot be revoked
// server-side, so there is nothing to send; the ticket simply ages out. Kept
// so callers can treat the client like any other closable resource.
func (c *Client) Close() error { return nil }

// Hostname returns the server the client is bound to.
func (c *Client) Hostname() string { return c.cred.Hostname }

// Get reads a resource.
func (c *Client) Get(ctx context.Context, path string, params any) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, params)
}

// Put replaces a resource.
func (c *Client) Put(ctx context.Context, path string, params any) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, params)
}

// Post creates a resource.
func (c *Client) Post(ctx context.Context, path string, params any) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, params)
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, path string, params any) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, params)
}

func (c *Client) do(ctx context.Context, method, path string, params any) (*Response, error) {
	vals, err := normalizeParams(params)
	if err != nil {
		return nil, err
	}

	reqURL := c.apiURL(c.format.wire, path)
	var body string
	switch method {
	case http.MethodGet, http.MethodDelete:
		if len(vals) > 0 {
			reqURL += "?" + vals.Encode()
		}
	default:
		body = vals.Encode()
	}

	req, err := newFormRequest(ctx, method, reqURL, body)
	if err != nil {
		return nil, err
	}
	c.attachToken(req, method)

	status, raw, err := c.exec.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if status >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: server returned %d for %s %s", ErrTransport, status, method, path)
	}

	return c.render(status, raw)
}

// newFormRequest builds a request carrying a form-encoded body on the
// state-changing methods; GET and DELETE carry their params in the query.
func newFormRequest(ctx context.Context, method, reqURL, form string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, strings.NewReader(form))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if method == http.MethodPut || method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

// attachToken adds the session credentials. The ticket cookie goes on every
// request; the CSRF header only on state-changing methods, as the server does
// not require it for plain reads.
func (c *Client) attachToken(req *http.Request, method string) {
	req.AddCookie(&http.Cookie{Name: "PVEAuthCookie", Value: c.token.Ticket})
	if method != http.MethodGet {
		req.Header.Set("CSRFPreventionToken", c.token.CSRFPreventionToken)
	}
}

// apiURL builds https://{host}:{port}/api2/{format}{path}, prepending the
// leading slash when the caller omitted it.
func (c *Client) apiURL(wire, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("https://%s:%d/api2/%s%s", c.cred.Hostname, c.cred.Port, wire, path)
}

func (c *Client) render(status int, raw []byte) (*Response, error) {
	resp := &Response{StatusCode: status, Body: raw}
	switch c.format.present {
	case presentStructured:
		var envelope struct {
			Data any `json:"data"`
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &envelope); err != nil {
				return nil, fmt.Errorf("%w: decode response: %v", ErrTransport, err)
			}
		}
		resp.Data = envelope.Data
	case presentBase64:
		resp.DataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
	}
	return resp, nil
}

// normalizeParams accepts the mapping shapes a verb may carry and flattens
// them to url.Values. Anything that is not a mapping is rejected before any
// network I/O.
func normalizeParams(params any) (url.Values, error) {
	switch p := params.(type) {
	case nil:
		return url.Values{}, nil
	case url.Values:
		return p, nil
	case map[string]string:
		vals := url.Values{}
		for k, v := range p {
			vals.Set(k, v)
		}
		return vals, nil
	case map[string]any:
		vals := url.Values{}
		for k, v := range p {
			vals.Set(k, fmt.Sprint(v))
		}
		return vals, nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrInvalidParams, params)
}
