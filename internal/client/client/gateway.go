package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/skillshare/internal/common"
	"github.com/dmitrijs2005/skillshare/internal/logging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultTimeout bounds a single request when no option overrides it.
	DefaultTimeout = 15 * time.Second

	tracerName = "github.com/dmitrijs2005/skillshare/client"

	headerAccept      = "Accept"
	headerContentType = "Content-Type"
	headerUserAgent   = "User-Agent"
	contentTypeJSON   = "application/json"
	contentTypeForm   = "application/x-www-form-urlencoded"
)

// RequestObserver receives one event per finished request. kind is "ok" for
// success or the Kind of the failure.
type RequestObserver interface {
	ObserveRequest(method, kind string, elapsed time.Duration)
}

// Gateway is the REST implementation of Client. Every request goes to the
// same base URL and carries the session cookies held in its jar.
type Gateway struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        *resettableJar
	logger     logging.Logger
	observer   RequestObserver
	tracer     trace.Tracer

	timeout    time.Duration
	hasTimeout bool
}

// Option configures the gateway.
type Option func(*Gateway)

// WithHTTPClient uses a copy of hc for every request. The copy gets the
// gateway's own cookie jar; hc itself is not modified. A nil hc is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *Gateway) {
		if hc == nil {
			return
		}
		c := *hc
		g.httpClient = &c
	}
}

// WithTimeout sets the per-request timeout, whatever client is in use.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = timeout
		g.hasTimeout = true
	}
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) {
		g.logger = l
	}
}

// WithObserver attaches request metrics.
func WithObserver(o RequestObserver) Option {
	return func(g *Gateway) {
		g.observer = o
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(g *Gateway) {
		g.tracer = t
	}
}

// NewGateway creates a gateway rooted at baseURL, e.g. "http://localhost:8081".
func NewGateway(baseURL string, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := newResettableJar()
	if err != nil {
		return nil, err
	}

	g := &Gateway{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		jar:        jar,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.hasTimeout {
		g.httpClient.Timeout = g.timeout
	}
	g.httpClient.Jar = g.jar
	if g.tracer == nil {
		g.tracer = otel.Tracer(tracerName)
	}
	return g, nil
}

// BaseURL returns the fixed API base.
func (g *Gateway) BaseURL() string {
	return g.baseURL.String()
}

// ClearCredentials forgets every session cookie.
func (g *Gateway) ClearCredentials() {
	g.jar.Reset()
}

// Get performs a GET request and decodes the response into out.
func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	return g.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body (JSON value, FormBody, *MultipartBody or nil).
func (g *Gateway) Post(ctx context.Context, path string, body, out any) error {
	return g.do(ctx, http.MethodPost, path, body, out)
}

func (g *Gateway) Put(ctx context.Context, path string, body, out any) error {
	return g.do(ctx, http.MethodPut, path, body, out)
}

func (g *Gateway) Delete(ctx context.Context, path string, out any) error {
	return g.do(ctx, http.MethodDelete, path, nil, out)
}

func (g *Gateway) resolve(path string) string {
	u := *g.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	return u.String()
}

// encodeBody picks the wire encoding from the body's type.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case FormBody:
		return strings.NewReader(url.Values(b).Encode()), contentTypeForm, nil
	case *MultipartBody:
		return b.encode()
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		return bytes.NewReader(data), contentTypeJSON, nil
	}
}

func (g *Gateway) do(ctx context.Context, method, path string, body, out any) (err error) {
	ctx, span := g.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		))
	start := time.Now()
	defer func() {
		kind := "ok"
		if err != nil {
			kind = KindOf(err).String()
			span.SetAttributes(attribute.String("skillshare.error_kind", kind))
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if g.observer != nil {
			g.observer.ObserveRequest(method, kind, time.Since(start))
		}
		g.logger.Debug(ctx, "request finished", "method", method, "path", path, "kind", kind, "elapsed", time.Since(start))
	}()

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return &APIError{Kind: KindBadRequest, Method: method, Path: path, Message: "request body could not be encoded", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, g.resolve(path), reader)
	if err != nil {
		return &APIError{Kind: KindBadRequest, Method: method, Path: path, Message: "request could not be built", Err: err}
	}
	req.Header.Set(headerAccept, contentTypeJSON)
	req.Header.Set(headerUserAgent, common.UserAgent)
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if contentType != "" {
		req.Header.Set(headerContentType, contentType)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: KindNetwork, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindNetwork, StatusCode: resp.StatusCode, Method: method, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(method, path, resp.StatusCode, respBody)
	}

	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &APIError{
				Kind:       KindServer,
				StatusCode: resp.StatusCode,
				Message:    "malformed response",
				Method:     method,
				Path:       path,
				Err:        err,
			}
		}
	}
	return nil
}
