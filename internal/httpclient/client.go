package httpclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/torosent/minihttp/internal/kv"
	"github.com/torosent/minihttp/internal/logger"
)

const (
	// PoweredByHeader marks requests as coming from this implementation.
	PoweredByHeader = "X-Powered"
	poweredByValue  = "Go"
	userAgentName   = "minihttp"
)

// ErrTransport matches every error caused by the network exchange itself.
var ErrTransport = errors.New("transport failure")

// TransportError is returned when a request could not be completed.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Options configures a Client.
type Options struct {
	// Timeout bounds the whole exchange. Zero means no timeout.
	Timeout time.Duration
	// Version is reported in the User-Agent header.
	Version string
	Logger  *zap.SugaredLogger
	// Debug makes resty log full request and response dumps at debug level.
	Debug bool
}

// Request is a fully built request ready for dispatch.
type Request struct {
	Method string
	URL    string
	// Body is nil for requests without a payload.
	Body kv.Body
}

// BuildGet builds a GET request without a body.
func BuildGet(url string) *Request {
	return &Request{Method: http.MethodGet, URL: url}
}

// BuildPost builds a POST request whose JSON body is folded from pairs.
func BuildPost(url string, pairs []kv.Pair) *Request {
	return &Request{Method: http.MethodPost, URL: url, Body: kv.Fold(pairs)}
}

// Response is a completed exchange with its body fully read.
type Response struct {
	Proto      string
	Status     string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client sends requests with a fixed set of default headers.
type Client struct {
	rc  *resty.Client
	log *zap.SugaredLogger
}

// DefaultHeaders returns the headers attached to every request.
func DefaultHeaders(version string) map[string]string {
	ua := userAgentName
	if version != "" {
		ua += "/" + version
	}
	return map[string]string{
		PoweredByHeader: poweredByValue,
		"User-Agent":    ua,
	}
}

// NewClient builds a Client. Default headers are set once here and apply to every
// request the client sends.
func NewClient(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	rc := resty.NewWithClient(newHTTPClient(opts.Timeout))
	rc.SetHeaders(DefaultHeaders(opts.Version))
	rc.SetRetryCount(0)
	rc.SetLogger(log)
	rc.SetDebug(opts.Debug)

	return &Client{rc: rc, log: log}
}

// Get sends a GET request to url.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, BuildGet(url))
}

// Post sends pairs as a JSON object to url.
func (c *Client) Post(ctx context.Context, url string, pairs []kv.Pair) (*Response, error) {
	return c.Do(ctx, BuildPost(url, pairs))
}

// Do dispatches req and waits for the complete response. Any response, whatever
// its status code, is a success; only failures to complete the exchange return
// an error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r := c.rc.R().SetContext(ctx)
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(req.Body)
	}

	c.log.Debugw("sending request", "method", req.Method, "url", req.URL, "fields", len(req.Body))
	start := time.Now()
	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}

	out := &Response{
		Status:     resp.Status(),
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}
	if raw := resp.RawResponse; raw != nil {
		out.Proto = raw.Proto
	}
	c.log.Debugw("received response",
		"status", out.StatusCode,
		"proto", out.Proto,
		"bytes", len(out.Body),
		"elapsed", time.Since(start),
	)
	return out, nil
}

// newHTTPClient builds the underlying net/http client. A non-positive timeout
// leaves the client without an overall deadline.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout < 0 {
		timeout = 0
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
