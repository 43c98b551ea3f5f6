package pipeline

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// HTTPOptions configures the default HTTP pipeline.
type HTTPOptions struct {
	// Client overrides the underlying HTTP client.
	Client *http.Client

	// Timeout bounds a single dispatch. Zero means no timeout; the caller
	// can still cancel through the returned handle.
	Timeout time.Duration
}

// DefaultHTTPOptions returns the defaults: a plain client, no timeout.
func DefaultHTTPOptions() *HTTPOptions {
	return &HTTPOptions{Client: &http.Client{}}
}

// HTTP is the default net/http-backed pipeline.
type HTTP struct {
	options *HTTPOptions
}

// NewHTTP creates an HTTP pipeline. A nil opts uses DefaultHTTPOptions.
func NewHTTP(opts *HTTPOptions) *HTTP {
	if opts == nil {
		opts = DefaultHTTPOptions()
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	return &HTTP{options: opts}
}

// Submit dispatches req on its own goroutine and completes done exactly
// once. The returned handle cancels the in-flight request.
func (h *HTTP) Submit(req *Request, done Done) Handle {
	ctx := context.Background()
	var cancel context.CancelFunc
	if h.options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, h.options.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	go func() {
		defer cancel()
		res, err := h.dispatch(ctx, req)
		done(err, res)
	}()

	return cancelHandle(cancel)
}

func (h *HTTP) dispatch(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	httpRes, err := h.options.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpRes.Body.Close()

	data, err := io.ReadAll(httpRes.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: httpRes.StatusCode,
		Status:     httpRes.Status,
		Headers:    httpRes.Header,
		Body:       data,
	}, nil
}

type cancelHandle context.CancelFunc

func (c cancelHandle) Cancel() { c() }
