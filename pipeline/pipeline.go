// Package pipeline is the execution boundary for synthesized requests. The
// client core builds a Request and submits it here together with a
// completion callback; the pipeline owns dispatch, cancellation, and timeout
// policy, and must call the callback exactly once, never synchronously.
package pipeline

import "net/http"

// Request is the descriptor a call-graph leaf hands over for dispatch.
// Interceptors may mutate it before the request goes out.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    []byte
}

// Response is what a pipeline reports back on success.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
}

// Done is the completion callback. Exactly one of err and res is set.
type Done func(err error, res *Response)

// Handle lets the caller abandon an in-flight request. Cancelling after
// completion is a no-op.
type Handle interface {
	Cancel()
}

// Pipeline dispatches a request and eventually completes done once.
type Pipeline interface {
	Submit(req *Request, done Done) Handle
}

// Interceptor observes or mutates an outgoing request before dispatch.
type Interceptor func(req *Request)

// Chain wraps p so every submitted request passes through the interceptors
// in order before dispatch.
func Chain(p Pipeline, interceptors ...Interceptor) Pipeline {
	return &chain{next: p, interceptors: interceptors}
}

type chain struct {
	next         Pipeline
	interceptors []Interceptor
}

func (c *chain) Submit(req *Request, done Done) Handle {
	for _, intercept := range c.interceptors {
		intercept(req)
	}
	return c.next.Submit(req, done)
}
