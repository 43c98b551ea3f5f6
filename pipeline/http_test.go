package pipeline

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func submitAndWait(t *testing.T, p Pipeline, req *Request) (error, *Response) {
	t.Helper()

	type outcome struct {
		err error
		res *Response
	}
	done := make(chan outcome, 1)
	handle := p.Submit(req, func(err error, res *Response) {
		done <- outcome{err: err, res: res}
	})
	require.NotNil(t, handle)

	select {
	case result := <-done:
		return result.err, result.res
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline never completed")
		return nil, nil
	}
}

func TestHTTPSubmit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/users", r.URL.Path)
		require.Equal(t, "yes", r.Header.Get("X-Test"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	err, res := submitAndWait(t, NewHTTP(nil), &Request{
		URL:     server.URL + "/users",
		Method:  "POST",
		Headers: map[string]string{"X-Test": "yes"},
		Body:    []byte(`{"name":"alice"}`),
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Equal(t, `{"ok":true}`, string(res.Body))
}

func TestHTTPCompletesExactlyOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	var calls atomic.Int32
	done := make(chan struct{})
	NewHTTP(nil).Submit(&Request{URL: server.URL, Method: "GET"}, func(error, *Response) {
		calls.Add(1)
		close(done)
	})

	<-done
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}

func TestHTTPCancel(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	done := make(chan error, 1)
	handle := NewHTTP(nil).Submit(&Request{URL: server.URL, Method: "GET"}, func(err error, _ *Response) {
		done <- err
	})
	handle.Cancel()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled request never completed")
	}
}

func TestHTTPTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	pipe := NewHTTP(&HTTPOptions{Timeout: 50 * time.Millisecond})
	err, _ := submitAndWait(t, pipe, &Request{URL: server.URL, Method: "GET"})
	require.Error(t, err)
}

func TestChainInterceptorsRunBeforeDispatch(t *testing.T) {
	var seenAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	pipe := Chain(NewHTTP(nil),
		func(req *Request) {
			if req.Headers == nil {
				req.Headers = map[string]string{}
			}
			req.Headers["Authorization"] = "Bearer token"
		},
		func(req *Request) {
			req.URL += "?traced=1"
		},
	)

	err, _ := submitAndWait(t, pipe, &Request{URL: server.URL, Method: "GET"})
	require.NoError(t, err)
	require.Equal(t, "Bearer token", seenAuth)
}
