package client

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithRetryWait(time.Millisecond, 2*time.Millisecond)}, opts...)
	client, err := NewClient(server.URL, opts...)
	require.NoError(t, err)
	return client
}

type testLogger struct {
	lastMsg atomic.Value
	count   int32
}

func (l *testLogger) Debugf(format string, args ...interface{}) { l.log(format, args...) }
func (l *testLogger) Infof(format string, args ...interface{})  { l.log(format, args...) }
func (l *testLogger) Errorf(format string, args ...interface{}) { l.log(format, args...) }

func (l *testLogger) log(format string, args ...interface{}) {
	atomic.AddInt32(&l.count, 1)
	l.lastMsg.Store(fmt.Sprintf(format, args...))
}

const envelopeError = `{"success":false,"error":{"code":"%s","message":"%s","detail":"%s"},"request_id":"srv-1","timestamp":"2026-10-19T00:00:00Z"}`

// ---------------------------------------------------------------------------
// Constructor Tests
// ---------------------------------------------------------------------------

func TestNewClient_Success(t *testing.T) {
	c, err := NewClient("http://api.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", c.baseURL)
	assert.Equal(t, 3, c.retryMax)
	assert.Contains(t, c.userAgent, "hbondgen-go-client/")
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, u := range []string{"", "ftp://invalid", "invalid-url", "http://[::1"} {
		_, err := NewClient(u)
		require.Error(t, err, u)
		assert.Equal(t, errors.CodeInvalidParam, errors.GetCode(err), u)
	}
}

func TestNewClient_WithOptions(t *testing.T) {
	custom := &http.Client{Timeout: 10 * time.Second}
	logger := &testLogger{}
	c, err := NewClient("http://api.example.com",
		WithHTTPClient(custom),
		WithLogger(logger),
		WithRetryMax(5),
		WithUserAgent("probe/1"),
		WithRetryWait(time.Second, 2*time.Second),
	)
	require.NoError(t, err)
	assert.Same(t, custom, c.httpClient)
	assert.Equal(t, logger, c.logger)
	assert.Equal(t, 5, c.retryMax)
	assert.Equal(t, "probe/1", c.userAgent)
	assert.Equal(t, time.Second, c.retryWaitMin)
	assert.Equal(t, 2*time.Second, c.retryWaitMax)
}

func TestOptions_IgnoreInvalid(t *testing.T) {
	c, err := NewClient("http://api.example.com",
		WithHTTPClient(nil),
		WithLogger(nil),
		WithRetryMax(-1),
		WithUserAgent(""),
		WithRetryWait(time.Second, time.Millisecond),
		WithTimeout(0),
	)
	require.NoError(t, err)
	assert.NotNil(t, c.httpClient)
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)
	assert.Equal(t, noopLogger{}, c.logger)
	assert.Equal(t, 3, c.retryMax)
	assert.Equal(t, time.Second, c.retryWaitMin)
	assert.Equal(t, 5*time.Second, c.retryWaitMax)

	c, err = NewClient("http://api.example.com", WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}

// ---------------------------------------------------------------------------
// HTTP Execution Tests (do)
// ---------------------------------------------------------------------------

func TestClient_Do_RequestHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/restraints", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Contains(t, r.Header.Get("User-Agent"), "hbondgen-go-client/")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"x":1}`, string(body))
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.do(context.Background(), http.MethodPost, "api/v1/restraints", map[string]int{"x": 1}, nil))
}

func TestClient_Do_NoBodyOnGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, int64(0), r.ContentLength)
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.Write([]byte(`{"status":"up"}`))
	})
	var out map[string]string
	require.NoError(t, c.do(context.Background(), http.MethodGet, "/healthz", nil, &out))
	assert.Equal(t, "up", out["status"])
}

func TestClient_Do_RetriesServerErrors(t *testing.T) {
	var calls int32
	logger := &testLogger{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}, WithLogger(logger))

	var out map[string]bool
	require.NoError(t, c.do(context.Background(), http.MethodGet, "/x", nil, &out))
	assert.True(t, out["ok"])
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.NotZero(t, atomic.LoadInt32(&logger.count))
}

func TestClient_Do_RetriesExhausted(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, envelopeError, "COMMON_011", "service unavailable", "")
	}, WithRetryMax(2))

	err := c.do(context.Background(), http.MethodGet, "/x", nil, nil)
	var apiErr *APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.True(t, apiErr.IsServerError())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("X-Request-ID", "ignored")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, envelopeError, "PDB_003", "multiple models not supported", "line 9")
	})

	err := c.do(context.Background(), http.MethodPost, "/x", struct{}{}, nil)
	var apiErr *APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, errors.CodeMultipleModels, apiErr.ErrorCode())
	assert.Equal(t, "line 9", apiErr.Detail)
	assert.Equal(t, "srv-1", apiErr.RequestID)
	assert.False(t, apiErr.IsNotFound())
	assert.Equal(t, "hbondgen: PDB_003 (HTTP 400): multiple models not supported: line 9 [request_id=srv-1]", apiErr.Error())
}

func TestClient_Do_RateLimited(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprintf(w, envelopeError, "COMMON_014", "rate limit exceeded", "")
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.do(context.Background(), http.MethodGet, "/x", nil, nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Do_RateLimitedWithoutRetryAfter(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})
	err := c.do(context.Background(), http.MethodGet, "/x", nil, nil)
	var apiErr *APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.True(t, apiErr.IsRateLimited())
	assert.Equal(t, http.StatusText(http.StatusTooManyRequests), apiErr.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Do_PlainErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone fishing", http.StatusNotFound)
	})
	err := c.do(context.Background(), http.MethodGet, "/x", nil, nil)
	var apiErr *APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "gone fishing", apiErr.Message)
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.do(ctx, http.MethodGet, "/slow", nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Do_BadResponseJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})
	var out map[string]interface{}
	err := c.do(context.Background(), http.MethodGet, "/x", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal response")
}

func TestClient_CalculateBackoff(t *testing.T) {
	c, err := NewClient("http://api.example.com", WithRetryWait(100*time.Millisecond, 300*time.Millisecond))
	require.NoError(t, err)

	for attempt, base := range map[int]time.Duration{1: 100, 2: 200, 3: 300, 6: 300} {
		base *= time.Millisecond
		got := c.calculateBackoff(attempt)
		assert.GreaterOrEqual(t, got, base, "attempt %d", attempt)
		assert.Less(t, got, base+base/4+time.Nanosecond, "attempt %d", attempt)
	}
}
