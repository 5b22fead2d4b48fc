package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tabsplit/internal/metrics"
)

type scopedMsg struct{ id string }

func (m *scopedMsg) GetSessionID() string { return m.id }

func TestSessionID(t *testing.T) {
	assert.Equal(t, "abc", SessionID(&scopedMsg{id: "abc"}))
	assert.Equal(t, "", SessionID(struct{}{}))
}

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)
	interceptor := MetricsInterceptor(m)

	ok := interceptor(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&struct{}{}), nil
	})
	failing := interceptor(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
	})

	_, err := ok(context.Background(), connect.NewRequest(&scopedMsg{id: "s1"}))
	require.NoError(t, err)
	_, err = failing(context.Background(), connect.NewRequest(&scopedMsg{id: "s1"}))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("", "not_found")))
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	wantErr := connect.NewError(connect.CodeInvalidArgument, errors.New("bad"))
	handler := LoggingInterceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, wantErr
	})

	_, err := handler(context.Background(), connect.NewRequest(&scopedMsg{id: "s1"}))
	assert.Same(t, wantErr, err)
}

func TestCORS(t *testing.T) {
	called := false
	handler := CORS("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	preflight := httptest.NewRecorder()
	handler.ServeHTTP(preflight, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusOK, preflight.Code)
	assert.Equal(t, "*", preflight.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, called)
}

func TestRateLimitInterceptor(t *testing.T) {
	lim, err := NewRateLimiter("2-M")
	require.NoError(t, err)

	handler := RateLimitInterceptor(lim)(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&struct{}{}), nil
	})

	for i := 0; i < 2; i++ {
		_, err := handler(context.Background(), connect.NewRequest(&scopedMsg{}))
		require.NoError(t, err, "call %d", i+1)
	}
	_, err = handler(context.Background(), connect.NewRequest(&scopedMsg{}))
	assert.Equal(t, connect.CodeResourceExhausted, connect.CodeOf(err))

	_, err = NewRateLimiter("lots")
	assert.Error(t, err)
}

func TestRateLimitInterceptor_Disabled(t *testing.T) {
	handler := RateLimitInterceptor(nil)(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&struct{}{}), nil
	})
	for i := 0; i < 10; i++ {
		_, err := handler(context.Background(), connect.NewRequest(&scopedMsg{}))
		require.NoError(t, err)
	}
}

func TestPeerKey(t *testing.T) {
	assert.Equal(t, "10.0.0.1", peerKey("10.0.0.1:4242"))
	assert.Equal(t, "pipe", peerKey("pipe"))
}
