package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	slogctx "github.com/veqryn/slog-context"
)

func TestNewMeters(t *testing.T) {
	m, err := newMeters(t.Context(), testConfig())
	require.NoError(t, err)
	assert.NotNil(t, m.counter)
	assert.NotNil(t, m.hist)
}

func TestTraceMiddleware(t *testing.T) {
	m, err := newMeters(t.Context(), testConfig())
	require.NoError(t, err)

	middleware := m.traceMiddleware(testConfig())

	t.Run("passes request and response through", func(t *testing.T) {
		called := false
		next := func(ctx context.Context, _ http.ResponseWriter, _ *http.Request, request any) (any, error) {
			called = true

			assert.NotNil(t, slogctx.FromCtx(ctx))
			assert.Equal(t, "request", request)

			return "response", nil
		}

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

		response, err := middleware(next, "TestOperation")(req.Context(), httptest.NewRecorder(), req, "request")

		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, "response", response)
	})

	t.Run("keeps the error of the handler", func(t *testing.T) {
		wantErr := errors.New("boom")
		next := func(context.Context, http.ResponseWriter, *http.Request, any) (any, error) {
			return nil, wantErr
		}

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		_, err := middleware(next, "FailingOperation")(req.Context(), httptest.NewRecorder(), req, nil)

		require.ErrorIs(t, err, wantErr)
	})

	t.Run("handles multiple sequential requests", func(t *testing.T) {
		count := 0
		handler := middleware(func(context.Context, http.ResponseWriter, *http.Request, any) (any, error) {
			count++
			return nil, nil
		}, "SequentialOperation")

		for range 5 {
			req := httptest.NewRequest(http.MethodGet, "/seq", nil)
			_, err := handler(req.Context(), httptest.NewRecorder(), req, nil)
			require.NoError(t, err)
		}
		assert.Equal(t, 5, count)
	})
}
