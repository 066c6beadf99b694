package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/login-gateway/internal/config"
	"github.com/openkcm/login-gateway/internal/cookie"
	"github.com/openkcm/login-gateway/internal/middleware/responsewriter"
	"github.com/openkcm/login-gateway/internal/openapi"
	"github.com/openkcm/login-gateway/internal/session"
)

// Routes of the API, relative to the path of the application base URI.
const (
	LoginPath   = "/auth/login"
	SessionPath = "/auth/session"
	LogoutPath  = "/auth/logout"

	readHeaderTimeout = 10 * time.Second
)

// createHTTPServer creates the API http server using the given config. The
// routes are mounted below the path of the base URI, where the browser is
// sent back to after the login.
func createHTTPServer(ctx context.Context, cfg *config.Config, manager *session.Manager, cookies *cookie.Transport) (*http.Server, error) {
	if manager == nil || cookies == nil {
		return nil, errors.New("session manager and cookie transport are required")
	}

	appURL, err := cfg.Auth.AppURL()
	if err != nil {
		return nil, fmt.Errorf("getting application url: %w", err)
	}

	m, err := newMeters(ctx, cfg)
	if err != nil {
		return nil, err
	}

	strictHandler := openapi.NewStrictHandlerWithOptions(
		newOpenAPIServer(manager, cookies, appURL.String()),
		[]openapi.StrictMiddlewareFunc{
			m.traceMiddleware(cfg),
		},
		openapi.StrictHTTPServerOptions{
			RequestErrorHandlerFunc:  requestErrorHandler,
			ResponseErrorHandlerFunc: responseErrorHandler,
		},
	)

	basePath := strings.TrimSuffix(appURL.Path, "/")
	api := openapi.HandlerWithOptions(strictHandler, openapi.StdHTTPServerOptions{
		BaseURL:          basePath,
		ErrorHandlerFunc: requestErrorHandler,
	})

	mux := http.NewServeMux()
	mux.Handle("GET "+basePath+SessionPath, RequireSession(manager, cookies, api))
	mux.Handle("/", api)

	return &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           responsewriter.Middleware(noStore(mux)),
		ReadHeaderTimeout: readHeaderTimeout,
	}, nil
}

// noStore keeps redirects and session answers out of shared caches.
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// StartHTTPServer starts the HTTP server and blocks until ctx is done.
func StartHTTPServer(ctx context.Context, cfg *config.Config, manager *session.Manager, cookies *cookie.Transport) error {
	server, err := createHTTPServer(ctx, cfg, manager, cookies)
	if err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed to create the HTTP server")
	}

	slogctx.Info(ctx, "Starting a listener", "address", server.Addr)

	// Parse network if the address is provided in the format of network://address.
	// Otherwise use tcp network by default. Integration tests bind to a unix
	// socket so they don't need to look for a free port.
	network := "tcp"
	if idx := strings.IndexRune(server.Addr, ':'); idx != -1 && len(server.Addr) > idx+3 && server.Addr[idx:idx+3] == "://" {
		network = server.Addr[:idx]
		server.Addr = server.Addr[idx+3:]
	}

	listener, err := new(net.ListenConfig).Listen(ctx, network, server.Addr)
	if err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed to create a listener")
	}

	slogctx.Info(ctx, "A listener started", "address", listener.Addr().String())

	go func() {
		slogctx.Info(ctx, "Serving an HTTP server", "address", listener.Addr().String())
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogctx.Error(ctx, "Failed to serve an HTTP server", "error", err)
		}

		slogctx.Info(ctx, "Stopped an HTTP server")
	}()

	<-ctx.Done()

	shutdownCtx, shutdownRelease := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
	defer shutdownRelease()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed shutting down HTTP server")
	}

	slogctx.Info(ctx, "Completed graceful shutdown of HTTP server")

	return nil
}
