package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/login-gateway/internal/config"
	"github.com/openkcm/login-gateway/internal/cookie"
	"github.com/openkcm/login-gateway/internal/idp"
	"github.com/openkcm/login-gateway/internal/session"
)

const testSecret = "0123456789abcdef0123456789abcdef" // NOSONAR

func testConfig() *config.Config {
	return &config.Config{
		BaseConfig: commoncfg.BaseConfig{
			Application: commoncfg.Application{
				Name: "test-app",
			},
		},
		HTTP: config.HTTPServer{
			Address:         "localhost:0",
			ShutdownTimeout: time.Second,
		},
		Auth: config.Auth{
			BaseURI:         "https://app.example.com",
			Production:      true,
			SessionDuration: 12 * time.Hour,
			PKCETTL:         10 * time.Minute,
			Provider: config.Provider{
				Issuer: "https://login.example.com/tenant/v2.0",
				ClientAuth: config.ClientAuth{
					ClientID: "my-client-id",
				},
			},
		},
	}
}

type testServer struct {
	handler http.Handler
	manager *session.Manager
	cookies *cookie.Transport
}

func newTestServer(t *testing.T, client idp.Client, revocations session.Revocations, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := testConfig()
	for _, f := range mutate {
		f(cfg)
	}
	codec, err := session.NewCodec([]byte(testSecret), cfg.Application.Name, cfg.Auth.SessionDuration)
	require.NoError(t, err)

	manager, err := session.NewManager(&cfg.Auth, client, codec, revocations, nil)
	require.NoError(t, err)

	cookies, err := cookie.NewTransport(&cfg.Auth)
	require.NoError(t, err)

	server, err := createHTTPServer(t.Context(), cfg, manager, cookies)
	require.NoError(t, err)

	return &testServer{handler: server.Handler, manager: manager, cookies: cookies}
}

func (s *testServer) do(req *http.Request) *http.Response {
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w.Result()
}

func cookiesByName(resp *http.Response, name string) []*http.Cookie {
	var found []*http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == name {
			found = append(found, c)
		}
	}
	return found
}
