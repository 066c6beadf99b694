package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/require"

	otlpaudit "github.com/openkcm/common-sdk/pkg/otlp/audit"

	"github.com/openkcm/login-gateway/internal/config"
)

func StartAuditServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"success": true}`))
		} else {
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func newAuditLogger(t *testing.T, endpoint string) *otlpaudit.AuditLogger {
	t.Helper()
	auditLogger, err := otlpaudit.NewLogger(&commoncfg.Audit{Endpoint: endpoint})
	require.NoError(t, err)
	return auditLogger
}

func authConfig() *config.Auth {
	return &config.Auth{
		BaseURI: "https://app.example.com/portal",
		Provider: config.Provider{
			Issuer: "https://login.example.com/tenant/v2.0",
			Scopes: []string{"api://backend/.default"},
			ClientAuth: config.ClientAuth{
				ClientID: "my-client-id",
			},
		},
	}
}
