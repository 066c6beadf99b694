package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/login-gateway/internal/idp"
	"github.com/openkcm/login-gateway/internal/openapi"
	"github.com/openkcm/login-gateway/internal/serviceerr"
)

type failureKind int

const (
	// kindClientProtocol is a request the client has to fix, e.g. a missing
	// PKCE cookie.
	kindClientProtocol failureKind = iota
	// kindProviderAuth is an explicit rejection by the identity provider.
	kindProviderAuth
	kindGenericExchange
	kindURLConstruction
)

func (k failureKind) String() string {
	switch k {
	case kindClientProtocol:
		return "client_protocol"
	case kindProviderAuth:
		return "provider_auth"
	case kindGenericExchange:
		return "generic_exchange"
	case kindURLConstruction:
		return "url_construction"
	default:
		return "unknown"
	}
}

// classifyCallbackError maps an error of the login finalisation to its
// failure kind.
func classifyCallbackError(err error) failureKind {
	var serviceErr *serviceerr.Error
	if errors.As(err, &serviceErr) && serviceErr.HTTPStatus() < http.StatusInternalServerError {
		return kindClientProtocol
	}

	var providerErr *idp.ProviderError
	if errors.As(err, &providerErr) {
		return kindProviderAuth
	}

	return kindGenericExchange
}

// logFailure logs err at the level its kind deserves. Provider errors keep
// their code and description in the log and nowhere else.
func logFailure(ctx context.Context, kind failureKind, err error) {
	switch kind {
	case kindClientProtocol:
		slogctx.Warn(ctx, "Rejected login request", "kind", kind.String(), "error", err)
	case kindProviderAuth:
		var providerErr *idp.ProviderError
		errors.As(err, &providerErr)
		slogctx.Error(ctx, "Identity provider rejected the login",
			"kind", kind.String(),
			"provider_error", providerErr.Code,
			"provider_error_description", providerErr.Description,
			"provider_status", providerErr.StatusCode,
			"error", err,
		)
	default:
		slogctx.Error(ctx, "Login failed", "kind", kind.String(), "error", err)
	}
}

// toErrorModel returns the client safe representation of err. Errors that
// are not a *serviceerr.Error are reported as ErrUnknown.
func toErrorModel(err error) (model openapi.ErrorModel, httpStatus int) {
	var serviceErr *serviceerr.Error
	if !errors.As(err, &serviceErr) {
		serviceErr = serviceerr.ErrUnknown
	}

	model = openapi.ErrorModel{Error: string(serviceErr.Err)}
	if serviceErr.Description != "" {
		model.ErrorDescription = &serviceErr.Description
	}

	return model, serviceErr.HTTPStatus()
}

// writeError answers outside of the strict handlers, e.g. for requests the
// generated router could not bind.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	model, status := toErrorModel(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(model); err != nil {
		slogctx.Error(r.Context(), "Failed to write error response", "error", err)
	}
}

func requestErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	slogctx.Warn(r.Context(), "Rejected malformed request", "error", err)
	writeError(w, r, serviceerr.ErrInvalidRequest)
}

func responseErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	slogctx.Error(r.Context(), "Failed to write response", "error", err)
	writeError(w, r, serviceerr.ErrServerError)
}
