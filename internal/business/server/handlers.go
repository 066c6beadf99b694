package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/login-gateway/internal/cookie"
	"github.com/openkcm/login-gateway/internal/idp"
	"github.com/openkcm/login-gateway/internal/middleware/responsewriter"
	"github.com/openkcm/login-gateway/internal/openapi"
	"github.com/openkcm/login-gateway/internal/serviceerr"
	"github.com/openkcm/login-gateway/internal/session"
)

// openAPIServer is an implementation of the OpenAPI interface.
type openAPIServer struct {
	manager *session.Manager
	cookies *cookie.Transport
	appURL  string
}

// Ensure openAPIServer implements [openapi.StrictServerInterface]
var _ openapi.StrictServerInterface = (*openAPIServer)(nil)

func newOpenAPIServer(manager *session.Manager, cookies *cookie.Transport, appURL string) *openAPIServer {
	return &openAPIServer{
		manager: manager,
		cookies: cookies,
		appURL:  appURL,
	}
}

// Login starts the authorization code flow. The PKCE verifier travels to
// the callback in a cookie scoped to the callback path.
func (s *openAPIServer) Login(ctx context.Context, _ openapi.LoginRequestObject) (openapi.LoginResponseObject, error) {
	rw, err := responsewriter.FromContext(ctx)
	if err != nil {
		slogctx.Error(ctx, "Failed to get response writer from context", "error", err)

		body, status := toErrorModel(serviceerr.ErrUnknown)
		return openapi.LogindefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	authURI, err := s.manager.MakeAuthURI(ctx)
	if err != nil {
		logFailure(ctx, kindURLConstruction, err)

		body, status := toErrorModel(serviceerr.ErrLoginUnavailable)
		return openapi.LogindefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	s.cookies.SetVerifier(rw, authURI.Verifier)

	slogctx.Debug(ctx, "Redirecting user to the identity provider")

	return openapi.Login302Response{
		Headers: openapi.Login302ResponseHeaders{
			Location: authURI.URL,
		},
	}, nil
}

// Callback finishes the flow. The PKCE cookie is checked before anything
// else so a request without it never reaches the identity provider.
func (s *openAPIServer) Callback(ctx context.Context, request openapi.CallbackRequestObject) (openapi.CallbackResponseObject, error) {
	params := request.Params

	verifier, err := s.cookies.Verifier(deref(params.Cookie))
	if err != nil {
		logFailure(ctx, kindClientProtocol, err)

		body, status := toErrorModel(serviceerr.ErrMissingVerifier)
		return openapi.CallbackdefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	if code := deref(params.Error); code != "" {
		logFailure(ctx, kindProviderAuth, &idp.ProviderError{Code: code, Description: deref(params.ErrorDescription)})

		body, status := toErrorModel(serviceerr.ErrLoginFailed)
		return openapi.CallbackdefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	rw, err := responsewriter.FromContext(ctx)
	if err != nil {
		slogctx.Error(ctx, "Failed to get response writer from context", "error", err)

		body, status := toErrorModel(serviceerr.ErrUnknown)
		return openapi.CallbackdefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	result, err := s.manager.FinaliseLogin(ctx, deref(params.Code), verifier)
	if err != nil {
		kind := classifyCallbackError(err)
		logFailure(ctx, kind, err)

		// only client side mistakes are worth explaining, everything else
		// gets the same generic body
		if kind != kindClientProtocol {
			err = serviceerr.ErrLoginFailed
		}

		body, status := toErrorModel(err)
		return openapi.CallbackdefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	s.cookies.ClearVerifier(rw)
	s.cookies.SetSession(rw, result.Token)

	slogctx.Info(ctx, "User logged in", "account_id", result.AccountID, "expiry", result.Expiry)

	return openapi.Callback302Response{
		Headers: openapi.Callback302ResponseHeaders{
			Location: s.appURL,
		},
	}, nil
}

// GetSession reports who the session put in the context by RequireSession
// belongs to.
func (s *openAPIServer) GetSession(ctx context.Context, _ openapi.GetSessionRequestObject) (openapi.GetSessionResponseObject, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		body, status := toErrorModel(serviceerr.ErrUnauthorized)
		return openapi.GetSessiondefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	return openapi.GetSession200JSONResponse{
		AccountIdentifier: sess.AccountID,
		ExpiresAt:         sess.Expiry.UTC(),
	}, nil
}

// Logout revokes the session when a revocation list is configured and
// always expires the session cookie.
func (s *openAPIServer) Logout(ctx context.Context, request openapi.LogoutRequestObject) (openapi.LogoutResponseObject, error) {
	rw, err := responsewriter.FromContext(ctx)
	if err != nil {
		slogctx.Error(ctx, "Failed to get response writer from context", "error", err)

		body, status := toErrorModel(serviceerr.ErrUnknown)
		return openapi.LogoutdefaultJSONResponse{
			Body:       body,
			StatusCode: status,
		}, nil
	}

	if token, err := s.cookies.Session(deref(request.Params.Cookie)); err == nil {
		if err := s.manager.Logout(ctx, token); err != nil {
			slogctx.Error(ctx, "Failed to revoke session", "error", err)

			body, status := toErrorModel(serviceerr.ErrServerError)
			return openapi.LogoutdefaultJSONResponse{
				Body:       body,
				StatusCode: status,
			}, nil
		}
	}

	s.cookies.ClearSession(rw)

	return openapi.Logout204Response{}, nil
}

// RequireSession only lets requests with a valid session through and puts
// the session into the request context.
func RequireSession(manager *session.Manager, cookies *cookie.Transport, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := cookies.Session(strings.Join(r.Header.Values("Cookie"), "; "))
		if err != nil {
			writeError(w, r, serviceerr.ErrUnauthorized)
			return
		}

		s, err := manager.Authenticate(ctx, token)
		if err != nil {
			switch {
			case errors.Is(err, session.ErrInvalidSession), errors.Is(err, serviceerr.ErrRevoked):
				slogctx.Debug(ctx, "Rejected session", "error", err)
				writeError(w, r, serviceerr.ErrUnauthorized)
			default:
				slogctx.Error(ctx, "Failed to authenticate session", "error", err)
				writeError(w, r, serviceerr.ErrServerError)
			}
			return
		}

		ctx = slogctx.With(ctx, "account_id", s.AccountID)
		next.ServeHTTP(w, r.WithContext(session.NewContext(ctx, s)))
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
