// internal/handler/http/errors.go
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	pkgerrs "douyin-comments/pkg/errors"
)

// CredentialHeader carries the caller's Douyin cookie
const CredentialHeader = "X-Douyin-Cookie"

// StatusFor maps a core error to the HTTP status reported to API clients
func StatusFor(err error) int {
	var (
		emptyErr      *pkgerrs.EmptyInputError
		unresolvedErr *pkgerrs.UnresolvableIdentifierError
		authErr       *pkgerrs.AuthError
		validationErr *pkgerrs.ValidationError
		signatureErr  *pkgerrs.SignatureError
		transportErr  *pkgerrs.TransportError
		protocolErr   *pkgerrs.ProtocolError
	)

	switch {
	case errors.As(err, &emptyErr):
		if emptyErr.Field == "credential" {
			return http.StatusUnauthorized
		}
		return http.StatusBadRequest
	case errors.As(err, &unresolvedErr):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.As(err, &validationErr),
		errors.As(err, &signatureErr),
		errors.As(err, &transportErr),
		errors.As(err, &protocolErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func httpError(err error) *echo.HTTPError {
	return echo.NewHTTPError(StatusFor(err), err.Error())
}
