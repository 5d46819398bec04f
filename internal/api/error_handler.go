package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/minitwitter/accounts-auth/internal/api/response"
	"github.com/minitwitter/accounts-auth/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the response.Envelope used by every endpoint.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		_ = c.JSON(resolveError(err, log, c))
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, response.Envelope) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, response.Envelope{Message: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, response.Envelope{Message: "Validation error", Errors: ve.Fields}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, response.Envelope{Message: "Invalid credentials"}
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, response.Envelope{Message: "Token is invalid or expired", Code: response.CodeTokenNotValid}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, response.Envelope{Message: "Authentication credentials were not provided.", Code: response.CodeNotAuthenticated}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnauthorized, response.Envelope{Message: "User not found", Code: response.CodeUserNotFound}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, response.Envelope{Message: "Internal server error", Code: response.CodeInternal}
}
