package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minitwitter/accounts-auth/internal/api/response"
	"github.com/minitwitter/accounts-auth/internal/core/ports"
)

// ContextUserID is the echo.Context key holding the authenticated user id.
const ContextUserID = "user_id"

const (
	msgNotProvided   = "Authentication credentials were not provided."
	msgBadHeader     = "Authorization header must contain two space-delimited values"
	msgTokenNotValid = "Given token not valid for any token type"
)

// Auth requires a Bearer access token, verifies it, and stores the user id
// under ContextUserID. Refresh tokens are not accepted here.
func Auth(verifier ports.AccessVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return response.FailCode(c, http.StatusUnauthorized, msgNotProvided, response.CodeNotAuthenticated)
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return response.FailCode(c, http.StatusUnauthorized, msgBadHeader, response.CodeBadAuthHeader)
			}

			userID, err := verifier.VerifyAccess(parts[1])
			if err != nil {
				return response.FailCode(c, http.StatusUnauthorized, msgTokenNotValid, response.CodeTokenNotValid)
			}

			c.Set(ContextUserID, userID)
			return next(c)
		}
	}
}
