package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minitwitter/accounts-auth/internal/api/middleware"
	"github.com/minitwitter/accounts-auth/internal/api/response"
)

// ctxUserID returns the user id injected by the Auth middleware. A missing
// id means the route was mounted without the middleware; the caller gets 401.
func ctxUserID(c echo.Context) (string, bool) {
	userID, _ := c.Get(middleware.ContextUserID).(string)
	return userID, userID != ""
}

func notAuthenticated(c echo.Context) error {
	return response.FailCode(c, http.StatusUnauthorized, "Authentication credentials were not provided.", response.CodeNotAuthenticated)
}
