package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minitwitter/accounts-auth/internal/api/response"
	"github.com/minitwitter/accounts-auth/internal/core/domain"
	"github.com/minitwitter/accounts-auth/internal/core/ports"
)

const (
	msgUserCreated         = "User created"
	msgLoginSuccess        = "Login success"
	msgCurrentUser         = "Current user"
	msgTokenRefreshed      = "Token refreshed"
	msgValidationError     = "Validation error"
	msgInvalidCredentials  = "Invalid credentials"
	msgInvalidPayload      = "Invalid payload"
	msgMissingRefreshToken = "Missing refresh token"
	msgInvalidRefreshToken = "Invalid refresh token"
	msgTokenNotValid       = "Token is invalid or expired"
	msgUserNotFound        = "User not found"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup creates a new user account.
//
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  response.Envelope{data=userResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /api/accounts/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, msgInvalidPayload)
	}

	user, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if ve, ok := asValidationError(err); ok {
			return response.FailFields(c, http.StatusBadRequest, msgValidationError, ve.Fields)
		}
		return err
	}

	return response.OK(c, http.StatusCreated, msgUserCreated, toUserResponse(user))
}

// Login exchanges credentials for an access and a refresh token.
//
// @Summary      Login
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  response.Envelope{data=tokenPairResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /api/accounts/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, msgInvalidPayload)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailure(c, err)
	}

	pair, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return response.Fail(c, http.StatusBadRequest, msgInvalidCredentials)
		}
		return validationFailure(c, err)
	}

	return response.OK(c, http.StatusOK, msgLoginSuccess, tokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// Logout revokes the caller's refresh token. The access token stays valid
// until it expires.
//
// @Summary      Logout
// @Tags         accounts
// @Accept       json
// @Security     BearerAuth
// @Param        body  body      refreshRequest  true  "Refresh token to revoke"
// @Success      204
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /api/accounts/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok := ctxUserID(c)
	if !ok {
		return notAuthenticated(c)
	}

	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, msgInvalidPayload)
	}
	if err := c.Validate(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, msgMissingRefreshToken)
	}

	if err := h.authService.Logout(c.Request().Context(), userID, req.Refresh); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return response.Fail(c, http.StatusBadRequest, msgInvalidRefreshToken)
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated account.
//
// @Summary      Current user
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  response.Envelope{data=userResponse}
// @Failure      401   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /api/accounts/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := ctxUserID(c)
	if !ok {
		return notAuthenticated(c)
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		// A valid token for a deleted account.
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.FailCode(c, http.StatusUnauthorized, msgUserNotFound, response.CodeUserNotFound)
		}
		return err
	}

	return response.OK(c, http.StatusOK, msgCurrentUser, toUserResponse(user))
}

// Refresh mints a new access token from a refresh token. The refresh token
// is not rotated.
//
// @Summary      Refresh access token
// @Tags         token
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  response.Envelope{data=accessResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /api/token/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, msgInvalidPayload)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailure(c, err)
	}

	access, err := h.authService.RefreshAccess(c.Request().Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return response.FailCode(c, http.StatusUnauthorized, msgTokenNotValid, response.CodeTokenNotValid)
		}
		return err
	}

	return response.OK(c, http.StatusOK, msgTokenRefreshed, accessResponse{Access: access})
}

func asValidationError(err error) (*domain.ValidationError, bool) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// validationFailure renders a *domain.ValidationError as 400 and hands any
// other error to the central error handler.
func validationFailure(c echo.Context, err error) error {
	if ve, ok := asValidationError(err); ok {
		return response.FailFields(c, http.StatusBadRequest, msgValidationError, ve.Fields)
	}
	return err
}
