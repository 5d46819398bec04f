// Package response renders the JSON envelope shared by every endpoint:
//
//	{"success": bool, "message": string, "data": ..., "errors": {...}, "code": "..."}
package response

import (
	"github.com/labstack/echo/v4"
)

// Machine-readable failure codes.
const (
	CodeTokenNotValid    = "token_not_valid"
	CodeNotAuthenticated = "not_authenticated"
	CodeBadAuthHeader    = "bad_authorization_header"
	CodeUserNotFound     = "user_not_found"
	CodeInternal         = "internal_error"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Code    string              `json:"code,omitempty"`
} // @name Envelope

// OK writes a successful envelope carrying data.
func OK(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failed envelope with only a message.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Message: message})
}

// FailFields writes a failed envelope with a field to messages map.
func FailFields(c echo.Context, status int, message string, fields map[string][]string) error {
	return c.JSON(status, Envelope{Message: message, Errors: fields})
}

// FailCode writes a failed envelope with a machine-readable code.
func FailCode(c echo.Context, status int, message, code string) error {
	return c.JSON(status, Envelope{Message: message, Code: code})
}
