package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/minitwitter/accounts-auth/internal/api/response"
	"github.com/minitwitter/accounts-auth/internal/core/domain"
)

type stubVerifier struct {
	tokens map[string]string // token -> user id
	seen   []string
}

func (v *stubVerifier) VerifyAccess(token string) (string, error) {
	v.seen = append(v.seen, token)
	if id, ok := v.tokens[token]; ok {
		return id, nil
	}
	return "", domain.ErrTokenInvalid
}

func runAuth(t *testing.T, header string, v *stubVerifier) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(v)(func(c echo.Context) error {
		called = true
		if c.Get(ContextUserID) != "user-1" {
			t.Fatalf("user id not set, got %v", c.Get(ContextUserID))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func decodeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env response.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if env.Success {
		t.Fatalf("expected success=false")
	}
	return env.Code
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	v := &stubVerifier{tokens: map[string]string{"good": "user-1"}}

	rec, called := runAuth(t, "Bearer good", v)
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	v := &stubVerifier{tokens: map[string]string{"good": "user-1"}}

	if _, called := runAuth(t, "bearer good", v); !called {
		t.Fatalf("next not called for lowercase scheme")
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	v := &stubVerifier{}

	rec, called := runAuth(t, "", v)
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := decodeCode(t, rec); code != response.CodeNotAuthenticated {
		t.Fatalf("expected %s, got %s", response.CodeNotAuthenticated, code)
	}
	if len(v.seen) != 0 {
		t.Fatalf("verifier must not be called without a token")
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "Bearer a b"} {
		rec, called := runAuth(t, header, &stubVerifier{})
		if called {
			t.Fatalf("%q: should not reach next", header)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, rec.Code)
		}
		if code := decodeCode(t, rec); code != response.CodeBadAuthHeader {
			t.Fatalf("%q: expected %s, got %s", header, response.CodeBadAuthHeader, code)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	v := &stubVerifier{tokens: map[string]string{"good": "user-1"}}

	rec, called := runAuth(t, "Bearer not-a-token", v)
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := decodeCode(t, rec); code != response.CodeTokenNotValid {
		t.Fatalf("expected %s, got %s", response.CodeTokenNotValid, code)
	}
}
