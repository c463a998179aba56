package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, userID string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"user_id": userID, "exp": exp.Unix()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runMiddleware(t *testing.T, target string, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	var gotUserID string
	h := JWT([]byte(testSecret))(func(c echo.Context) error {
		gotUserID, _ = c.Get("user_id").(string)
		return c.NoContent(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec, gotUserID
}

func TestJWTFromHeader(t *testing.T) {
	token := signToken(t, testSecret, "u42", time.Now().Add(time.Hour))
	rec, userID := runMiddleware(t, "/gigs/me", "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d (body %s)", rec.Code, rec.Body.String())
	}
	if userID != "u42" {
		t.Fatalf("user_id = %q, want u42", userID)
	}
}

func TestJWTFromQueryParam(t *testing.T) {
	// websocket clients pass the token as a query parameter
	token := signToken(t, testSecret, "u42", time.Now().Add(time.Hour))
	rec, userID := runMiddleware(t, "/ws?token="+token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if userID != "u42" {
		t.Fatalf("user_id = %q, want u42", userID)
	}
}

func TestJWTRejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing token", ""},
		{"garbage token", "Bearer not-a-token"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", "u42", time.Now().Add(time.Hour))},
		{"expired", "Bearer " + signToken(t, testSecret, "u42", time.Now().Add(-time.Hour))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := runMiddleware(t, "/gigs/me", tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("code = %d, want 401", rec.Code)
			}
		})
	}
}
