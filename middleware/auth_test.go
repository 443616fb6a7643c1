package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"

	"deal-detector/pkg/apperrors"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()
	viper.Set("JWT_SECRET", testSecret)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/coupons", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return c, JWTMiddleware()(next)(c)
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"email": "user@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	c, err := runAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if mailbox, _ := c.Get("mailbox").(string); mailbox != "user@example.com" {
		t.Errorf("mailbox = %q, want user@example.com", mailbox)
	}
}

func TestJWTMiddlewareRejections(t *testing.T) {
	expired := signToken(t, jwt.MapClaims{
		"email": "user@example.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	noEmail := signToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", apperrors.ErrCodeTokenMalformed},
		{"not a bearer token", "Basic dXNlcjpwYXNz", apperrors.ErrCodeTokenMalformed},
		{"garbage token", "Bearer not.a.token", apperrors.ErrCodeTokenInvalid},
		{"expired token", "Bearer " + expired, apperrors.ErrCodeTokenExpired},
		{"missing email claim", "Bearer " + noEmail, apperrors.ErrCodeTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runAuth(t, tt.header)
			appErr, ok := apperrors.AsAppError(err)
			if !ok {
				t.Fatalf("err = %v, want AppError", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", appErr.Code, tt.wantCode)
			}
			if appErr.HTTPStatus != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", appErr.HTTPStatus)
			}
		})
	}
}
