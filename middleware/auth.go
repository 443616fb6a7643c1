package middleware

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"

	"deal-detector/pkg/apperrors"
)

// JWTMiddleware validates bearer tokens issued by the account frontend
// and scopes the request to the mailbox in the token's email claim.
func JWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return apperrors.NewUnauthorized(apperrors.ErrCodeTokenMalformed, "Missing bearer token")
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(viper.GetString("JWT_SECRET")), nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return apperrors.NewUnauthorized(apperrors.ErrCodeTokenExpired, "Token expired")
				}
				return apperrors.NewUnauthorized(apperrors.ErrCodeTokenInvalid, "Invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || !token.Valid {
				return apperrors.NewUnauthorized(apperrors.ErrCodeTokenInvalid, "Invalid token claims")
			}

			mailbox, _ := claims["email"].(string)
			if mailbox == "" {
				return apperrors.NewUnauthorized(apperrors.ErrCodeTokenInvalid, "Token missing email claim")
			}

			c.Set("mailbox", mailbox)
			return next(c)
		}
	}
}
