package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"halforder/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const roleKey = "role"

// RoleClaims is the token payload issued by the restaurant admin application.
type RoleClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RoleMiddleware resolves the caller role from an HS256 bearer token. Requests
// without a token act as customers; a token that does not verify is rejected.
func RoleMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				c.Set(roleKey, kernel.RoleCustomer)
				return next(c)
			}

			role, err := parseRole(header, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: err.Error()})
			}
			c.Set(roleKey, role)
			return next(c)
		}
	}
}

func parseRole(header string, secret []byte) (kernel.Role, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", errors.New("authorization header must be a bearer token")
	}

	var claims RoleClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	return kernel.ParseRole(claims.Role)
}

// IssueToken signs a role token. It is used by matchctl and the tests.
func IssueToken(secret []byte, role kernel.Role, claims jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RoleClaims{Role: role.String(), RegisteredClaims: claims})
	return token.SignedString(secret)
}

func roleFrom(c echo.Context) kernel.Role {
	if role, ok := c.Get(roleKey).(kernel.Role); ok {
		return role
	}
	return kernel.RoleCustomer
}
