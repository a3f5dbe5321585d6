package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/librisbooks/libris/pkg/errcodes"
)

// Middleware guards routes that require a bearer token.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{authService: authService}
}

// Authenticate requires a valid, unrevoked bearer token in the Authorization
// header. On success the user and token id are stored on the request context.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return errcodes.Unauthenticated()
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if tokenString == "" {
			return errcodes.Unauthenticated()
		}

		user, claims, err := m.authService.ValidateToken(ctx, tokenString)
		if err != nil {
			return errcodes.Unauthenticated()
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("token_id", claims.ID)

		return next(c)
	}
}
