package auth

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RegisterRoutes registers the register/login/logout routes. Login is rate
// limited per client IP to slow down credential stuffing.
func RegisterRoutes(e *echo.Echo, authService *Service, authMiddleware *Middleware, loginRatePerMinute float64) {
	h := &handler{
		authService: authService,
	}

	loginLimiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(loginRatePerMinute / 60.0),
			Burst:     int(loginRatePerMinute),
			ExpiresIn: 3 * time.Minute,
		}),
	})

	e.POST("/register", h.register)
	e.POST("/login", h.login, loginLimiter)
	e.GET("/user", h.currentUser, authMiddleware.Authenticate)
	e.POST("/logout", h.logout, authMiddleware.Authenticate)
}
