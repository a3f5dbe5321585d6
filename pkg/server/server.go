package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/librisbooks/libris/pkg/auth"
	"github.com/librisbooks/libris/pkg/binder"
	"github.com/librisbooks/libris/pkg/bookcache"
	"github.com/librisbooks/libris/pkg/books"
	"github.com/librisbooks/libris/pkg/config"
	"github.com/librisbooks/libris/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)
	e.GET("/ping", ping)

	authService := auth.NewService(db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)
	auth.RegisterRoutes(e, authService, authMiddleware, cfg.LoginRateLimitPerMinute)

	// One process-wide cache for single-book lookups.
	cache := bookcache.New(cfg.BookCacheCapacity, cfg.BookCacheTTL)

	booksGroup := e.Group("/books")
	books.RegisterRoutesWithGroup(booksGroup, db, cache, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func ping(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"message": "pong"}))
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
