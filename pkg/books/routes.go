package books

import (
	"github.com/labstack/echo/v4"
	"github.com/librisbooks/libris/pkg/auth"
	"github.com/librisbooks/libris/pkg/bookcache"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on a pre-configured group.
// Reads are public; every mutating route requires a bearer token.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cache *bookcache.Cache, authMiddleware *auth.Middleware) {
	bookService := NewService(db, cache)

	h := &handler{
		bookService: bookService,
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.POST("", h.create, authMiddleware.Authenticate)
	g.PUT("/:id", h.update, authMiddleware.Authenticate)
	g.PATCH("/:id", h.update, authMiddleware.Authenticate)
	g.DELETE("/:id", h.destroy, authMiddleware.Authenticate)
}
