package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/librisbooks/libris/pkg/bookcache"
	"github.com/librisbooks/libris/pkg/errcodes"
	"github.com/librisbooks/libris/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID int

	// SkipCache bypasses the read-through cache and goes straight to the
	// store. Used when resolving a book ahead of a mutation.
	SkipCache bool
}

type ListBooksOptions struct {
	Page    int
	PerPage int
}

type UpdateBookOptions struct {
	Columns []string
}

type Service struct {
	db    *bun.DB
	cache *bookcache.Cache
}

func NewService(db *bun.DB, cache *bookcache.Cache) *Service {
	return &Service{db: db, cache: cache}
}

func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	// No existence pre-check: the unique index on isbn decides races
	// between concurrent creates.
	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isISBNConflict(err) {
			return isbnTakenError()
		}
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	if opts.SkipCache {
		return svc.retrieveBookFromStore(ctx, opts.ID)
	}

	return svc.cache.GetOrLoad(ctx, opts.ID, func(ctx context.Context) (*models.Book, error) {
		return svc.retrieveBookFromStore(ctx, opts.ID)
	})
}

func (svc *Service) retrieveBookFromStore(ctx context.Context, id int) (*models.Book, error) {
	book := &models.Book{}

	err := svc.db.
		NewSelect().
		Model(book).
		Where("b.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	books := []*models.Book{}

	// List pages are never cached; only single-item lookups are.
	total, err := svc.db.
		NewSelect().
		Model(&books).
		Order("b.id ASC").
		Limit(opts.PerPage).
		Offset((opts.Page - 1) * opts.PerPage).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	// Invalidate before mutating so no reader can observe a stale snapshot
	// after this call returns. The cost is one extra cache miss.
	svc.cache.Invalidate(book.ID)

	now := time.Now()
	book.UpdatedAt = now
	columns := make([]string, 0, len(opts.Columns)+1)
	columns = append(columns, opts.Columns...)
	columns = append(columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(book).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if isISBNConflict(err) {
			return isbnTakenError()
		}
		return errors.WithStack(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return errcodes.NotFound("Book")
	}

	return nil
}

func (svc *Service) DeleteBook(ctx context.Context, id int) error {
	// Same ordering as UpdateBook: drop the cache entry first.
	svc.cache.Invalidate(id)

	res, err := svc.db.
		NewDelete().
		Model((*models.Book)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return errcodes.NotFound("Book")
	}

	return nil
}

// isISBNConflict reports whether err is the unique index on books.isbn
// firing. Both sqlite drivers behind sqliteshim report the violated
// column in the error text.
func isISBNConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: books.isbn")
}

func isbnTakenError() error {
	msg := `"isbn" has already been taken`
	return errcodes.ValidationFailed(msg, map[string][]string{
		"isbn": {msg},
	})
}
