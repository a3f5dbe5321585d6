package books

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/librisbooks/libris/pkg/binder"
	"github.com/librisbooks/libris/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBooksTestContext(t *testing.T, method, path, payload string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	if payload != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func TestHandlerCreate(t *testing.T) {
	t.Parallel()

	h := &handler{bookService: newTestService(t)}

	c, rr := newBooksTestContext(t, http.MethodPost, "/books", `{
		"title": "Les Misérables",
		"author": "Moi-même",
		"summary": "An ex-convict tries to outrun his past in post-revolutionary France.",
		"isbn": "9780451419439"
	}`)

	err := h.create(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp BookResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Les Misérables", resp.Data.Title)
	assert.Equal(t, "MOI-MÊME", resp.Data.Author)
	assert.Equal(t, "/books/"+strconv.Itoa(resp.Data.ID), resp.Data.Links.Self)
	assert.Equal(t, "/books", resp.Data.Links.All)
}

func TestHandlerCreate_ValidationErrors(t *testing.T) {
	t.Parallel()

	h := &handler{bookService: newTestService(t)}

	// Every offending field is reported, not just the first one.
	c, _ := newBooksTestContext(t, http.MethodPost, "/books", `{
		"title": "ab",
		"author": "xy",
		"summary": "too short",
		"isbn": "123"
	}`)

	err := h.create(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 422, codeErr.HTTPCode)
	assert.Contains(t, codeErr.Errors, "title")
	assert.Contains(t, codeErr.Errors, "author")
	assert.Contains(t, codeErr.Errors, "summary")
	assert.Contains(t, codeErr.Errors, "isbn")
	assert.Equal(t, []string{`"isbn" must be exactly 13 characters`}, codeErr.Errors["isbn"])
}

func TestHandlerCreate_ISBNLengthBoundaries(t *testing.T) {
	t.Parallel()

	h := &handler{bookService: newTestService(t)}

	for _, isbn := range []string{"978045141943", "97804514194390"} {
		c, _ := newBooksTestContext(t, http.MethodPost, "/books", `{
			"title": "Les Misérables",
			"author": "Victor Hugo",
			"summary": "An ex-convict tries to outrun his past in post-revolutionary France.",
			"isbn": "`+isbn+`"
		}`)

		err := h.create(c)
		require.Error(t, err)

		var codeErr *errcodes.Error
		require.ErrorAs(t, err, &codeErr)
		assert.Contains(t, codeErr.Errors, "isbn")
	}
}

func TestHandlerRetrieve(t *testing.T) {
	t.Parallel()

	h := &handler{bookService: newTestService(t)}
	book := createTestBook(context.Background(), t, h.bookService, "9780451419439")

	c, rr := newBooksTestContext(t, http.MethodGet, "/books/"+strconv.Itoa(book.ID), "")
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(book.ID))

	err := h.retrieve(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp BookResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, book.ID, resp.Data.ID)
	assert.Equal(t, "VICTOR HUGO", resp.Data.Author)
}

func TestHandlerRetrieve_NotFound(t *testing.T) {
	t.Parallel()

	h := &handler{bookService: newTestService(t)}

	c, _ := newBooksTestContext(t, http.MethodGet, "/books/999", "")
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues("999")

	err := h.retrieve(c)
	require.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestHandlerRetrieve_NonNumericID(t *testing.T) {
	t.Parallel()

	h := &handler{bookService: newTestService(t)}

	c, _ := newBooksTestContext(t, http.MethodGet, "/books/abc", "")
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.retrieve(c)
	require.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestHandlerUpdate(t *testing.T) {
	t.Parallel()

	h := &handler{bookService: newTestService(t)}
	ctx := context.Background()
	book := createTestBook(ctx, t, h.bookService, "9780451419439")

	c, rr := newBooksTestContext(t, http.MethodPut, "/books/"+strconv.Itoa(book.ID), `{
		"title": "Les Misérables, Tome II",
		"author": "Victor Hugo",
		"summary": "The story continues through the barricades of June 1832.",
		"isbn": "9780451419439"
	}`)
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(book.ID))

	err := h.update(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	updated, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: book.ID})
	require.NoError(t, err)
	assert.Equal(t, "Les Misérables, Tome II", updated.Title)
}

func TestHandlerUpdate_MissingBookIs404BeforeValidation(t *testing.T) {
	t.Parallel()

	h := &handler{bookService: newTestService(t)}

	// The payload is invalid too, but the absent id wins.
	c, _ := newBooksTestContext(t, http.MethodPut, "/books/999", `{"title":"x"}`)
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues("999")

	err := h.update(c)
	require.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestHandlerDestroy(t *testing.T) {
	t.Parallel()

	h := &handler{bookService: newTestService(t)}
	ctx := context.Background()
	book := createTestBook(ctx, t, h.bookService, "9780451419439")

	c, rr := newBooksTestContext(t, http.MethodDelete, "/books/"+strconv.Itoa(book.ID), "")
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(book.ID))

	err := h.destroy(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	_, err = h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: book.ID})
	require.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestHandlerList(t *testing.T) {
	t.Parallel()

	h := &handler{bookService: newTestService(t)}
	ctx := context.Background()
	for _, isbn := range []string{"9780000000001", "9780000000002", "9780000000003"} {
		createTestBook(ctx, t, h.bookService, isbn)
	}

	c, rr := newBooksTestContext(t, http.MethodGet, "/books?page=2&per_page=1", "")

	err := h.list(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 3, resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.CurrentPage)
	require.NotNil(t, resp.Links.Prev)
	require.NotNil(t, resp.Links.Next)
	assert.Equal(t, "/books?page=1&per_page=1", *resp.Links.Prev)
	assert.Equal(t, "/books?page=3&per_page=1", *resp.Links.Next)
}

func TestHandlerList_DefaultsApply(t *testing.T) {
	t.Parallel()

	h := &handler{bookService: newTestService(t)}

	c, rr := newBooksTestContext(t, http.MethodGet, "/books", "")

	err := h.list(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Meta.CurrentPage)
	assert.Equal(t, 10, resp.Meta.PerPage)
	assert.Nil(t, resp.Meta.From)
	assert.Nil(t, resp.Meta.To)
}

func TestHandlerList_PerPageCap(t *testing.T) {
	t.Parallel()

	h := &handler{bookService: newTestService(t)}

	c, _ := newBooksTestContext(t, http.MethodGet, "/books?per_page=101", "")

	err := h.list(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 422, codeErr.HTTPCode)
}
