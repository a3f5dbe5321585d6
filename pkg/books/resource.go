package books

import (
	"fmt"
	"strings"

	"github.com/librisbooks/libris/pkg/models"
)

// BookResource is the outward representation of a book: a view, not the
// stored record verbatim. The author is upper-cased for display and every
// resource carries hypermedia links addressable via its id.
type BookResource struct {
	ID      int           `json:"id"`
	Title   string        `json:"title"`
	Author  string        `json:"author"`
	Summary string        `json:"summary"`
	ISBN    string        `json:"isbn"`
	Links   ResourceLinks `json:"_links"`
}

type ResourceLinks struct {
	Self   string `json:"self"`
	Update string `json:"update"`
	Delete string `json:"delete"`
	All    string `json:"all"`
}

// BookResponse is the envelope for a single book.
type BookResponse struct {
	Data *BookResource `json:"data"`
}

// ListResponse is the envelope for a page of books, with navigation links
// and pagination metadata.
type ListResponse struct {
	Data  []*BookResource `json:"data"`
	Links ListLinks       `json:"links"`
	Meta  ListMeta        `json:"meta"`
}

// ListLinks carries page navigation. Prev and Next are null at the
// respective boundary.
type ListLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// ListMeta describes the current page. From and To are null on an empty
// page.
type ListMeta struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	Total       int  `json:"total"`
	From        *int `json:"from"`
	To          *int `json:"to"`
}

func NewBookResource(book *models.Book) *BookResource {
	self := fmt.Sprintf("/books/%d", book.ID)
	return &BookResource{
		ID:      book.ID,
		Title:   book.Title,
		Author:  strings.ToUpper(book.Author),
		Summary: book.Summary,
		ISBN:    book.ISBN,
		Links: ResourceLinks{
			Self:   self,
			Update: self,
			Delete: self,
			All:    "/books",
		},
	}
}

func NewBookResponse(book *models.Book) *BookResponse {
	return &BookResponse{Data: NewBookResource(book)}
}

func NewListResponse(books []*models.Book, total, page, perPage int) *ListResponse {
	resources := make([]*BookResource, 0, len(books))
	for _, book := range books {
		resources = append(resources, NewBookResource(book))
	}

	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	links := ListLinks{
		First: pageURL(1, perPage),
		Last:  pageURL(lastPage, perPage),
	}
	if page > 1 {
		prev := pageURL(page-1, perPage)
		links.Prev = &prev
	}
	if page < lastPage {
		next := pageURL(page+1, perPage)
		links.Next = &next
	}

	meta := ListMeta{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
	}
	if len(books) > 0 {
		from := (page-1)*perPage + 1
		to := from + len(books) - 1
		meta.From = &from
		meta.To = &to
	}

	return &ListResponse{Data: resources, Links: links, Meta: meta}
}

func pageURL(page, perPage int) string {
	return fmt.Sprintf("/books?page=%d&per_page=%d", page, perPage)
}
