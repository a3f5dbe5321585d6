package books

type ListBooksQuery struct {
	Page    int `query:"page" json:"page,omitempty" default:"1" validate:"min=1"`
	PerPage int `query:"per_page" json:"per_page,omitempty" default:"10" validate:"min=1,max=100"`
}

// CreateBookPayload requires every field; there are no partial creates.
type CreateBookPayload struct {
	Title   string `json:"title" mod:"trim" validate:"required,min=3,max=255"`
	Author  string `json:"author" mod:"trim" validate:"required,min=3,max=100"`
	Summary string `json:"summary" mod:"trim" validate:"required,min=10,max=500"`
	ISBN    string `json:"isbn" mod:"trim" validate:"required,len=13"`
}

// UpdateBookPayload re-validates the same rules as create: updates rewrite
// all four fields, never a subset.
type UpdateBookPayload struct {
	Title   string `json:"title" mod:"trim" validate:"required,min=3,max=255"`
	Author  string `json:"author" mod:"trim" validate:"required,min=3,max=100"`
	Summary string `json:"summary" mod:"trim" validate:"required,min=10,max=500"`
	ISBN    string `json:"isbn" mod:"trim" validate:"required,len=13"`
}
