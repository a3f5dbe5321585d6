package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Token is a persisted bearer token. The row is the source of truth for
// revocation: logout deletes it, and a JWT whose id has no row is rejected
// even if its signature is still valid.
type Token struct {
	bun.BaseModel `bun:"table:api_tokens,alias:t"`

	ID        string    `bun:",pk" json:"id"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}
