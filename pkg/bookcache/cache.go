package bookcache

import (
	"context"
	"strconv"
	"time"

	"github.com/librisbooks/libris/pkg/models"
	"github.com/viccon/sturdyc"
)

const (
	numShards          = 64
	evictionPercentage = 10
)

// Loader fetches a book from the source of truth on a cache miss.
type Loader func(ctx context.Context) (*models.Book, error)

// Cache is the read-through cache for single-book lookups, keyed
// "book:{id}". It is an optimization only: a flush never changes what reads
// return, just how fast. Writers must call Invalidate before touching the
// store so a stale entry can't outlive a successful mutation.
type Cache struct {
	client *sturdyc.Client[*models.Book]
}

// New creates a cache holding up to capacity entries that expire ttl after
// insertion.
func New(capacity int, ttl time.Duration) *Cache {
	return &Cache{
		client: sturdyc.New[*models.Book](capacity, numShards, ttl, evictionPercentage),
	}
}

// Key returns the cache key for a book id.
func Key(id int) string {
	return "book:" + strconv.Itoa(id)
}

// GetOrLoad returns the cached snapshot for id if present and unexpired;
// otherwise it invokes the loader, stores the result, and returns it. Loader
// errors pass through uncached, so a NotFound doesn't stick.
func (c *Cache) GetOrLoad(ctx context.Context, id int, loader Loader) (*models.Book, error) {
	return c.client.GetOrFetch(ctx, Key(id), sturdyc.FetchFn[*models.Book](loader))
}

// Invalidate removes any entry for id. It is a no-op when the entry is
// absent.
func (c *Cache) Invalidate(id int) {
	c.client.Delete(Key(id))
}
