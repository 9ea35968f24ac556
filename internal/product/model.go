package product

import (
	"strconv"
	"time"

	"snackhub/internal/cache"
)

// Product is a catalog entry registered by a user. Prices are integer won
// and always positive. Deletion is soft: DeletedAt is set, the row stays in
// the authoritative store, and listings filter it out.
type Product struct {
	ID         int64
	CategoryID int
	CreatorID  int64
	Name       string
	Price      int64
	ImageURL   string
	LinkURL    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

func (p *Product) Deleted() bool {
	return p.DeletedAt != nil
}

var KeyPrefix = cache.Key("product")

func DetailKey(id int64) cache.Key {
	return cache.NewKey("product", strconv.FormatInt(id, 10))
}

func ListKey(categoryID int) cache.Key {
	if categoryID == 0 {
		return cache.NewKey("product", "list", "ALL")
	}
	return cache.NewKey("product", "list", strconv.Itoa(categoryID))
}
