package favorite

import (
	"strconv"

	"snackhub/internal/cache"
)

// Favorite marks a product as favorited by a user. Existence is the whole
// state: unique per (user, product), boolean-equivalent.
type Favorite struct {
	ID        int64
	UserID    int64
	ProductID int64
}

var ListKey = cache.NewKey("favorite", "list")

// FlagKey holds the cached boolean for one product's favorite state.
func FlagKey(productID int64) cache.Key {
	return cache.NewKey("favorite", strconv.FormatInt(productID, 10))
}
