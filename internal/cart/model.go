package cart

import "snackhub/internal/cache"

// Item is one pending selection in the user's cart. It exists only between
// cart-add and order-submit-or-remove; IsChecked marks it for the next
// submission.
type Item struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
	IsChecked bool
}

var Key = cache.Key("cart")
