package budget

import (
	"snackhub/internal/cache"
	"snackhub/internal/order"
)

// Budget is the company's shared monthly budget. Amounts are integer won.
// Invariant: CurrentMonthExpense equals the sum of TotalPrice over the
// month's APPROVED and INSTANT_APPROVED orders; PENDING orders are only
// reserved, never expensed.
type Budget struct {
	CurrentMonthBudget  int64
	CurrentMonthExpense int64
}

// Key is where the budget lives in the cache. Transitions that change
// expense invalidate this key rather than patching the cached value.
var Key = cache.Key("budget")

// Remaining is the budget left after realized expense.
func Remaining(b Budget) int64 {
	return b.CurrentMonthBudget - b.CurrentMonthExpense
}

// Reserved sums the totals of PENDING orders: money spoken for but not yet
// expensed.
func Reserved(orders []*order.Order) int64 {
	var total int64
	for _, o := range orders {
		if o.Status == order.StatusPending {
			total += o.TotalPrice
		}
	}
	return total
}

// Headroom is what a user can still request: remaining minus reserved. It
// is recomputed from its inputs on every call and never cached as a derived
// value, so staleness cannot compound.
func Headroom(b Budget, pendingOrders []*order.Order) int64 {
	return Remaining(b) - Reserved(pendingOrders)
}
