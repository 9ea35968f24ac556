package order

import (
	"fmt"
	"strconv"
	"time"

	"snackhub/internal/cache"
)

type Status string

const (
	StatusPending         Status = "PENDING"
	StatusApproved        Status = "APPROVED"
	StatusInstantApproved Status = "INSTANT_APPROVED"
	StatusRejected        Status = "REJECTED"
	StatusCanceled        Status = "CANCELED"
)

// ParseStatus decodes a wire status. Unknown strings are an error: silently
// mapping drifted backend statuses to PENDING would mask schema drift.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusInstantApproved, StatusRejected, StatusCanceled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// Terminal reports whether no further transition can leave s. Everything
// but PENDING is terminal.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// CountsAsExpense reports whether an order in this status is part of the
// month's realized expense.
func (s Status) CountsAsExpense() bool {
	return s == StatusApproved || s == StatusInstantApproved
}

// CanTransition reports whether from may move to to. Only PENDING has
// exits; INSTANT_APPROVED exists solely at creation time and is never a
// transition target.
func CanTransition(from, to Status) bool {
	if from != StatusPending {
		return false
	}
	switch to {
	case StatusApproved, StatusRejected, StatusCanceled:
		return true
	default:
		return false
	}
}

// Order is a purchase request. TotalPrice is the snapshot sum of product
// prices times quantities at submission time and is never recomputed, even
// when product prices later change.
type Order struct {
	ID             int64
	UserID         int64
	RequestMessage string
	AdminMessage   string
	TotalPrice     int64
	Status         Status
	Products       []OrderProduct
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type OrderProduct struct {
	ProductID int64
	Name      string
	Price     int64
	Quantity  int
}

// Cache keys. Everything lives under the "order" prefix so one
// invalidation covers lists and details together.
var KeyPrefix = cache.Key("order")

func DetailKey(id int64) cache.Key {
	return cache.NewKey("order", strconv.FormatInt(id, 10))
}

func ListKey(status *Status) cache.Key {
	if status == nil {
		return cache.NewKey("order", "list", "ALL")
	}
	return cache.NewKey("order", "list", string(*status))
}

// ParseID validates a raw order id before any request is issued. A
// non-numeric or non-positive id never reaches the wire.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOrderID, raw)
	}
	return id, nil
}
