package domain

import "github.com/google/uuid"

// Item is a single packing-list entry. Category always names one of the
// owning trip's categories or Uncategorized.
type Item struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Quantity int       `json:"quantity"`
}

// ItemPatch carries the fields of a partial item update.
type ItemPatch struct {
	Name     *string
	Category *string
	Quantity *int
}

// DefaultQuantity is used when an item is added without a quantity.
const DefaultQuantity = 1

// ItemInput describes an item to add. A nil Quantity means DefaultQuantity;
// a blank Category means Uncategorized.
type ItemInput struct {
	Name     string
	Category string
	Quantity *int
}
