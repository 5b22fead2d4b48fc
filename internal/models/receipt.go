package models

import "github.com/shopspring/decimal"

// Participant is a person splitting the bill.
type Participant struct {
	// ID is the unique identifier within a session (UUID format).
	ID string

	// Name is the display name (e.g., "Alice").
	Name string

	// Initials are shown on assignment chips. Display only.
	Initials string
}

// LineItem is a single priced entry on a receipt.
type LineItem struct {
	// ID is unique within a receipt (UUID format).
	ID string

	// Name is the item name as printed on the receipt (e.g., "French Fries").
	Name string

	// Price is the non-negative pre-tax price.
	Price decimal.Decimal

	// ParticipantIDs are the people sharing this item. Order carries no
	// meaning and an empty list marks the item as unassigned.
	ParticipantIDs []string
}

// Assigned reports whether anyone is assigned to the item.
func (i LineItem) Assigned() bool {
	return len(i.ParticipantIDs) > 0
}

// HasParticipant reports whether id is assigned to the item.
func (i LineItem) HasParticipant(id string) bool {
	for _, p := range i.ParticipantIDs {
		if p == id {
			return true
		}
	}
	return false
}

// Receipt is one bill being split.
type Receipt struct {
	// Items are kept in display order only.
	Items []LineItem

	// TaxAmount is the non-negative tax charged on the bill.
	TaxAmount decimal.Decimal

	// TipAmount is the non-negative tip left on the bill.
	TipAmount decimal.Decimal
}

// Clone returns a deep copy safe to hand to another goroutine.
func (r Receipt) Clone() Receipt {
	out := Receipt{
		Items:     make([]LineItem, len(r.Items)),
		TaxAmount: r.TaxAmount,
		TipAmount: r.TipAmount,
	}
	for i, item := range r.Items {
		item.ParticipantIDs = append([]string(nil), item.ParticipantIDs...)
		out.Items[i] = item
	}
	return out
}

// ReceiptTotals are the bill-level figures shown on the order summary.
type ReceiptTotals struct {
	// Subtotal is the raw sum of every item price, assigned or not.
	Subtotal decimal.Decimal

	Tax decimal.Decimal

	// TotalAfterTax is Subtotal + Tax.
	TotalAfterTax decimal.Decimal

	Tip decimal.Decimal

	// GrandTotal is Subtotal + Tax + Tip.
	GrandTotal decimal.Decimal
}
