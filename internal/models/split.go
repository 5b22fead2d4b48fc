package models

import "github.com/shopspring/decimal"

// PersonItem is one person's share of a single line item.
type PersonItem struct {
	ItemID string

	Name string

	// Price is the full item price before splitting.
	Price decimal.Decimal

	// SplitCount is how many people share the item (at least 1).
	SplitCount int

	// SharePrice is this person's cent-rounded share. Shares of one item
	// always add back up to Price.
	SharePrice decimal.Decimal

	// ExactShare is Price / SplitCount without rounding.
	ExactShare decimal.Decimal
}

// PersonSummary lists the items assigned to one person.
type PersonSummary struct {
	Participant Participant
	Items       []PersonItem

	// Subtotal is the sum of SharePrice over Items.
	Subtotal decimal.Decimal
}

// PersonAllocation is one person's calculated share of a bill.
// This is the output of the allocation engine.
type PersonAllocation struct {
	Participant Participant

	// Items are the specific items assigned to this person with their share amounts.
	Items []PersonItem

	// Subtotal is the sum of this person's item shares (pre-tax).
	Subtotal decimal.Decimal

	// TaxShare is subtotal / overall items total × tax.
	TaxShare decimal.Decimal

	// TipShare is subtotal / overall items total × tip.
	TipShare decimal.Decimal

	// Percentage is this person's portion of the assigned items, 0-100.
	Percentage decimal.Decimal

	// GrandTotal is Subtotal + TaxShare + TipShare.
	GrandTotal decimal.Decimal
}

// Allocation is the full breakdown of a receipt across its participants.
type Allocation struct {
	// People follow the order of the participant list given to the calculator.
	People []PersonAllocation

	// OverallItemsTotal is the sum of assigned item shares only. It is lower
	// than Totals.Subtotal when some items are unassigned.
	OverallItemsTotal decimal.Decimal

	// Totals are the bill-level figures of the receipt itself.
	Totals ReceiptTotals

	// UnassignedItemIDs lists items that nobody is paying for.
	UnassignedItemIDs []string
}

// AllocatedTotal is the sum of every person's grand total.
func (a *Allocation) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range a.People {
		total = total.Add(p.GrandTotal)
	}
	return total
}

// Person returns the allocation for a participant ID.
func (a *Allocation) Person(id string) (PersonAllocation, bool) {
	for _, p := range a.People {
		if p.Participant.ID == id {
			return p, true
		}
	}
	return PersonAllocation{}, false
}
