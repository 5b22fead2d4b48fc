package models

import "github.com/shopspring/decimal"

// Payment records money a participant put toward the bill.
type Payment struct {
	// ParticipantID is who paid.
	ParticipantID string

	// Amount is the payment amount.
	Amount decimal.Decimal
}

// Balance is one participant's position after settling a bill.
type Balance struct {
	ParticipantID string

	// Paid is the total of this participant's payments.
	Paid decimal.Decimal

	// Owed is this participant's grand total.
	Owed decimal.Decimal

	// Net is Paid - Owed. Positive means the participant is owed money.
	Net decimal.Decimal
}

// Transfer is a payment one participant should make to another.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
}
