// Package models defines the core domain models for tabsplit.
//
// # Inputs
//
//   - Receipt: the line items of one bill plus its tax and tip
//   - LineItem: a priced entry assigned to zero or more participants
//   - Participant: a person taking part in the split
//
// # Outputs
//
//   - Allocation: the per-person breakdown computed by the calculator
//   - PersonAllocation: one person's items, subtotal, tax, tip and total
//   - Balance / Transfer: who paid what and who should pay whom
//
// # Design Principles
//
// 1. **Decimal money**: every amount is a decimal.Decimal, never a float
// 2. **IDs over pointers**: items reference participants by ID string
// 3. **Snapshots**: models are plain values so the calculator can work on a
// copy while a session keeps being edited
package models
