package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/models"
)

var oneCent = decimal.New(1, -2)

// SettleUp works out who owes whom once an allocation is known.
//
// Algorithm:
// - Each person owes their grand total from the allocation
// - Each payment credits the payer
// - net = paid - owed; positive means the person is owed money
// - Transfers: greedy matching of the largest debtor with the largest creditor
//
// Balances follow the allocation's participant order, followed by any payer
// missing from the allocation in first-payment order.
func SettleUp(alloc *models.Allocation, payments []models.Payment) ([]models.Balance, []models.Transfer) {
	balances := make(map[string]*models.Balance)
	var order []string

	ensure := func(id string) *models.Balance {
		if b, exists := balances[id]; exists {
			return b
		}
		b := &models.Balance{
			ParticipantID: id,
			Paid:          decimal.Zero,
			Owed:          decimal.Zero,
		}
		balances[id] = b
		order = append(order, id)
		return b
	}

	if alloc != nil {
		for _, p := range alloc.People {
			ensure(p.Participant.ID).Owed = p.GrandTotal
		}
	}
	for _, pay := range payments {
		b := ensure(pay.ParticipantID)
		b.Paid = b.Paid.Add(pay.Amount)
	}

	result := make([]models.Balance, 0, len(order))
	var creditors, debtors []*models.Balance
	for _, id := range order {
		b := balances[id]
		b.Net = b.Paid.Sub(b.Owed)
		result = append(result, *b)

		if b.Net.IsPositive() {
			creditors = append(creditors, b)
		} else if b.Net.IsNegative() {
			debtors = append(debtors, b)
		}
	}

	// Largest amounts first; stable so ties keep participant order
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].Net.GreaterThan(creditors[j].Net)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].Net.LessThan(debtors[j].Net)
	})

	debtorLeft := make(map[string]decimal.Decimal, len(debtors))
	for _, d := range debtors {
		debtorLeft[d.ParticipantID] = d.Net.Neg()
	}
	creditorLeft := make(map[string]decimal.Decimal, len(creditors))
	for _, c := range creditors {
		creditorLeft[c.ParticipantID] = c.Net
	}

	var transfers []models.Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := debtors[i].ParticipantID
		creditor := creditors[j].ParticipantID

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := decimal.Min(debtorLeft[debtor], creditorLeft[creditor])
		if amount.GreaterThanOrEqual(oneCent) {
			transfers = append(transfers, models.Transfer{
				From:   debtor,
				To:     creditor,
				Amount: amount,
			})
		}

		debtorLeft[debtor] = debtorLeft[debtor].Sub(amount)
		creditorLeft[creditor] = creditorLeft[creditor].Sub(amount)

		if debtorLeft[debtor].LessThan(oneCent) {
			i++
		}
		if creditorLeft[creditor].LessThan(oneCent) {
			j++
		}
	}

	return result, transfers
}
