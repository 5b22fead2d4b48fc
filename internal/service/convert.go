package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/internal/money"
	"github.com/mmynk/tabsplit/internal/session"
)

func toParticipant(p models.Participant) Participant {
	return Participant{ID: p.ID, Name: p.Name, Initials: p.Initials}
}

func toItem(item models.LineItem) Item {
	return Item{
		ID:             item.ID,
		Name:           item.Name,
		Price:          money.Format(item.Price),
		ParticipantIDs: item.ParticipantIDs,
	}
}

func toPayment(p models.Payment) Payment {
	return Payment{ParticipantID: p.ParticipantID, Amount: money.Format(p.Amount)}
}

func toTotals(t models.ReceiptTotals) Totals {
	return Totals{
		Subtotal:      money.Format(t.Subtotal),
		Tax:           money.Format(t.Tax),
		TotalAfterTax: money.Format(t.TotalAfterTax),
		Tip:           money.Format(t.Tip),
		GrandTotal:    money.Format(t.GrandTotal),
	}
}

func toSessionState(snap session.Snapshot) SessionState {
	state := SessionState{
		ID:           snap.ID,
		Title:        snap.Title,
		CreatedAt:    snap.CreatedAt.UTC().Format(time.RFC3339),
		Participants: make([]Participant, len(snap.Participants)),
		Items:        make([]Item, len(snap.Receipt.Items)),
		Totals:       toTotals(calculator.Totals(snap.Receipt)),
	}
	for i, p := range snap.Participants {
		state.Participants[i] = toParticipant(p)
	}
	for i, item := range snap.Receipt.Items {
		state.Items[i] = toItem(item)
	}
	for _, p := range snap.Payments {
		state.Payments = append(state.Payments, toPayment(p))
	}
	return state
}

func toAllocation(a *models.Allocation) Allocation {
	out := Allocation{
		People:            make([]PersonAllocation, len(a.People)),
		OverallItemsTotal: money.Format(a.OverallItemsTotal),
		Totals:            toTotals(a.Totals),
		UnassignedItemIDs: a.UnassignedItemIDs,
	}
	for i, p := range a.People {
		items := make([]PersonItem, len(p.Items))
		for j, it := range p.Items {
			items[j] = PersonItem{
				ItemID:     it.ItemID,
				Name:       it.Name,
				Price:      money.Format(it.Price),
				SplitCount: it.SplitCount,
				Share:      money.Format(it.SharePrice),
				ExactShare: it.ExactShare.String(),
			}
		}
		out.People[i] = PersonAllocation{
			Participant: toParticipant(p.Participant),
			Items:       items,
			Subtotal:    money.Format(p.Subtotal),
			TaxShare:    money.Format(p.TaxShare),
			TipShare:    money.Format(p.TipShare),
			Percentage:  money.Format(p.Percentage),
			GrandTotal:  money.Format(p.GrandTotal),
		}
	}
	return out
}

func toBalances(balances []models.Balance) []Balance {
	out := make([]Balance, len(balances))
	for i, b := range balances {
		out[i] = Balance{
			ParticipantID: b.ParticipantID,
			Paid:          money.Format(b.Paid),
			Owed:          money.Format(b.Owed),
			Net:           money.Format(b.Net),
		}
	}
	return out
}

func toTransfers(transfers []models.Transfer) []Transfer {
	out := make([]Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = Transfer{From: t.From, To: t.To, Amount: money.Format(t.Amount)}
	}
	return out
}

// fromCalculateRequest builds the engine inputs of a stateless Calculate call.
func fromCalculateRequest(req *CalculateRequest) (models.Receipt, []models.Participant, error) {
	participants := make([]models.Participant, len(req.Participants))
	for i, p := range req.Participants {
		initials := p.Initials
		if initials == "" {
			initials = session.Initials(p.Name)
		}
		participants[i] = models.Participant{ID: p.ID, Name: p.Name, Initials: initials}
	}

	receipt := models.Receipt{
		Items:     make([]models.LineItem, len(req.Items)),
		TaxAmount: decimal.Zero,
		TipAmount: decimal.Zero,
	}
	for i, item := range req.Items {
		price, err := money.ParseAmount(item.Price)
		if err != nil {
			return models.Receipt{}, nil, fmt.Errorf("item %q: invalid price: %w", item.ID, err)
		}
		receipt.Items[i] = models.LineItem{
			ID:             item.ID,
			Name:           item.Name,
			Price:          price,
			ParticipantIDs: item.ParticipantIDs,
		}
	}

	var err error
	if receipt.TaxAmount, err = optionalAmount(req.Tax); err != nil {
		return models.Receipt{}, nil, fmt.Errorf("invalid tax: %w", err)
	}
	if receipt.TipAmount, err = optionalAmount(req.Tip); err != nil {
		return models.Receipt{}, nil, fmt.Errorf("invalid tip: %w", err)
	}
	return receipt, participants, nil
}

func optionalAmount(text string) (decimal.Decimal, error) {
	if text == "" {
		return decimal.Zero, nil
	}
	return money.ParseAmount(text)
}
