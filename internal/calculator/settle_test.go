package calculator

import (
	"testing"

	"github.com/mmynk/tabsplit/internal/models"
)

func TestSettleUp(t *testing.T) {
	receipt := models.Receipt{
		Items: []models.LineItem{
			item("Pizza", "15.00", "A", "B"),
			item("Salad", "10.00", "A"),
		},
		TaxAmount: d("2.00"),
		TipAmount: d("3.00"),
	}
	alloc := ComputeAllocation(receipt, people("A", "B", "C"))

	tests := []struct {
		name          string
		payments      []models.Payment
		wantTransfers []models.Transfer
		validateFunc  func(t *testing.T, balances []models.Balance)
	}{
		{
			name:     "single payer covers the bill",
			payments: []models.Payment{{ParticipantID: "A", Amount: d("30.00")}},
			wantTransfers: []models.Transfer{
				{From: "B", To: "A", Amount: d("9.00")},
			},
			validateFunc: func(t *testing.T, balances []models.Balance) {
				if len(balances) != 3 {
					t.Fatalf("balances = %d, want 3", len(balances))
				}
				wantAmount(t, "A net", balances[0].Net, "9.00")
				wantAmount(t, "B net", balances[1].Net, "-9.00")
				wantAmount(t, "C net", balances[2].Net, "0")
			},
		},
		{
			name: "split payment",
			payments: []models.Payment{
				{ParticipantID: "B", Amount: d("20.00")},
				{ParticipantID: "C", Amount: d("10.00")},
			},
			wantTransfers: []models.Transfer{
				{From: "A", To: "B", Amount: d("11.00")},
				{From: "A", To: "C", Amount: d("10.00")},
			},
		},
		{
			name:          "no payments",
			payments:      nil,
			wantTransfers: nil,
			validateFunc: func(t *testing.T, balances []models.Balance) {
				wantAmount(t, "A owed", balances[0].Owed, "21.00")
				wantAmount(t, "A net", balances[0].Net, "-21.00")
			},
		},
		{
			name:     "payer outside the allocation is appended",
			payments: []models.Payment{{ParticipantID: "Z", Amount: d("30.00")}},
			wantTransfers: []models.Transfer{
				{From: "A", To: "Z", Amount: d("21.00")},
				{From: "B", To: "Z", Amount: d("9.00")},
			},
			validateFunc: func(t *testing.T, balances []models.Balance) {
				if balances[len(balances)-1].ParticipantID != "Z" {
					t.Errorf("last balance = %s, want Z", balances[len(balances)-1].ParticipantID)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances, transfers := SettleUp(alloc, tt.payments)
			if len(transfers) != len(tt.wantTransfers) {
				t.Fatalf("transfers = %+v, want %+v", transfers, tt.wantTransfers)
			}
			for i, want := range tt.wantTransfers {
				got := transfers[i]
				if got.From != want.From || got.To != want.To || !got.Amount.Equal(want.Amount) {
					t.Errorf("transfer %d = %s->%s %s, want %s->%s %s",
						i, got.From, got.To, got.Amount, want.From, want.To, want.Amount)
				}
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, balances)
			}
		})
	}
}

func TestSettleUp_NilAllocation(t *testing.T) {
	balances, transfers := SettleUp(nil, nil)
	if len(balances) != 0 || len(transfers) != 0 {
		t.Errorf("expected empty result, got %v %v", balances, transfers)
	}
}
