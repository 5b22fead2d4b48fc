package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/money"
)

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"Ada Lovelace":       "AL",
		"bob":                "B",
		"  mary jane watson": "MJ",
		"(guest) 2":          "G2",
		"":                   "",
	}
	for name, want := range tests {
		assert.Equal(t, want, Initials(name), "Initials(%q)", name)
	}
}

func TestSession_Participants(t *testing.T) {
	s := New()

	alice, err := s.AddParticipant(" Alice Smith ")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", alice.Name)
	assert.Equal(t, "AS", alice.Initials)
	assert.NotEmpty(t, alice.ID)

	_, err = s.AddParticipant("alice smith")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = s.AddParticipant("   ")
	assert.ErrorIs(t, err, ErrEmptyName)

	bob, err := s.AddParticipant("Bob")
	require.NoError(t, err)

	renamed, err := s.RenameParticipant(bob.ID, "Robert Jones")
	require.NoError(t, err)
	assert.Equal(t, "RJ", renamed.Initials)

	_, err = s.RenameParticipant(bob.ID, "Alice Smith")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = s.RenameParticipant("missing", "Carol")
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	snap := s.Snapshot()
	require.Len(t, snap.Participants, 2)
	assert.Equal(t, "Split with Alice Smith, Robert Jones", snap.Title)
}

func TestSession_Items(t *testing.T) {
	s := New()

	fries, err := s.AddItem("French Fries", "3.87")
	require.NoError(t, err)
	assert.Equal(t, "3.87", money.Format(fries.Price))

	_, err = s.AddItem("Hot Dog", "abc")
	assert.ErrorIs(t, err, money.ErrInvalidAmount)

	_, err = s.AddItem("Hot Dog", "-3")
	assert.ErrorIs(t, err, money.ErrNegativeAmount)

	_, err = s.AddItem("", "1.00")
	assert.ErrorIs(t, err, ErrEmptyName)

	updated, err := s.UpdateItem(fries.ID, "Large Fries", "4.499")
	require.NoError(t, err)
	assert.Equal(t, "Large Fries", updated.Name)
	assert.Equal(t, "4.50", money.Format(updated.Price))

	_, err = s.UpdateItem("missing", "x", "1")
	assert.ErrorIs(t, err, ErrItemNotFound)

	require.NoError(t, s.RemoveItem(fries.ID))
	assert.ErrorIs(t, s.RemoveItem(fries.ID), ErrItemNotFound)
	assert.Empty(t, s.Snapshot().Receipt.Items)
}

func TestSession_Assignments(t *testing.T) {
	s := New()
	alice, _ := s.AddParticipant("Alice")
	bob, _ := s.AddParticipant("Bob")
	pizza, _ := s.AddItem("Pizza", "15.00")

	item, err := s.AssignItem(pizza.ID, []string{alice.ID, bob.ID, alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID, bob.ID}, item.ParticipantIDs)

	_, err = s.AssignItem(pizza.ID, []string{"ghost"})
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	_, err = s.AssignItem("missing", nil)
	assert.ErrorIs(t, err, ErrItemNotFound)

	item, err = s.ToggleAssignment(pizza.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, item.ParticipantIDs)

	item, err = s.ToggleAssignment(pizza.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID, bob.ID}, item.ParticipantIDs)

	_, err = s.ToggleAssignment(pizza.ID, "ghost")
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestSession_RemoveParticipantScrubsReferences(t *testing.T) {
	s := New()
	alice, _ := s.AddParticipant("Alice")
	bob, _ := s.AddParticipant("Bob")
	pizza, _ := s.AddItem("Pizza", "15.00")
	_, err := s.AssignItem(pizza.ID, []string{alice.ID, bob.ID})
	require.NoError(t, err)
	_, err = s.RecordPayment(bob.ID, "15.00")
	require.NoError(t, err)

	require.NoError(t, s.RemoveParticipant(bob.ID))
	assert.ErrorIs(t, s.RemoveParticipant(bob.ID), ErrParticipantNotFound)

	snap := s.Snapshot()
	require.Len(t, snap.Participants, 1)
	assert.Equal(t, []string{alice.ID}, snap.Receipt.Items[0].ParticipantIDs)
	assert.Empty(t, snap.Payments)
}

func TestSession_Summary(t *testing.T) {
	s := New()
	a, _ := s.AddParticipant("A")
	b, _ := s.AddParticipant("B")
	pizza, _ := s.AddItem("Pizza", "15.00")
	salad, _ := s.AddItem("Salad", "10.00")
	_, err := s.AssignItem(pizza.ID, []string{a.ID, b.ID})
	require.NoError(t, err)
	_, err = s.AssignItem(salad.ID, []string{a.ID})
	require.NoError(t, err)
	require.NoError(t, s.SetTax("2.00"))
	require.NoError(t, s.SetTip("$3"))

	alloc, err := s.Summary(calculator.New())
	require.NoError(t, err)
	require.Len(t, alloc.People, 2)
	assert.Equal(t, "21.00", money.Format(alloc.People[0].GrandTotal))
	assert.Equal(t, "9.00", money.Format(alloc.People[1].GrandTotal))

	assert.ErrorIs(t, s.SetTax("lots"), money.ErrInvalidAmount)
	assert.ErrorIs(t, s.SetTip("-1"), money.ErrNegativeAmount)
}

func TestSession_Settle(t *testing.T) {
	s := New()
	a, _ := s.AddParticipant("A")
	b, _ := s.AddParticipant("B")
	pizza, _ := s.AddItem("Pizza", "20.00")
	_, err := s.AssignItem(pizza.ID, []string{a.ID, b.ID})
	require.NoError(t, err)

	_, err = s.RecordPayment(a.ID, "20.00")
	require.NoError(t, err)
	_, err = s.RecordPayment("ghost", "1.00")
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	settlement, err := s.Settle(calculator.New())
	require.NoError(t, err)
	require.Len(t, settlement.Transfers, 1)
	assert.Equal(t, b.ID, settlement.Transfers[0].From)
	assert.Equal(t, a.ID, settlement.Transfers[0].To)
	assert.Equal(t, "10.00", money.Format(settlement.Transfers[0].Amount))

	s.ClearPayments()
	assert.Empty(t, s.Snapshot().Payments)
}

func TestSession_SummaryRejectsUnassigned(t *testing.T) {
	s := New()
	_, _ = s.AddParticipant("A")
	_, _ = s.AddItem("Bread", "4.00")

	_, err := s.Summary(calculator.New(calculator.WithUnassignedPolicy(calculator.UnassignedReject)))
	assert.ErrorIs(t, err, calculator.ErrUnassignedItems)
}

func TestSession_SnapshotIsIsolated(t *testing.T) {
	s := New()
	a, _ := s.AddParticipant("A")
	item, _ := s.AddItem("Pizza", "10.00")
	_, err := s.AssignItem(item.ID, []string{a.ID})
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Receipt.Items[0].ParticipantIDs[0] = "mutated"
	snap.Participants[0].Name = "mutated"

	fresh := s.Snapshot()
	assert.Equal(t, a.ID, fresh.Receipt.Items[0].ParticipantIDs[0])
	assert.Equal(t, "A", fresh.Participants[0].Name)
}

func TestSession_ActivityClock(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return now }), WithTitle("Friday lunch"))
	assert.Equal(t, now, s.CreatedAt())
	assert.Equal(t, "Friday lunch", s.Title())

	now = now.Add(time.Minute)
	_, err := s.AddItem("Soda", "1.50")
	require.NoError(t, err)
	assert.Equal(t, now, s.LastActivity())

	now = now.Add(time.Minute)
	s.Touch()
	assert.Equal(t, now, s.LastActivity())
}

func TestSession_ConcurrentEdits(t *testing.T) {
	s := New()
	a, _ := s.AddParticipant("A")
	calc := calculator.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			item, err := s.AddItem("Item", "1.00")
			if err == nil {
				_, _ = s.ToggleAssignment(item.ID, a.ID)
			}
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Summary(calc)
		}()
	}
	wg.Wait()

	alloc, err := s.Summary(calc)
	require.NoError(t, err)
	assert.Equal(t, "20.00", money.Format(alloc.People[0].Subtotal))
}
