// Package session holds the editable state of one bill-splitting session:
// a receipt, the people splitting it, and any payments recorded against it.
//
// A Session is the only place that state is mutated. The calculator only
// ever sees a Snapshot, so summaries can be recomputed on every edit.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/internal/money"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrDuplicateName       = errors.New("participant name already in use")
)

// Session is one bill being split. It is safe for concurrent use.
type Session struct {
	mu sync.RWMutex

	id        string
	title     string
	createdAt time.Time
	touchedAt time.Time
	now       func() time.Time

	receipt      models.Receipt
	participants []models.Participant
	payments     []models.Payment
}

// Option configures a new Session.
type Option func(*Session)

// WithTitle sets a display title.
func WithTitle(title string) Option {
	return func(s *Session) {
		s.title = strings.TrimSpace(title)
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New creates an empty session with zero tax and tip.
func New(opts ...Option) *Session {
	s := &Session{
		id:  uuid.New().String(),
		now: time.Now,
		receipt: models.Receipt{
			TaxAmount: decimal.Zero,
			TipAmount: decimal.Zero,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.createdAt = s.now()
	s.touchedAt = s.createdAt
	return s
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Title returns the display title, generating one from participants when
// none was set.
func (s *Session) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.title != "" {
		return s.title
	}
	return generateTitle(s.participants, s.createdAt)
}

// CreatedAt returns when the session was started.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastActivity returns when the session was last read or edited.
func (s *Session) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.touchedAt
}

// Touch marks the session as active.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = s.now()
}

// AddParticipant adds a person to the bill.
func (s *Session) AddParticipant(name string) (models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Participant{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(name, "") {
		return models.Participant{}, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	p := models.Participant{
		ID:       uuid.New().String(),
		Name:     name,
		Initials: Initials(name),
	}
	s.participants = append(s.participants, p)
	s.touch()
	return p, nil
}

// RenameParticipant changes a person's display name and initials.
func (s *Session) RenameParticipant(id, name string) (models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Participant{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.participantIndex(id)
	if idx < 0 {
		return models.Participant{}, fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
	}
	if s.nameTaken(name, id) {
		return models.Participant{}, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	s.participants[idx].Name = name
	s.participants[idx].Initials = Initials(name)
	s.touch()
	return s.participants[idx], nil
}

// RemoveParticipant removes a person and drops them from every item
// assignment and payment, so no item is left pointing at them.
func (s *Session) RemoveParticipant(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.participantIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
	}
	s.participants = append(s.participants[:idx], s.participants[idx+1:]...)

	for i := range s.receipt.Items {
		s.receipt.Items[i].ParticipantIDs = without(s.receipt.Items[i].ParticipantIDs, id)
	}
	payments := s.payments[:0]
	for _, p := range s.payments {
		if p.ParticipantID != id {
			payments = append(payments, p)
		}
	}
	s.payments = payments
	s.touch()
	return nil
}

// AddItem appends a line item. price is user-entered text such as "3.87".
func (s *Session) AddItem(name, price string) (models.LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.LineItem{}, ErrEmptyName
	}
	amount, err := money.ParseAmount(price)
	if err != nil {
		return models.LineItem{}, fmt.Errorf("invalid price: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := models.LineItem{
		ID:    uuid.New().String(),
		Name:  name,
		Price: amount,
	}
	s.receipt.Items = append(s.receipt.Items, item)
	s.touch()
	return item, nil
}

// UpdateItem edits an item's name and price. Assignments are kept.
func (s *Session) UpdateItem(id, name, price string) (models.LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.LineItem{}, ErrEmptyName
	}
	amount, err := money.ParseAmount(price)
	if err != nil {
		return models.LineItem{}, fmt.Errorf("invalid price: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.itemIndex(id)
	if idx < 0 {
		return models.LineItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	s.receipt.Items[idx].Name = name
	s.receipt.Items[idx].Price = amount
	s.touch()
	return cloneItem(s.receipt.Items[idx]), nil
}

// RemoveItem deletes an item from the receipt.
func (s *Session) RemoveItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.itemIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	s.receipt.Items = append(s.receipt.Items[:idx], s.receipt.Items[idx+1:]...)
	s.touch()
	return nil
}

// AssignItem replaces the set of people sharing an item. Every ID must
// belong to a participant; duplicates are collapsed. An empty set leaves
// the item unassigned.
func (s *Session) AssignItem(itemID string, participantIDs []string) (models.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.itemIndex(itemID)
	if idx < 0 {
		return models.LineItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	seen := make(map[string]bool, len(participantIDs))
	ids := make([]string, 0, len(participantIDs))
	for _, pid := range participantIDs {
		if s.participantIndex(pid) < 0 {
			return models.LineItem{}, fmt.Errorf("%w: %s", ErrParticipantNotFound, pid)
		}
		if seen[pid] {
			continue
		}
		seen[pid] = true
		ids = append(ids, pid)
	}
	s.receipt.Items[idx].ParticipantIDs = ids
	s.touch()
	return cloneItem(s.receipt.Items[idx]), nil
}

// ToggleAssignment adds the participant to the item, or removes them if
// they were already assigned.
func (s *Session) ToggleAssignment(itemID, participantID string) (models.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.itemIndex(itemID)
	if idx < 0 {
		return models.LineItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if s.participantIndex(participantID) < 0 {
		return models.LineItem{}, fmt.Errorf("%w: %s", ErrParticipantNotFound, participantID)
	}

	item := &s.receipt.Items[idx]
	if item.HasParticipant(participantID) {
		item.ParticipantIDs = without(item.ParticipantIDs, participantID)
	} else {
		item.ParticipantIDs = append(item.ParticipantIDs, participantID)
	}
	s.touch()
	return cloneItem(*item), nil
}

// SetTax sets the receipt's tax from user-entered text.
func (s *Session) SetTax(text string) error {
	amount, err := money.ParseAmount(text)
	if err != nil {
		return fmt.Errorf("invalid tax: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipt.TaxAmount = amount
	s.touch()
	return nil
}

// SetTip sets the receipt's tip from user-entered text.
func (s *Session) SetTip(text string) error {
	amount, err := money.ParseAmount(text)
	if err != nil {
		return fmt.Errorf("invalid tip: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipt.TipAmount = amount
	s.touch()
	return nil
}

// RecordPayment notes that a participant paid toward the bill.
func (s *Session) RecordPayment(participantID, amount string) (models.Payment, error) {
	value, err := money.ParseAmount(amount)
	if err != nil {
		return models.Payment{}, fmt.Errorf("invalid payment: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.participantIndex(participantID) < 0 {
		return models.Payment{}, fmt.Errorf("%w: %s", ErrParticipantNotFound, participantID)
	}
	p := models.Payment{ParticipantID: participantID, Amount: value}
	s.payments = append(s.payments, p)
	s.touch()
	return p, nil
}

// ClearPayments forgets every recorded payment.
func (s *Session) ClearPayments() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = nil
	s.touch()
}

// Snapshot is a point-in-time copy of a session's state.
type Snapshot struct {
	ID           string
	Title        string
	CreatedAt    time.Time
	Receipt      models.Receipt
	Participants []models.Participant
	Payments     []models.Payment
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	title := s.title
	if title == "" {
		title = generateTitle(s.participants, s.createdAt)
	}
	return Snapshot{
		ID:           s.id,
		Title:        title,
		CreatedAt:    s.createdAt,
		Receipt:      s.receipt.Clone(),
		Participants: append([]models.Participant(nil), s.participants...),
		Payments:     append([]models.Payment(nil), s.payments...),
	}
}

// Summary allocates the current receipt.
func (s *Session) Summary(calc *calculator.Calculator) (*models.Allocation, error) {
	snap := s.Snapshot()
	return calc.Allocate(snap.Receipt, snap.Participants)
}

// Settlement is an allocation together with who owes whom.
type Settlement struct {
	Allocation *models.Allocation
	Balances   []models.Balance
	Transfers  []models.Transfer
}

// Settle allocates the receipt and settles it against recorded payments.
func (s *Session) Settle(calc *calculator.Calculator) (*Settlement, error) {
	snap := s.Snapshot()
	alloc, err := calc.Allocate(snap.Receipt, snap.Participants)
	if err != nil {
		return nil, err
	}
	balances, transfers := calculator.SettleUp(alloc, snap.Payments)
	return &Settlement{
		Allocation: alloc,
		Balances:   balances,
		Transfers:  transfers,
	}, nil
}

// Initials derives up to two upper-case initials from a name:
// "Ada Lovelace" -> "AL", "bob" -> "B".
func Initials(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				initials = append(initials, unicode.ToUpper(r))
				break
			}
		}
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}

func (s *Session) touch() {
	s.touchedAt = s.now()
}

func (s *Session) participantIndex(id string) int {
	for i, p := range s.participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) itemIndex(id string) int {
	for i, item := range s.receipt.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) nameTaken(name, exceptID string) bool {
	for _, p := range s.participants {
		if p.ID != exceptID && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func cloneItem(item models.LineItem) models.LineItem {
	item.ParticipantIDs = append([]string(nil), item.ParticipantIDs...)
	return item
}

// generateTitle creates an auto-generated title from participants.
func generateTitle(participants []models.Participant, created time.Time) string {
	if len(participants) == 0 {
		return fmt.Sprintf("Bill - %s", created.Format("Jan 2, 2006"))
	}
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}
