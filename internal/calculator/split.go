// Package calculator implements the bill allocation engine: splitting line
// items among the people assigned to them and sharing tax and tip in
// proportion to each person's item subtotal.
//
// The engine is a pure function of its inputs. It keeps no state between
// calls and is safe to call concurrently and as often as a receipt changes.
package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/internal/money"
)

// UnassignedPolicy decides what happens to items nobody is assigned to.
type UnassignedPolicy string

const (
	// UnassignedExclude leaves the item out of every subtotal.
	UnassignedExclude UnassignedPolicy = "exclude"
	// UnassignedReject makes Allocate fail while any item is unassigned.
	UnassignedReject UnassignedPolicy = "reject"
	// UnassignedSplitAll shares the item equally among all participants.
	UnassignedSplitAll UnassignedPolicy = "split_all"
)

var (
	// ErrUnassignedItems is returned by Allocate under UnassignedReject.
	ErrUnassignedItems = errors.New("receipt has unassigned items")
	// ErrUnknownParticipant is returned when strict references are enabled
	// and an item names a participant that is not in the list.
	ErrUnknownParticipant = errors.New("item references unknown participant")
	// ErrDuplicateParticipant is returned when strict references are enabled
	// and the participant list repeats an ID.
	ErrDuplicateParticipant = errors.New("duplicate participant id")
	// ErrInvalidPolicy is returned by ParseUnassignedPolicy.
	ErrInvalidPolicy = errors.New("invalid unassigned item policy")
)

// ParseUnassignedPolicy converts a config value into a policy.
// An empty string selects UnassignedExclude.
func ParseUnassignedPolicy(s string) (UnassignedPolicy, error) {
	switch p := UnassignedPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return UnassignedExclude, nil
	case UnassignedExclude, UnassignedReject, UnassignedSplitAll:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithUnassignedPolicy sets how unassigned items are treated.
func WithUnassignedPolicy(p UnassignedPolicy) Option {
	return func(c *Calculator) {
		c.unassigned = p
	}
}

// WithStrictReferences makes dangling item references and repeated
// participant IDs an error instead of silently dropping them.
func WithStrictReferences(strict bool) Option {
	return func(c *Calculator) {
		c.strict = strict
	}
}

// Calculator computes allocations under a fixed set of policies.
type Calculator struct {
	unassigned UnassignedPolicy
	strict     bool
}

// New creates a Calculator. Without options it excludes unassigned items and
// drops unknown participant IDs, which means it never returns an error.
func New(opts ...Option) *Calculator {
	c := &Calculator{unassigned: UnassignedExclude}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// With returns a copy of c with opts applied on top of its policies.
func (c *Calculator) With(opts ...Option) *Calculator {
	cp := *c
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// Policy returns the calculator's unassigned item policy.
func (c *Calculator) Policy() UnassignedPolicy {
	return c.unassigned
}

// Share is one participant's part of an item.
type Share struct {
	ParticipantID string
	Amount        decimal.Decimal
}

// ItemSplit is how a single item divides among its assignees.
type ItemSplit struct {
	Item models.LineItem

	// SplitCount is max(1, number of assignees).
	SplitCount int

	// ExactShare is Price / SplitCount before rounding.
	ExactShare decimal.Decimal

	// Shares follow the participant list order and sum to the item price.
	// Empty when the item is unassigned.
	Shares []Share
}

// Unassigned reports whether nobody pays for the item.
func (s ItemSplit) Unassigned() bool {
	return len(s.Shares) == 0
}

// ShareFor returns the share of one participant.
func (s ItemSplit) ShareFor(participantID string) (decimal.Decimal, bool) {
	for _, sh := range s.Shares {
		if sh.ParticipantID == participantID {
			return sh.Amount, true
		}
	}
	return decimal.Zero, false
}

// ItemShares splits one item among the participants assigned to it.
//
// The item price is divided in whole cents so the shares always add back up
// to the price; leftover cents go to whoever comes first in participants.
func (c *Calculator) ItemShares(item models.LineItem, participants []models.Participant) (ItemSplit, error) {
	return c.itemShares(item, participants, 0)
}

// itemShares hands leftover cents out starting at assignee offset, so the
// extra cents of a receipt's items rotate through the people sharing them.
func (c *Calculator) itemShares(item models.LineItem, participants []models.Participant, offset int) (ItemSplit, error) {
	assignees, err := c.assignees(item, participants)
	if err != nil {
		return ItemSplit{}, err
	}

	splitCount := len(assignees)
	if splitCount == 0 {
		splitCount = 1
	}

	split := ItemSplit{
		Item:       item,
		SplitCount: splitCount,
		ExactShare: item.Price.Div(decimal.NewFromInt(int64(splitCount))),
	}
	for i, amount := range money.SplitFrom(item.Price, len(assignees), offset) {
		split.Shares = append(split.Shares, Share{
			ParticipantID: assignees[i],
			Amount:        amount,
		})
	}
	return split, nil
}

// PersonSummary lists the items a participant shares and their subtotal.
func (c *Calculator) PersonSummary(participant models.Participant, receipt models.Receipt, participants []models.Participant) (models.PersonSummary, error) {
	participants, err := c.distinct(participants)
	if err != nil {
		return models.PersonSummary{}, err
	}
	splits, err := c.splitItems(receipt, participants)
	if err != nil {
		return models.PersonSummary{}, err
	}
	return summarize(participant, splits), nil
}

// Allocate computes every participant's subtotal, tax share, tip share and
// grand total.
//
// Tax and tip are shared in proportion to subtotals:
//
//	portion   = subtotal / overall_items_total   (0 when the total is 0)
//	tax_share = portion × tax
//	tip_share = portion × tip
//
// Shares are apportioned in whole cents so they add up to the receipt's tax
// and tip whenever anything is assigned. With zero participants, or nothing
// assigned, every share is zero.
//
// A participant ID listed twice is allocated once, at its first position.
func (c *Calculator) Allocate(receipt models.Receipt, participants []models.Participant) (*models.Allocation, error) {
	participants, err := c.distinct(participants)
	if err != nil {
		return nil, err
	}
	splits, err := c.splitItems(receipt, participants)
	if err != nil {
		return nil, err
	}

	var unassigned []string
	for _, s := range splits {
		if s.Unassigned() {
			unassigned = append(unassigned, s.Item.ID)
		}
	}
	if c.unassigned == UnassignedReject && len(unassigned) > 0 && len(participants) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnassignedItems, strings.Join(unassigned, ", "))
	}

	summaries := make([]models.PersonSummary, len(participants))
	subtotals := make([]decimal.Decimal, len(participants))
	overall := decimal.Zero
	for i, p := range participants {
		summaries[i] = summarize(p, splits)
		subtotals[i] = summaries[i].Subtotal
		overall = overall.Add(summaries[i].Subtotal)
	}

	taxShares := money.Apportion(receipt.TaxAmount, subtotals)
	tipShares := money.Apportion(receipt.TipAmount, subtotals)

	alloc := &models.Allocation{
		People:            make([]models.PersonAllocation, len(participants)),
		OverallItemsTotal: money.Round(overall),
		Totals:            Totals(receipt),
		UnassignedItemIDs: unassigned,
	}
	hundred := decimal.NewFromInt(100)
	for i, s := range summaries {
		portion := decimal.Zero
		if overall.IsPositive() {
			portion = s.Subtotal.Div(overall)
		}
		alloc.People[i] = models.PersonAllocation{
			Participant: s.Participant,
			Items:       s.Items,
			Subtotal:    money.Round(s.Subtotal),
			TaxShare:    taxShares[i],
			TipShare:    tipShares[i],
			Percentage:  money.Round(portion.Mul(hundred)),
			GrandTotal:  money.Round(s.Subtotal.Add(taxShares[i]).Add(tipShares[i])),
		}
	}
	return alloc, nil
}

// Totals computes the bill-level figures of a receipt.
func Totals(receipt models.Receipt) models.ReceiptTotals {
	subtotal := decimal.Zero
	for _, item := range receipt.Items {
		subtotal = subtotal.Add(item.Price)
	}
	return models.ReceiptTotals{
		Subtotal:      money.Round(subtotal),
		Tax:           money.Round(receipt.TaxAmount),
		TotalAfterTax: money.Round(subtotal.Add(receipt.TaxAmount)),
		Tip:           money.Round(receipt.TipAmount),
		GrandTotal:    money.Round(subtotal.Add(receipt.TaxAmount).Add(receipt.TipAmount)),
	}
}

var defaultCalculator = New()

// ComputeItemShare splits an item with the default policies.
func ComputeItemShare(item models.LineItem, participants []models.Participant) ItemSplit {
	split, _ := defaultCalculator.ItemShares(item, participants) // default policies never fail
	return split
}

// ComputePersonSummary summarizes one participant with the default policies.
func ComputePersonSummary(participant models.Participant, receipt models.Receipt, participants []models.Participant) models.PersonSummary {
	summary, _ := defaultCalculator.PersonSummary(participant, receipt, participants)
	return summary
}

// ComputeAllocation allocates a receipt with the default policies.
func ComputeAllocation(receipt models.Receipt, participants []models.Participant) *models.Allocation {
	alloc, _ := defaultCalculator.Allocate(receipt, participants)
	return alloc
}

func (c *Calculator) splitItems(receipt models.Receipt, participants []models.Participant) ([]ItemSplit, error) {
	splits := make([]ItemSplit, 0, len(receipt.Items))
	for i, item := range receipt.Items {
		split, err := c.itemShares(item, participants, i)
		if err != nil {
			return nil, err
		}
		splits = append(splits, split)
	}
	return splits, nil
}

// distinct drops repeated participant IDs, keeping the first occurrence.
// Under strict references a repeat is an error.
func (c *Calculator) distinct(participants []models.Participant) ([]models.Participant, error) {
	seen := make(map[string]bool, len(participants))
	out := make([]models.Participant, 0, len(participants))
	for _, p := range participants {
		if seen[p.ID] {
			if c.strict {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, p.ID)
			}
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out, nil
}

// assignees returns the distinct known participants of an item in
// participant list order.
func (c *Calculator) assignees(item models.LineItem, participants []models.Participant) ([]string, error) {
	assigned := make(map[string]bool, len(item.ParticipantIDs))
	for _, id := range item.ParticipantIDs {
		assigned[id] = true
	}

	ids := make([]string, 0, len(assigned))
	for _, p := range participants {
		if assigned[p.ID] {
			ids = append(ids, p.ID)
			delete(assigned, p.ID)
		}
	}

	if len(assigned) > 0 && c.strict {
		for _, id := range item.ParticipantIDs {
			if assigned[id] {
				return nil, fmt.Errorf("%w: item %q references %q", ErrUnknownParticipant, item.ID, id)
			}
		}
	}

	if len(ids) == 0 && c.unassigned == UnassignedSplitAll {
		for _, p := range participants {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func summarize(participant models.Participant, splits []ItemSplit) models.PersonSummary {
	summary := models.PersonSummary{
		Participant: participant,
		Subtotal:    decimal.Zero,
	}
	for _, s := range splits {
		share, ok := s.ShareFor(participant.ID)
		if !ok {
			continue
		}
		summary.Items = append(summary.Items, models.PersonItem{
			ItemID:     s.Item.ID,
			Name:       s.Item.Name,
			Price:      s.Item.Price,
			SplitCount: s.SplitCount,
			SharePrice: share,
			ExactShare: s.ExactShare,
		})
		summary.Subtotal = summary.Subtotal.Add(share)
	}
	return summary
}
