package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/metrics"
	"github.com/mmynk/tabsplit/internal/money"
	"github.com/mmynk/tabsplit/internal/session"
	"github.com/mmynk/tabsplit/internal/storage"
)

// SessionServiceName is the fully-qualified name of the session service.
const SessionServiceName = "tabsplit.v1.SessionService"

// Procedure paths served by SessionService.
const (
	CreateSessionProcedure     = "/" + SessionServiceName + "/CreateSession"
	EndSessionProcedure        = "/" + SessionServiceName + "/EndSession"
	GetSessionProcedure        = "/" + SessionServiceName + "/GetSession"
	AddParticipantProcedure    = "/" + SessionServiceName + "/AddParticipant"
	RenameParticipantProcedure = "/" + SessionServiceName + "/RenameParticipant"
	RemoveParticipantProcedure = "/" + SessionServiceName + "/RemoveParticipant"
	AddItemProcedure           = "/" + SessionServiceName + "/AddItem"
	UpdateItemProcedure        = "/" + SessionServiceName + "/UpdateItem"
	RemoveItemProcedure        = "/" + SessionServiceName + "/RemoveItem"
	AssignItemProcedure        = "/" + SessionServiceName + "/AssignItem"
	ToggleAssignmentProcedure  = "/" + SessionServiceName + "/ToggleAssignment"
	SetChargesProcedure        = "/" + SessionServiceName + "/SetCharges"
	RecordPaymentProcedure     = "/" + SessionServiceName + "/RecordPayment"
	ClearPaymentsProcedure     = "/" + SessionServiceName + "/ClearPayments"
	GetSummaryProcedure        = "/" + SessionServiceName + "/GetSummary"
	SettleUpProcedure          = "/" + SessionServiceName + "/SettleUp"
	CalculateProcedure         = "/" + SessionServiceName + "/Calculate"
)

// SessionService implements the Connect SessionService.
type SessionService struct {
	store    storage.Store
	calc     *calculator.Calculator
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// NewSessionService creates a SessionService over the given store. A nil
// calculator uses the default policies; a nil metrics disables recording.
func NewSessionService(store storage.Store, calc *calculator.Calculator, m *metrics.Metrics) *SessionService {
	if calc == nil {
		calc = calculator.New()
	}
	return &SessionService{
		store:    store,
		calc:     calc,
		metrics:  m,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateSession starts a new session, optionally with an initial set of people.
func (s *SessionService) CreateSession(ctx context.Context, req *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error) {
	sess := session.New(session.WithTitle(req.Msg.Title))
	for _, name := range req.Msg.Participants {
		if _, err := sess.AddParticipant(name); err != nil {
			return nil, connectError(err)
		}
	}

	if err := s.store.Create(ctx, sess); err != nil {
		slog.Error("CreateSession failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.metrics.SetActiveSessions(s.store.Len())

	slog.Info("Session created", "session_id", sess.ID(), "participants", len(req.Msg.Participants))
	return connect.NewResponse(&CreateSessionResponse{
		Session: toSessionState(sess.Snapshot()),
	}), nil
}

// EndSession discards a session and everything in it.
func (s *SessionService) EndSession(ctx context.Context, req *connect.Request[EndSessionRequest]) (*connect.Response[EndSessionResponse], error) {
	if err := s.store.Delete(ctx, req.Msg.SessionID); err != nil {
		return nil, connectError(err)
	}
	s.metrics.SetActiveSessions(s.store.Len())

	slog.Info("Session ended", "session_id", req.Msg.SessionID)
	return connect.NewResponse(&EndSessionResponse{}), nil
}

// GetSession returns the current state of a session.
func (s *SessionService) GetSession(ctx context.Context, req *connect.Request[GetSessionRequest]) (*connect.Response[GetSessionResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&GetSessionResponse{
		Session: toSessionState(sess.Snapshot()),
	}), nil
}

// AddParticipant adds a person to a session.
func (s *SessionService) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[ParticipantResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	p, err := sess.AddParticipant(req.Msg.Name)
	if err != nil {
		return nil, connectError(err)
	}
	slog.Debug("Participant added", "session_id", sess.ID(), "participant_id", p.ID)
	return connect.NewResponse(&ParticipantResponse{Participant: toParticipant(p)}), nil
}

// RenameParticipant changes a person's display name.
func (s *SessionService) RenameParticipant(ctx context.Context, req *connect.Request[RenameParticipantRequest]) (*connect.Response[ParticipantResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	p, err := sess.RenameParticipant(req.Msg.ParticipantID, req.Msg.Name)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ParticipantResponse{Participant: toParticipant(p)}), nil
}

// RemoveParticipant removes a person along with their assignments and payments.
func (s *SessionService) RemoveParticipant(ctx context.Context, req *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	if err := sess.RemoveParticipant(req.Msg.ParticipantID); err != nil {
		return nil, connectError(err)
	}
	slog.Debug("Participant removed", "session_id", sess.ID(), "participant_id", req.Msg.ParticipantID)
	return connect.NewResponse(&RemoveParticipantResponse{}), nil
}

// AddItem appends a line item to the session's receipt.
func (s *SessionService) AddItem(ctx context.Context, req *connect.Request[AddItemRequest]) (*connect.Response[ItemResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	item, err := sess.AddItem(req.Msg.Name, req.Msg.Price)
	if err != nil {
		return nil, connectError(err)
	}
	slog.Debug("Item added", "session_id", sess.ID(), "item_id", item.ID, "price", money.Format(item.Price))
	return connect.NewResponse(&ItemResponse{Item: toItem(item)}), nil
}

// UpdateItem edits an item's name and price.
func (s *SessionService) UpdateItem(ctx context.Context, req *connect.Request[UpdateItemRequest]) (*connect.Response[ItemResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	item, err := sess.UpdateItem(req.Msg.ItemID, req.Msg.Name, req.Msg.Price)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ItemResponse{Item: toItem(item)}), nil
}

// RemoveItem deletes an item from the receipt.
func (s *SessionService) RemoveItem(ctx context.Context, req *connect.Request[RemoveItemRequest]) (*connect.Response[RemoveItemResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	if err := sess.RemoveItem(req.Msg.ItemID); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&RemoveItemResponse{}), nil
}

// AssignItem replaces the set of people sharing an item.
func (s *SessionService) AssignItem(ctx context.Context, req *connect.Request[AssignItemRequest]) (*connect.Response[ItemResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	item, err := sess.AssignItem(req.Msg.ItemID, req.Msg.ParticipantIDs)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ItemResponse{Item: toItem(item)}), nil
}

// ToggleAssignment flips one person's assignment to an item.
func (s *SessionService) ToggleAssignment(ctx context.Context, req *connect.Request[ToggleAssignmentRequest]) (*connect.Response[ItemResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	item, err := sess.ToggleAssignment(req.Msg.ItemID, req.Msg.ParticipantID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ItemResponse{Item: toItem(item)}), nil
}

// SetCharges updates the receipt's tax and tip.
func (s *SessionService) SetCharges(ctx context.Context, req *connect.Request[SetChargesRequest]) (*connect.Response[SetChargesResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	if req.Msg.Tax != "" {
		if err := sess.SetTax(req.Msg.Tax); err != nil {
			return nil, connectError(err)
		}
	}
	if req.Msg.Tip != "" {
		if err := sess.SetTip(req.Msg.Tip); err != nil {
			return nil, connectError(err)
		}
	}
	snap := sess.Snapshot()
	return connect.NewResponse(&SetChargesResponse{
		Totals: toTotals(calculator.Totals(snap.Receipt)),
	}), nil
}

// RecordPayment notes money a participant put toward the bill.
func (s *SessionService) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	p, err := sess.RecordPayment(req.Msg.ParticipantID, req.Msg.Amount)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&RecordPaymentResponse{Payment: toPayment(p)}), nil
}

// ClearPayments forgets every payment recorded in a session.
func (s *SessionService) ClearPayments(ctx context.Context, req *connect.Request[ClearPaymentsRequest]) (*connect.Response[ClearPaymentsResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	sess.ClearPayments()
	return connect.NewResponse(&ClearPaymentsResponse{}), nil
}

// GetSummary allocates the session's receipt across its participants.
func (s *SessionService) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	alloc, err := sess.Summary(s.calc)
	s.observeAllocation(err)
	if err != nil {
		slog.Warn("GetSummary allocation failed", "session_id", sess.ID(), "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&GetSummaryResponse{Allocation: toAllocation(alloc)}), nil
}

// SettleUp allocates the receipt and works out who should pay whom.
func (s *SessionService) SettleUp(ctx context.Context, req *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error) {
	sess, err := s.store.Get(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError(err)
	}
	settlement, err := sess.Settle(s.calc)
	s.observeAllocation(err)
	if err != nil {
		slog.Warn("SettleUp allocation failed", "session_id", sess.ID(), "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&SettleUpResponse{
		Allocation: toAllocation(settlement.Allocation),
		Balances:   toBalances(settlement.Balances),
		Transfers:  toTransfers(settlement.Transfers),
	}), nil
}

// Calculate allocates a receipt sent in full with the request. Nothing is stored.
func (s *SessionService) Calculate(ctx context.Context, req *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error) {
	receipt, participants, err := fromCalculateRequest(req.Msg)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	calc := s.calc
	if req.Msg.UnassignedPolicy != "" {
		policy, err := calculator.ParseUnassignedPolicy(req.Msg.UnassignedPolicy)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		calc = calc.With(calculator.WithUnassignedPolicy(policy))
	}

	slog.Debug("Calculating allocation",
		"items", len(receipt.Items),
		"participants", len(participants),
		"policy", calc.Policy(),
	)
	alloc, err := calc.Allocate(receipt, participants)
	s.observeAllocation(err)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&CalculateResponse{Allocation: toAllocation(alloc)}), nil
}

func (s *SessionService) observeAllocation(err error) {
	switch {
	case err == nil:
		s.metrics.ObserveAllocation("ok")
	case errors.Is(err, calculator.ErrUnassignedItems),
		errors.Is(err, calculator.ErrUnknownParticipant),
		errors.Is(err, calculator.ErrDuplicateParticipant):
		s.metrics.ObserveAllocation("rejected")
	default:
		s.metrics.ObserveAllocation("error")
	}
}

// connectError maps domain errors onto Connect codes.
func connectError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, session.ErrParticipantNotFound),
		errors.Is(err, session.ErrItemNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, session.ErrDuplicateName):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, session.ErrEmptyName),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrNegativeAmount),
		errors.Is(err, calculator.ErrUnknownParticipant),
		errors.Is(err, calculator.ErrDuplicateParticipant):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, calculator.ErrUnassignedItems):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		slog.Error("Unexpected service error", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
}

// validated runs struct validation on the request before calling fn.
func validated[Req, Res any](v *validator.Validate, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error)) func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error) {
	return func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
		if err := v.Struct(req.Msg); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid request: %w", err))
		}
		return fn(ctx, req)
	}
}

// NewSessionServiceHandler builds an HTTP handler for every SessionService
// procedure. It returns the path to mount the handler on.
func NewSessionServiceHandler(svc *SessionService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	v := svc.validate

	mux := http.NewServeMux()
	mux.Handle(CreateSessionProcedure, connect.NewUnaryHandler(CreateSessionProcedure, validated(v, svc.CreateSession), opts...))
	mux.Handle(EndSessionProcedure, connect.NewUnaryHandler(EndSessionProcedure, validated(v, svc.EndSession), opts...))
	mux.Handle(GetSessionProcedure, connect.NewUnaryHandler(GetSessionProcedure, validated(v, svc.GetSession), opts...))
	mux.Handle(AddParticipantProcedure, connect.NewUnaryHandler(AddParticipantProcedure, validated(v, svc.AddParticipant), opts...))
	mux.Handle(RenameParticipantProcedure, connect.NewUnaryHandler(RenameParticipantProcedure, validated(v, svc.RenameParticipant), opts...))
	mux.Handle(RemoveParticipantProcedure, connect.NewUnaryHandler(RemoveParticipantProcedure, validated(v, svc.RemoveParticipant), opts...))
	mux.Handle(AddItemProcedure, connect.NewUnaryHandler(AddItemProcedure, validated(v, svc.AddItem), opts...))
	mux.Handle(UpdateItemProcedure, connect.NewUnaryHandler(UpdateItemProcedure, validated(v, svc.UpdateItem), opts...))
	mux.Handle(RemoveItemProcedure, connect.NewUnaryHandler(RemoveItemProcedure, validated(v, svc.RemoveItem), opts...))
	mux.Handle(AssignItemProcedure, connect.NewUnaryHandler(AssignItemProcedure, validated(v, svc.AssignItem), opts...))
	mux.Handle(ToggleAssignmentProcedure, connect.NewUnaryHandler(ToggleAssignmentProcedure, validated(v, svc.ToggleAssignment), opts...))
	mux.Handle(SetChargesProcedure, connect.NewUnaryHandler(SetChargesProcedure, validated(v, svc.SetCharges), opts...))
	mux.Handle(RecordPaymentProcedure, connect.NewUnaryHandler(RecordPaymentProcedure, validated(v, svc.RecordPayment), opts...))
	mux.Handle(ClearPaymentsProcedure, connect.NewUnaryHandler(ClearPaymentsProcedure, validated(v, svc.ClearPayments), opts...))
	mux.Handle(GetSummaryProcedure, connect.NewUnaryHandler(GetSummaryProcedure, validated(v, svc.GetSummary), opts...))
	mux.Handle(SettleUpProcedure, connect.NewUnaryHandler(SettleUpProcedure, validated(v, svc.SettleUp), opts...))
	mux.Handle(CalculateProcedure, connect.NewUnaryHandler(CalculateProcedure, validated(v, svc.Calculate), opts...))

	return "/" + SessionServiceName + "/", mux
}
