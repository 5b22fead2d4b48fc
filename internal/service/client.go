package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// SessionServiceClient is a typed client for SessionService.
type SessionServiceClient struct {
	createSession     *connect.Client[CreateSessionRequest, CreateSessionResponse]
	endSession        *connect.Client[EndSessionRequest, EndSessionResponse]
	getSession        *connect.Client[GetSessionRequest, GetSessionResponse]
	addParticipant    *connect.Client[AddParticipantRequest, ParticipantResponse]
	renameParticipant *connect.Client[RenameParticipantRequest, ParticipantResponse]
	removeParticipant *connect.Client[RemoveParticipantRequest, RemoveParticipantResponse]
	addItem           *connect.Client[AddItemRequest, ItemResponse]
	updateItem        *connect.Client[UpdateItemRequest, ItemResponse]
	removeItem        *connect.Client[RemoveItemRequest, RemoveItemResponse]
	assignItem        *connect.Client[AssignItemRequest, ItemResponse]
	toggleAssignment  *connect.Client[ToggleAssignmentRequest, ItemResponse]
	setCharges        *connect.Client[SetChargesRequest, SetChargesResponse]
	recordPayment     *connect.Client[RecordPaymentRequest, RecordPaymentResponse]
	clearPayments     *connect.Client[ClearPaymentsRequest, ClearPaymentsResponse]
	getSummary        *connect.Client[GetSummaryRequest, GetSummaryResponse]
	settleUp          *connect.Client[SettleUpRequest, SettleUpResponse]
	calculate         *connect.Client[CalculateRequest, CalculateResponse]
}

// NewSessionServiceClient constructs a client for the SessionService served
// at baseURL (for example, http://localhost:8080).
func NewSessionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SessionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &SessionServiceClient{
		createSession:     connect.NewClient[CreateSessionRequest, CreateSessionResponse](httpClient, baseURL+CreateSessionProcedure, opts...),
		endSession:        connect.NewClient[EndSessionRequest, EndSessionResponse](httpClient, baseURL+EndSessionProcedure, opts...),
		getSession:        connect.NewClient[GetSessionRequest, GetSessionResponse](httpClient, baseURL+GetSessionProcedure, opts...),
		addParticipant:    connect.NewClient[AddParticipantRequest, ParticipantResponse](httpClient, baseURL+AddParticipantProcedure, opts...),
		renameParticipant: connect.NewClient[RenameParticipantRequest, ParticipantResponse](httpClient, baseURL+RenameParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[RemoveParticipantRequest, RemoveParticipantResponse](httpClient, baseURL+RemoveParticipantProcedure, opts...),
		addItem:           connect.NewClient[AddItemRequest, ItemResponse](httpClient, baseURL+AddItemProcedure, opts...),
		updateItem:        connect.NewClient[UpdateItemRequest, ItemResponse](httpClient, baseURL+UpdateItemProcedure, opts...),
		removeItem:        connect.NewClient[RemoveItemRequest, RemoveItemResponse](httpClient, baseURL+RemoveItemProcedure, opts...),
		assignItem:        connect.NewClient[AssignItemRequest, ItemResponse](httpClient, baseURL+AssignItemProcedure, opts...),
		toggleAssignment:  connect.NewClient[ToggleAssignmentRequest, ItemResponse](httpClient, baseURL+ToggleAssignmentProcedure, opts...),
		setCharges:        connect.NewClient[SetChargesRequest, SetChargesResponse](httpClient, baseURL+SetChargesProcedure, opts...),
		recordPayment:     connect.NewClient[RecordPaymentRequest, RecordPaymentResponse](httpClient, baseURL+RecordPaymentProcedure, opts...),
		clearPayments:     connect.NewClient[ClearPaymentsRequest, ClearPaymentsResponse](httpClient, baseURL+ClearPaymentsProcedure, opts...),
		getSummary:        connect.NewClient[GetSummaryRequest, GetSummaryResponse](httpClient, baseURL+GetSummaryProcedure, opts...),
		settleUp:          connect.NewClient[SettleUpRequest, SettleUpResponse](httpClient, baseURL+SettleUpProcedure, opts...),
		calculate:         connect.NewClient[CalculateRequest, CalculateResponse](httpClient, baseURL+CalculateProcedure, opts...),
	}
}

func (c *SessionServiceClient) CreateSession(ctx context.Context, req *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error) {
	return c.createSession.CallUnary(ctx, req)
}

func (c *SessionServiceClient) EndSession(ctx context.Context, req *connect.Request[EndSessionRequest]) (*connect.Response[EndSessionResponse], error) {
	return c.endSession.CallUnary(ctx, req)
}

func (c *SessionServiceClient) GetSession(ctx context.Context, req *connect.Request[GetSessionRequest]) (*connect.Response[GetSessionResponse], error) {
	return c.getSession.CallUnary(ctx, req)
}

func (c *SessionServiceClient) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[ParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *SessionServiceClient) RenameParticipant(ctx context.Context, req *connect.Request[RenameParticipantRequest]) (*connect.Response[ParticipantResponse], error) {
	return c.renameParticipant.CallUnary(ctx, req)
}

func (c *SessionServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *SessionServiceClient) AddItem(ctx context.Context, req *connect.Request[AddItemRequest]) (*connect.Response[ItemResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *SessionServiceClient) UpdateItem(ctx context.Context, req *connect.Request[UpdateItemRequest]) (*connect.Response[ItemResponse], error) {
	return c.updateItem.CallUnary(ctx, req)
}

func (c *SessionServiceClient) RemoveItem(ctx context.Context, req *connect.Request[RemoveItemRequest]) (*connect.Response[RemoveItemResponse], error) {
	return c.removeItem.CallUnary(ctx, req)
}

func (c *SessionServiceClient) AssignItem(ctx context.Context, req *connect.Request[AssignItemRequest]) (*connect.Response[ItemResponse], error) {
	return c.assignItem.CallUnary(ctx, req)
}

func (c *SessionServiceClient) ToggleAssignment(ctx context.Context, req *connect.Request[ToggleAssignmentRequest]) (*connect.Response[ItemResponse], error) {
	return c.toggleAssignment.CallUnary(ctx, req)
}

func (c *SessionServiceClient) SetCharges(ctx context.Context, req *connect.Request[SetChargesRequest]) (*connect.Response[SetChargesResponse], error) {
	return c.setCharges.CallUnary(ctx, req)
}

func (c *SessionServiceClient) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *SessionServiceClient) ClearPayments(ctx context.Context, req *connect.Request[ClearPaymentsRequest]) (*connect.Response[ClearPaymentsResponse], error) {
	return c.clearPayments.CallUnary(ctx, req)
}

func (c *SessionServiceClient) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *SessionServiceClient) SettleUp(ctx context.Context, req *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}

func (c *SessionServiceClient) Calculate(ctx context.Context, req *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error) {
	return c.calculate.CallUnary(ctx, req)
}
