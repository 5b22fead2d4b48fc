package service

// Wire types for SessionService. Amounts travel as decimal strings with two
// places ("3.87"); requests may use any text money.ParseAmount accepts.

type Participant struct {
	ID       string `json:"id" validate:"required,max=64"`
	Name     string `json:"name" validate:"required,max=100"`
	Initials string `json:"initials,omitempty"`
}

type Item struct {
	ID             string   `json:"id" validate:"required,max=64"`
	Name           string   `json:"name" validate:"required,max=200"`
	Price          string   `json:"price" validate:"required"`
	ParticipantIDs []string `json:"participantIds,omitempty"`
}

type Payment struct {
	ParticipantID string `json:"participantId"`
	Amount        string `json:"amount"`
}

type Totals struct {
	Subtotal      string `json:"subtotal"`
	Tax           string `json:"tax"`
	TotalAfterTax string `json:"totalAfterTax"`
	Tip           string `json:"tip"`
	GrandTotal    string `json:"grandTotal"`
}

type SessionState struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	CreatedAt    string        `json:"createdAt"`
	Participants []Participant `json:"participants"`
	Items        []Item        `json:"items"`
	Payments     []Payment     `json:"payments,omitempty"`
	Totals       Totals        `json:"totals"`
}

type PersonItem struct {
	ItemID     string `json:"itemId"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	SplitCount int    `json:"splitCount"`
	Share      string `json:"share"`
	ExactShare string `json:"exactShare"`
}

type PersonAllocation struct {
	Participant Participant  `json:"participant"`
	Items       []PersonItem `json:"items"`
	Subtotal    string       `json:"subtotal"`
	TaxShare    string       `json:"taxShare"`
	TipShare    string       `json:"tipShare"`
	Percentage  string       `json:"percentage"`
	GrandTotal  string       `json:"grandTotal"`
}

type Allocation struct {
	People            []PersonAllocation `json:"people"`
	OverallItemsTotal string             `json:"overallItemsTotal"`
	Totals            Totals             `json:"totals"`
	UnassignedItemIDs []string           `json:"unassignedItemIds,omitempty"`
}

type Balance struct {
	ParticipantID string `json:"participantId"`
	Paid          string `json:"paid"`
	Owed          string `json:"owed"`
	Net           string `json:"net"`
}

type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type CreateSessionRequest struct {
	Title        string   `json:"title,omitempty" validate:"max=200"`
	Participants []string `json:"participants,omitempty" validate:"dive,required,max=100"`
}

type CreateSessionResponse struct {
	Session SessionState `json:"session"`
}

type EndSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type EndSessionResponse struct{}

type GetSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type GetSessionResponse struct {
	Session SessionState `json:"session"`
}

type AddParticipantRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Name      string `json:"name" validate:"required,max=100"`
}

type RenameParticipantRequest struct {
	SessionID     string `json:"sessionId" validate:"required"`
	ParticipantID string `json:"participantId" validate:"required"`
	Name          string `json:"name" validate:"required,max=100"`
}

type ParticipantResponse struct {
	Participant Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	SessionID     string `json:"sessionId" validate:"required"`
	ParticipantID string `json:"participantId" validate:"required"`
}

type RemoveParticipantResponse struct{}

type AddItemRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Name      string `json:"name" validate:"required,max=200"`
	Price     string `json:"price" validate:"required"`
}

type UpdateItemRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	ItemID    string `json:"itemId" validate:"required"`
	Name      string `json:"name" validate:"required,max=200"`
	Price     string `json:"price" validate:"required"`
}

type ItemResponse struct {
	Item Item `json:"item"`
}

type RemoveItemRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	ItemID    string `json:"itemId" validate:"required"`
}

type RemoveItemResponse struct{}

// AssignItemRequest replaces an item's assignees. An empty list unassigns it.
type AssignItemRequest struct {
	SessionID      string   `json:"sessionId" validate:"required"`
	ItemID         string   `json:"itemId" validate:"required"`
	ParticipantIDs []string `json:"participantIds" validate:"dive,required"`
}

type ToggleAssignmentRequest struct {
	SessionID     string `json:"sessionId" validate:"required"`
	ItemID        string `json:"itemId" validate:"required"`
	ParticipantID string `json:"participantId" validate:"required"`
}

// SetChargesRequest updates tax and tip. An empty field is left unchanged.
type SetChargesRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Tax       string `json:"tax,omitempty"`
	Tip       string `json:"tip,omitempty"`
}

type SetChargesResponse struct {
	Totals Totals `json:"totals"`
}

type RecordPaymentRequest struct {
	SessionID     string `json:"sessionId" validate:"required"`
	ParticipantID string `json:"participantId" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
}

type RecordPaymentResponse struct {
	Payment Payment `json:"payment"`
}

type ClearPaymentsRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type ClearPaymentsResponse struct{}

type GetSummaryRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type GetSummaryResponse struct {
	Allocation Allocation `json:"allocation"`
}

type SettleUpRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type SettleUpResponse struct {
	Allocation Allocation `json:"allocation"`
	Balances   []Balance  `json:"balances"`
	Transfers  []Transfer `json:"transfers"`
}

// CalculateRequest allocates a receipt without creating a session.
// UnassignedPolicy overrides the server default when set.
type CalculateRequest struct {
	Participants     []Participant `json:"participants" validate:"unique=ID,dive"`
	Items            []Item        `json:"items" validate:"unique=ID,dive"`
	Tax              string        `json:"tax,omitempty"`
	Tip              string        `json:"tip,omitempty"`
	UnassignedPolicy string        `json:"unassignedPolicy,omitempty" validate:"omitempty,oneof=exclude reject split_all"`
}

type CalculateResponse struct {
	Allocation Allocation `json:"allocation"`
}

func (r *EndSessionRequest) GetSessionID() string        { return r.SessionID }
func (r *GetSessionRequest) GetSessionID() string        { return r.SessionID }
func (r *AddParticipantRequest) GetSessionID() string    { return r.SessionID }
func (r *RenameParticipantRequest) GetSessionID() string { return r.SessionID }
func (r *RemoveParticipantRequest) GetSessionID() string { return r.SessionID }
func (r *AddItemRequest) GetSessionID() string           { return r.SessionID }
func (r *UpdateItemRequest) GetSessionID() string        { return r.SessionID }
func (r *RemoveItemRequest) GetSessionID() string        { return r.SessionID }
func (r *AssignItemRequest) GetSessionID() string        { return r.SessionID }
func (r *ToggleAssignmentRequest) GetSessionID() string  { return r.SessionID }
func (r *SetChargesRequest) GetSessionID() string        { return r.SessionID }
func (r *RecordPaymentRequest) GetSessionID() string     { return r.SessionID }
func (r *ClearPaymentsRequest) GetSessionID() string     { return r.SessionID }
func (r *GetSummaryRequest) GetSessionID() string        { return r.SessionID }
func (r *SettleUpRequest) GetSessionID() string          { return r.SessionID }
