package account

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus enumerates the lifecycle of an account-opening request.
// Requests are resolved exactly once.
type RequestStatus string

const (
	// RequestPending awaits an admin decision.
	RequestPending RequestStatus = "PENDING"
	// RequestApproved produced exactly one account.
	RequestApproved RequestStatus = "APPROVED"
	// RequestRejected is terminal with no account created.
	RequestRejected RequestStatus = "REJECTED"
)

// OpeningRequest is a customer's request to open an account, resolved by
// the approval workflow.
type OpeningRequest struct {
	ID          uuid.UUID     `json:"id"`
	OwnerID     uuid.UUID     `json:"ownerId"`
	AccountType Type          `json:"accountType"`
	Status      RequestStatus `json:"status"`
	RequestedAt time.Time     `json:"requestedAt"`
}

// NewOpeningRequest creates a pending account-opening request.
func NewOpeningRequest(ownerID uuid.UUID, accountType Type) *OpeningRequest {
	return &OpeningRequest{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		AccountType: accountType,
		Status:      RequestPending,
		RequestedAt: time.Now().UTC(),
	}
}

// IsPending reports whether the request still awaits resolution.
func (r *OpeningRequest) IsPending() bool {
	return r.Status == RequestPending
}
