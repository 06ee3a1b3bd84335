package admin

import (
	accountdomain "github.com/amirasaad/banking/pkg/domain/account"
	accountapi "github.com/amirasaad/banking/webapi/account"
)

// ProcessTransactionInput carries the settlement decision for a pending
// transaction.
type ProcessTransactionInput struct {
	Decision string `json:"decision" validate:"required,oneof=SUCCESS REJECTED"`
}

// ProcessRequestInput carries the resolution for an account-opening request.
type ProcessRequestInput struct {
	Approve bool `json:"approve"`
}

// ResolutionView is the response shape for a processed opening request. The
// account is present only when the resolution approved the request.
type ResolutionView struct {
	Request          *accountdomain.OpeningRequest `json:"request"`
	Account          *accountapi.View              `json:"account,omitempty"`
	AlreadyProcessed bool                          `json:"alreadyProcessed"`
}
