package transaction

import accountdomain "github.com/amirasaad/banking/pkg/domain/account"

// MoveInput is the request body for deposits and withdrawals. Amount is a
// decimal string so no precision is lost in transit.
type MoveInput struct {
	AccountNumber string `json:"accountNumber" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
	Currency      string `json:"currency,omitempty"`
	Description   string `json:"description,omitempty"`
}

// TransferInput is the request body for transfers.
type TransferInput struct {
	SourceNumber string `json:"sourceNumber" validate:"required"`
	TargetNumber string `json:"targetNumber" validate:"required"`
	Amount       string `json:"amount" validate:"required"`
	Currency     string `json:"currency,omitempty"`
	Description  string `json:"description,omitempty"`
}

// View is the response shape for a transaction. The domain type keeps its
// amount out of JSON; the view renders it as a decimal string.
type View struct {
	*accountdomain.Transaction
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// ViewOf wraps a domain transaction for JSON rendering.
func ViewOf(tx *accountdomain.Transaction) View {
	return View{
		Transaction: tx,
		Amount:      tx.Amount.Amount().String(),
		Currency:    tx.Amount.Currency().String(),
	}
}

// ViewsOf wraps a list of domain transactions for JSON rendering.
func ViewsOf(txs []*accountdomain.Transaction) []View {
	out := make([]View, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ViewOf(tx))
	}
	return out
}
