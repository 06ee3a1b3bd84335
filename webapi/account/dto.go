package account

import accountdomain "github.com/amirasaad/banking/pkg/domain/account"

// CreateInput is the request body for opening an account. Customers file an
// opening request for themselves; admins name the owner and the account is
// created directly.
type CreateInput struct {
	AccountType string `json:"accountType" validate:"required"`
	OwnerID     string `json:"ownerId,omitempty"`
}

// View is the response shape for an account. The domain type keeps its
// balance out of JSON; the view renders it as a decimal string.
type View struct {
	*accountdomain.Account
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// ViewOf wraps an account for rendering. The balance is the bare decimal;
// the currency is its own field.
func ViewOf(a *accountdomain.Account) View {
	return View{
		Account:  a,
		Balance:  a.Balance.Amount().String(),
		Currency: a.Currency().String(),
	}
}

// ViewsOf wraps a list of accounts for rendering.
func ViewsOf(accounts []*accountdomain.Account) []View {
	out := make([]View, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, ViewOf(a))
	}
	return out
}
