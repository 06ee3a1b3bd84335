package money

// Code represents an ISO 4217 currency code (e.g., "INR", "USD").
type Code string

// Common currency codes.
const (
	INR Code = "INR"
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
)

// DefaultCurrency is the currency assigned to accounts that do not
// specify one explicitly.
const DefaultCurrency = INR

// IsValid checks that the code is three uppercase ASCII letters.
func (c Code) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	return c[0] >= 'A' && c[0] <= 'Z' &&
		c[1] >= 'A' && c[1] <= 'Z' &&
		c[2] >= 'A' && c[2] <= 'Z'
}

// String returns the string representation of the currency code.
func (c Code) String() string {
	return string(c)
}
