package enums

import "fmt"

// TransactionDirection distinguishes money the organization owes a
// counterparty (payable, purchases) from money owed to it (receivable,
// resale orders).
type TransactionDirection string

const (
	TransactionDirectionPayable    TransactionDirection = "payable"
	TransactionDirectionReceivable TransactionDirection = "receivable"
)

var validTransactionDirections = []TransactionDirection{
	TransactionDirectionPayable,
	TransactionDirectionReceivable,
}

// String implements fmt.Stringer.
func (d TransactionDirection) String() string {
	return string(d)
}

// IsValid reports whether the value is a known TransactionDirection.
func (d TransactionDirection) IsValid() bool {
	for _, candidate := range validTransactionDirections {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseTransactionDirection converts raw input into a TransactionDirection.
func ParseTransactionDirection(value string) (TransactionDirection, error) {
	for _, candidate := range validTransactionDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction direction %q", value)
}
