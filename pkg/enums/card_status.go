package enums

import "fmt"

// CardStatus tracks the sales lifecycle of an inventory card. The labels are
// stored verbatim because the certification workflow displays them as-is.
type CardStatus string

const (
	CardStatusInStock CardStatus = "In Stock"
	CardStatusSold    CardStatus = "Sold"
)

var validCardStatuses = []CardStatus{
	CardStatusInStock,
	CardStatusSold,
}

// String implements fmt.Stringer.
func (s CardStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CardStatus.
func (s CardStatus) IsValid() bool {
	for _, candidate := range validCardStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCardStatus converts raw input into a CardStatus.
func ParseCardStatus(value string) (CardStatus, error) {
	for _, candidate := range validCardStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid card status %q", value)
}
