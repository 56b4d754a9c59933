package enums

import "fmt"

// OrderStatus marks whether every line item made it into the order. Orders
// whose line creation partially or totally failed stay persisted and are
// flagged incomplete instead of being rolled back.
type OrderStatus string

const (
	OrderStatusComplete   OrderStatus = "complete"
	OrderStatusIncomplete OrderStatus = "incomplete"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusComplete,
	OrderStatusIncomplete,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
