package domain

import "strings"

// Status is the fulfilment stage of an order.
type Status string

const (
	StatusPlaced    Status = "PLACED"
	StatusPicked    Status = "PICKED"
	StatusPacked    Status = "PACKED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
)

// Statuses returns every status in fulfilment order.
func Statuses() []Status {
	return []Status{StatusPlaced, StatusPicked, StatusPacked, StatusShipped, StatusDelivered}
}

func (s Status) String() string { return string(s) }

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPlaced, StatusPicked, StatusPacked, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// ParseStatus matches s case-insensitively, ignoring surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", InvalidArgument("unknown order status %q", s)
	}
	return st, nil
}
