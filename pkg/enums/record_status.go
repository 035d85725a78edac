package enums

import "fmt"

// RecordStatus tracks the lifecycle of an inventory record. The legal set
// depends on the record type; see StatusDomain and CanTransition.
type RecordStatus string

const (
	RecordStatusAvailable   RecordStatus = "available"
	RecordStatusUnfulfilled RecordStatus = "unfulfilled"
	RecordStatusReserved    RecordStatus = "reserved"
	RecordStatusCompleted   RecordStatus = "completed"
	RecordStatusClosed      RecordStatus = "closed"
	RecordStatusCancelled   RecordStatus = "cancelled"
)

var validRecordStatuses = []RecordStatus{
	RecordStatusAvailable,
	RecordStatusUnfulfilled,
	RecordStatusReserved,
	RecordStatusCompleted,
	RecordStatusClosed,
	RecordStatusCancelled,
}

var statusDomains = map[RecordType][]RecordStatus{
	RecordTypeInventory: {
		RecordStatusAvailable,
		RecordStatusReserved,
		RecordStatusCompleted,
		RecordStatusClosed,
		RecordStatusCancelled,
	},
	RecordTypeOrder: {
		RecordStatusUnfulfilled,
		RecordStatusReserved,
		RecordStatusCompleted,
		RecordStatusClosed,
		RecordStatusCancelled,
	},
	RecordTypeSale: {
		RecordStatusReserved,
		RecordStatusCompleted,
		RecordStatusCancelled,
	},
}

// String implements fmt.Stringer.
func (s RecordStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RecordStatus.
func (s RecordStatus) IsValid() bool {
	for _, candidate := range validRecordStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsLocked reports whether the status is terminal: once a record reaches it,
// no other status may be selected.
func (s RecordStatus) IsLocked() bool {
	return s == RecordStatusCompleted || s == RecordStatusClosed
}

// ParseRecordStatus converts raw input into a RecordStatus.
func ParseRecordStatus(value string) (RecordStatus, error) {
	for _, candidate := range validRecordStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid record status %q", value)
}

// StatusDomain returns the statuses legal for the given record type.
func StatusDomain(t RecordType) []RecordStatus {
	return statusDomains[t]
}

// InitialStatus returns the status a freshly created record of the given
// type carries.
func InitialStatus(t RecordType) RecordStatus {
	switch t {
	case RecordTypeInventory:
		return RecordStatusAvailable
	case RecordTypeOrder:
		return RecordStatusUnfulfilled
	case RecordTypeSale:
		return RecordStatusReserved
	default:
		return ""
	}
}

// CanTransition reports whether a record of type t may move from one status
// to another. Locked statuses only admit themselves, and cancelled is
// terminal too: a soft-deleted record whose transaction was voided never
// comes back through a status edit.
func CanTransition(t RecordType, from, to RecordStatus) bool {
	if from.IsLocked() || from == RecordStatusCancelled {
		return from == to
	}
	for _, candidate := range statusDomains[t] {
		if candidate == to {
			return true
		}
	}
	return false
}
