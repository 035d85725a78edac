package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SeatAssignment maps one seat label to the member holding it.
type SeatAssignment struct {
	SeatLabel string     `json:"seat_label"`
	MemberID  *uuid.UUID `json:"member_id,omitempty"`
}

// SeatAssignments is the ordered seat list stored on a record. When populated
// its length equals the record quantity.
type SeatAssignments []SeatAssignment

// Value implements driver.Valuer so GORM can persist the list as JSON.
func (s SeatAssignments) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *SeatAssignments) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported seat assignment column type %T", value)
	}
}

// Labels returns the seat labels in order.
func (s SeatAssignments) Labels() []string {
	labels := make([]string, 0, len(s))
	for _, seat := range s {
		labels = append(labels, seat.SeatLabel)
	}
	return labels
}
