package enums

import "fmt"

// RecordType discriminates the inventory-record union: purchased lots,
// resale orders, and the sale records that pair them.
type RecordType string

const (
	RecordTypeInventory RecordType = "inventory"
	RecordTypeOrder     RecordType = "order"
	RecordTypeSale      RecordType = "sale"
)

var validRecordTypes = []RecordType{
	RecordTypeInventory,
	RecordTypeOrder,
	RecordTypeSale,
}

// String implements fmt.Stringer.
func (r RecordType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RecordType.
func (r RecordType) IsValid() bool {
	for _, candidate := range validRecordTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRecordType converts raw input into a RecordType.
func ParseRecordType(value string) (RecordType, error) {
	for _, candidate := range validRecordTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid record type %q", value)
}
