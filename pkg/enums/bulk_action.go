package enums

import "fmt"

// BulkAction tags a bulk product mutation request.
type BulkAction string

const (
	BulkActionActivate      BulkAction = "activate"
	BulkActionDeactivate    BulkAction = "deactivate"
	BulkActionDelete        BulkAction = "delete"
	BulkActionUpdateStock   BulkAction = "update_stock"
	BulkActionUpdatePrice   BulkAction = "update_price"
	BulkActionApplyDiscount BulkAction = "apply_discount"
)

var validBulkActions = []BulkAction{
	BulkActionActivate,
	BulkActionDeactivate,
	BulkActionDelete,
	BulkActionUpdateStock,
	BulkActionUpdatePrice,
	BulkActionApplyDiscount,
}

// String implements fmt.Stringer.
func (a BulkAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known BulkAction.
func (a BulkAction) IsValid() bool {
	for _, candidate := range validBulkActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseBulkAction converts raw input into a BulkAction.
func ParseBulkAction(value string) (BulkAction, error) {
	for _, candidate := range validBulkActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bulk action %q", value)
}
