package enums

import "fmt"

// StockIssueType enumerates the reasons a requested line cannot be ordered.
// Values travel on the wire in the stock-check response, so they stay
// SCREAMING_SNAKE for compatibility with the storefront pages.
type StockIssueType string

const (
	StockIssueOutOfStock     StockIssueType = "OUT_OF_STOCK"
	StockIssueNotEnoughStock StockIssueType = "NOT_ENOUGH_STOCK"
	StockIssueUnknownProduct StockIssueType = "UNKNOWN_PRODUCT"
)

var validStockIssueTypes = []StockIssueType{
	StockIssueOutOfStock,
	StockIssueNotEnoughStock,
	StockIssueUnknownProduct,
}

// String implements fmt.Stringer.
func (s StockIssueType) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s StockIssueType) IsValid() bool {
	for _, candidate := range validStockIssueTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockIssueType converts raw input into a StockIssueType.
func ParseStockIssueType(value string) (StockIssueType, error) {
	for _, candidate := range validStockIssueTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock issue type %q", value)
}
