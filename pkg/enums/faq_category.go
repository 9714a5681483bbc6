package enums

import "fmt"

// FAQCategory buckets the help-board entries shown on the FAQ page tabs.
type FAQCategory string

const (
	FAQCategoryAll      FAQCategory = "all"
	FAQCategoryOrder    FAQCategory = "order"
	FAQCategoryDelivery FAQCategory = "delivery"
	FAQCategoryRefund   FAQCategory = "refund"
	FAQCategoryAccount  FAQCategory = "account"
	FAQCategoryProduct  FAQCategory = "product"
)

var validFAQCategories = []FAQCategory{
	FAQCategoryAll,
	FAQCategoryOrder,
	FAQCategoryDelivery,
	FAQCategoryRefund,
	FAQCategoryAccount,
	FAQCategoryProduct,
}

// String implements fmt.Stringer.
func (f FAQCategory) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FAQCategory.
func (f FAQCategory) IsValid() bool {
	for _, candidate := range validFAQCategories {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFAQCategory converts raw input into a FAQCategory. The empty string
// maps to FAQCategoryAll, matching the storefront's default tab.
func ParseFAQCategory(value string) (FAQCategory, error) {
	if value == "" {
		return FAQCategoryAll, nil
	}
	for _, candidate := range validFAQCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid faq category %q", value)
}
