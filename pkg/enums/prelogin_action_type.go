package enums

import "fmt"

// PreloginActionType names the actions a visitor can stash before logging in.
type PreloginActionType string

const (
	PreloginActionAddToCart PreloginActionType = "ADD_TO_CART"
	PreloginActionBuyNow    PreloginActionType = "BUY_NOW"
)

var validPreloginActionTypes = []PreloginActionType{
	PreloginActionAddToCart,
	PreloginActionBuyNow,
}

// String implements fmt.Stringer.
func (p PreloginActionType) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p PreloginActionType) IsValid() bool {
	for _, candidate := range validPreloginActionTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePreloginActionType converts raw input into a PreloginActionType.
func ParsePreloginActionType(value string) (PreloginActionType, error) {
	for _, candidate := range validPreloginActionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid prelogin action type %q", value)
}
