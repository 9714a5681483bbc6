// Package pricing holds the storefront money math: KRW display
// formatting and the order summary calculation shared by cart,
// checkout, and order sheet rendering.
package pricing

import "strconv"

// ShippingFee is the flat delivery charge applied to any non-empty
// order. Amounts are integral KRW throughout.
const ShippingFee = 3000

// Line is one priced cart line entering the summary.
type Line struct {
	ProductID int64
	Size      int
	Quantity  int
	UnitPrice int
	Discount  int
}

// Summary is the computed order total breakdown. FinalAmount clamps at
// zero for display; RawFinalAmount keeps the unclamped value so the
// server can reconcile over-discounted carts.
type Summary struct {
	ProductAmount  int
	DiscountAmount int
	ShippingFee    int
	FinalAmount    int
	RawFinalAmount int
	TotalQuantity  int
}

// Format renders an amount with comma thousand separators ("28000" ->
// "28,000"). Negative amounts format the magnitude; callers add their
// own sign prefix.
func Format(amount int) string {
	if amount < 0 {
		amount = -amount
	}
	digits := strconv.Itoa(amount)
	n := len(digits)
	if n <= 3 {
		return digits
	}

	out := make([]byte, 0, n+(n-1)/3)
	lead := n % 3
	if lead > 0 {
		out = append(out, digits[:lead]...)
	}
	for i := lead; i < n; i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i:i+3]...)
	}
	return string(out)
}

// Compute derives the summary for the provided lines. bonusPointsUsed
// joins the per-line discounts in DiscountAmount. The result does not
// depend on line order, and an empty set yields an all-zero summary
// with no shipping fee.
func Compute(lines []Line, shippingFee, bonusPointsUsed int) Summary {
	var s Summary
	for _, line := range lines {
		s.ProductAmount += line.UnitPrice * line.Quantity
		s.DiscountAmount += line.Discount
		s.TotalQuantity += line.Quantity
	}
	s.DiscountAmount += bonusPointsUsed

	if len(lines) > 0 {
		s.ShippingFee = shippingFee
	}

	s.RawFinalAmount = s.ProductAmount - s.DiscountAmount + s.ShippingFee
	s.FinalAmount = s.RawFinalAmount
	if s.FinalAmount < 0 {
		s.FinalAmount = 0
	}
	return s
}

// ClampBonusPoints bounds a requested bonus point spend: zero below the
// minimum spend, never more than the user holds, never more than the
// payable amount.
func ClampBonusPoints(requested, available, payable, minUse int) int {
	if requested < minUse {
		return 0
	}
	if requested > available {
		requested = available
	}
	if requested > payable {
		requested = payable
	}
	if requested < 0 {
		return 0
	}
	return requested
}
