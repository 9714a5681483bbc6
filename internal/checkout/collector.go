package checkout

import "github.com/modamarket/backend/internal/cart"

// Collector picks the cart lines entering a checkout attempt. The two
// storefront entry points ("order selected" and "order everything")
// differ only here; the rest of the machine is shared.
type Collector interface {
	Collect(lines []cart.LineItem) []cart.LineItem
	EmptyMessage() string
}

// AllCollector takes every cart line.
type AllCollector struct{}

func (AllCollector) Collect(lines []cart.LineItem) []cart.LineItem {
	return lines
}

func (AllCollector) EmptyMessage() string {
	return "주문할 상품이 없습니다."
}

// SelectedCollector takes only the lines the shopper marked.
type SelectedCollector struct {
	Keys []cart.LineKey
}

func (c SelectedCollector) Collect(lines []cart.LineItem) []cart.LineItem {
	wanted := make(map[cart.LineKey]struct{}, len(c.Keys))
	for _, key := range c.Keys {
		wanted[key] = struct{}{}
	}
	var out []cart.LineItem
	for _, line := range lines {
		if _, ok := wanted[cart.LineKey{ProductID: line.ProductID, Size: line.Size}]; ok {
			out = append(out, line)
		}
	}
	return out
}

func (SelectedCollector) EmptyMessage() string {
	return "상품을 선택해주세요."
}
