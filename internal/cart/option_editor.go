package cart

import (
	"github.com/modamarket/backend/internal/products"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
)

// OptionEditor models an option-change session for a single cart
// line: current size/quantity plus the size options available on the
// product. Mutations validate against stock before taking effect.
type OptionEditor struct {
	productID int64
	prevSize  int
	prevQty   int
	unitPrice int

	size    int
	qty     int
	options map[int]products.SizeOption
}

// NewOptionEditor opens an editor for an existing line. The unit price
// is recovered from the line total, guarding a zero quantity as 1.
func NewOptionEditor(productID int64, size, quantity, lineTotal int, options []products.SizeOption) *OptionEditor {
	qty := quantity
	if qty <= 0 {
		qty = 1
	}
	bySize := make(map[int]products.SizeOption, len(options))
	for _, opt := range options {
		opt.Disabled = opt.StockQuantity == 0
		bySize[opt.Size] = opt
	}
	return &OptionEditor{
		productID: productID,
		prevSize:  size,
		prevQty:   quantity,
		unitPrice: lineTotal / qty,
		size:      size,
		qty:       qty,
		options:   bySize,
	}
}

// SelectSize switches the edited line to another size and resets the
// quantity to 1. Unknown and sold-out sizes are rejected.
func (e *OptionEditor) SelectSize(size int) error {
	opt, ok := e.options[size]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "size not offered for this product")
	}
	if opt.Disabled {
		return pkgerrors.New(pkgerrors.CodeStockIssue, "selected size is sold out")
	}
	e.size = size
	e.qty = 1
	return nil
}

// SetQuantity bounds the quantity to [1, stock]. On a stock overflow
// the current quantity is left unchanged.
func (e *OptionEditor) SetQuantity(qty int) error {
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	opt, ok := e.options[e.size]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "size not offered for this product")
	}
	if qty > opt.StockQuantity {
		return pkgerrors.New(pkgerrors.CodeStockIssue, "requested quantity exceeds stock").
			WithDetails(map[string]any{"stock": opt.StockQuantity})
	}
	e.qty = qty
	return nil
}

// UnitPrice returns the per-unit price recovered at open time.
func (e *OptionEditor) UnitPrice() int {
	return e.unitPrice
}

// LineTotal returns the running total for the edited state.
func (e *OptionEditor) LineTotal() int {
	return e.unitPrice * e.qty
}

// Change returns the pending option change for persistence.
func (e *OptionEditor) Change() OptionChange {
	return OptionChange{
		ProductID:    e.productID,
		PrevSize:     e.prevSize,
		PrevQuantity: e.prevQty,
		NewSize:      e.size,
		NewQuantity:  e.qty,
	}
}

// OptionChange is the atomic size/quantity replacement applied to a
// stored cart line.
type OptionChange struct {
	ProductID    int64 `json:"productId" validate:"required,gt=0"`
	PrevSize     int   `json:"prevSize" validate:"gte=0"`
	PrevQuantity int   `json:"prevQuantity" validate:"required,gte=1"`
	NewSize      int   `json:"newSize" validate:"gte=0"`
	NewQuantity  int   `json:"newQuantity" validate:"required,gte=1"`
}
