package cart

import (
	"testing"

	"github.com/modamarket/backend/internal/products"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
)

func testOptions() []products.SizeOption {
	return []products.SizeOption{
		{Size: 250, StockQuantity: 5},
		{Size: 260, StockQuantity: 0},
		{Size: 270, StockQuantity: 2},
	}
}

func TestOptionEditorRecoversUnitPrice(t *testing.T) {
	t.Parallel()

	editor := NewOptionEditor(1, 250, 3, 29700, testOptions())
	if editor.UnitPrice() != 9900 {
		t.Fatalf("unit price = %d, want 9900", editor.UnitPrice())
	}

	// zero quantity guards as 1 instead of dividing by zero
	editor = NewOptionEditor(1, 250, 0, 9900, testOptions())
	if editor.UnitPrice() != 9900 {
		t.Fatalf("unit price with zero qty = %d, want 9900", editor.UnitPrice())
	}
}

func TestOptionEditorSelectSizeResetsQuantity(t *testing.T) {
	t.Parallel()

	editor := NewOptionEditor(1, 250, 3, 29700, testOptions())
	if err := editor.SelectSize(270); err != nil {
		t.Fatalf("select size: %v", err)
	}

	change := editor.Change()
	if change.NewSize != 270 || change.NewQuantity != 1 {
		t.Fatalf("expected size 270 qty 1, got %+v", change)
	}
	if change.PrevSize != 250 || change.PrevQuantity != 3 {
		t.Fatalf("previous state lost: %+v", change)
	}
}

func TestOptionEditorRejectsSoldOutSize(t *testing.T) {
	t.Parallel()

	editor := NewOptionEditor(1, 250, 1, 9900, testOptions())
	err := editor.SelectSize(260)
	if err == nil {
		t.Fatal("expected sold-out size to be rejected")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStockIssue {
		t.Fatalf("unexpected error code: %v", err)
	}

	if err := editor.SelectSize(999); err == nil {
		t.Fatal("expected unknown size to be rejected")
	}
}

func TestOptionEditorQuantityBounds(t *testing.T) {
	t.Parallel()

	editor := NewOptionEditor(1, 270, 1, 9900, testOptions())
	if err := editor.SelectSize(270); err != nil {
		t.Fatalf("select size: %v", err)
	}
	if err := editor.SetQuantity(2); err != nil {
		t.Fatalf("set quantity within stock: %v", err)
	}
	if editor.LineTotal() != 19800 {
		t.Fatalf("line total = %d, want 19800", editor.LineTotal())
	}

	if err := editor.SetQuantity(3); err == nil {
		t.Fatal("expected stock overflow to fail")
	}
	if got := editor.Change().NewQuantity; got != 2 {
		t.Fatalf("failed overflow must leave quantity unchanged, got %d", got)
	}

	if err := editor.SetQuantity(0); err == nil {
		t.Fatal("expected quantity below 1 to fail")
	}
}
