package pricing

import "testing"

func TestFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		amount int
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{28000, "28,000"},
		{1234567, "1,234,567"},
		{-1000, "1,000"},
	}
	for _, tc := range cases {
		if got := Format(tc.amount); got != tc.want {
			t.Errorf("Format(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestComputeEmpty(t *testing.T) {
	t.Parallel()

	s := Compute(nil, ShippingFee, 0)
	if s.ProductAmount != 0 || s.DiscountAmount != 0 || s.ShippingFee != 0 || s.FinalAmount != 0 || s.TotalQuantity != 0 {
		t.Fatalf("expected all-zero summary for empty lines, got %+v", s)
	}
}

func TestComputeAppliesFlatShipping(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{ProductID: 1, Quantity: 1, UnitPrice: 15000},
		{ProductID: 2, Quantity: 2, UnitPrice: 5000},
	}
	s := Compute(lines, ShippingFee, 0)
	if s.ProductAmount != 25000 {
		t.Fatalf("product amount = %d, want 25000", s.ProductAmount)
	}
	if s.ShippingFee != ShippingFee {
		t.Fatalf("shipping fee = %d, want %d", s.ShippingFee, ShippingFee)
	}
	if s.FinalAmount != 28000 {
		t.Fatalf("final amount = %d, want 28000", s.FinalAmount)
	}
	if s.TotalQuantity != 3 {
		t.Fatalf("total quantity = %d, want 3", s.TotalQuantity)
	}
}

func TestComputeOrderIndependent(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{ProductID: 1, Quantity: 3, UnitPrice: 9900, Discount: 500},
		{ProductID: 2, Quantity: 1, UnitPrice: 42000},
		{ProductID: 3, Size: 260, Quantity: 2, UnitPrice: 1500, Discount: 100},
	}
	reversed := []Line{lines[2], lines[1], lines[0]}

	a := Compute(lines, ShippingFee, 1000)
	b := Compute(reversed, ShippingFee, 1000)
	if a != b {
		t.Fatalf("summary depends on line order: %+v vs %+v", a, b)
	}
}

func TestComputeClampsDisplayUnderflow(t *testing.T) {
	t.Parallel()

	lines := []Line{{ProductID: 1, Quantity: 1, UnitPrice: 1000, Discount: 10000}}
	s := Compute(lines, ShippingFee, 0)
	if s.FinalAmount != 0 {
		t.Fatalf("display amount should clamp at 0, got %d", s.FinalAmount)
	}
	if s.RawFinalAmount != 1000-10000+ShippingFee {
		t.Fatalf("raw amount should keep the underflow, got %d", s.RawFinalAmount)
	}
}

func TestClampBonusPoints(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                               string
		requested, available, payable, min int
		want                               int
	}{
		{"below minimum", 500, 5000, 30000, 1000, 0},
		{"capped by balance", 5000, 3000, 30000, 1000, 3000},
		{"capped by payable", 5000, 9000, 4000, 1000, 4000},
		{"exact", 2000, 5000, 30000, 1000, 2000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampBonusPoints(tc.requested, tc.available, tc.payable, tc.min); got != tc.want {
				t.Fatalf("ClampBonusPoints = %d, want %d", got, tc.want)
			}
		})
	}
}
