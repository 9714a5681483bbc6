package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modamarket/backend/api/middleware"
	cartsvc "github.com/modamarket/backend/internal/cart"
	"github.com/modamarket/backend/internal/pricing"
	"github.com/modamarket/backend/internal/stock"
	"github.com/modamarket/backend/pkg/db/models"
)

type stubCartService struct {
	rows    []models.CartItem
	summary pricing.Summary
	added   []cartsvc.AddItemInput
	deleted []cartsvc.LineKey
}

func (s *stubCartService) AddItems(ctx context.Context, userID int64, items []cartsvc.AddItemInput) error {
	s.added = append(s.added, items...)
	return nil
}

func (s *stubCartService) List(ctx context.Context, userID int64) ([]models.CartItem, error) {
	return s.rows, nil
}

func (s *stubCartService) Summary(ctx context.Context, userID int64, bonusPointsUsed int) (pricing.Summary, error) {
	return s.summary, nil
}

func (s *stubCartService) UpdateOption(ctx context.Context, userID int64, change cartsvc.OptionChange) error {
	return nil
}

func (s *stubCartService) Delete(ctx context.Context, userID int64, keys []cartsvc.LineKey) (int64, error) {
	s.deleted = append(s.deleted, keys...)
	return int64(len(keys)), nil
}

type stubStockRepo struct {
	sizes    []models.ProductSize
	products []models.Product
}

func (s stubStockRepo) ListSizesForProducts(ctx context.Context, productIDs []int64) ([]models.ProductSize, error) {
	return s.sizes, nil
}

func (s stubStockRepo) ListProducts(ctx context.Context, productIDs []int64) ([]models.Product, error) {
	return s.products, nil
}

func withUser(r *http.Request, userID int64) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func TestCartAddAcceptsLegacyArrayPayload(t *testing.T) {
	svc := &stubCartService{}
	handler := CartAdd(svc, nil)

	body := `[{"userId":7,"productId":3,"size":260,"productQuantity":2}]`
	req := withUser(httptest.NewRequest(http.MethodPost, "/cart/add", bytes.NewReader([]byte(body))), 7)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", resp.Code, resp.Body.String())
	}
	if len(svc.added) != 1 || svc.added[0].ProductID != 3 || svc.added[0].Quantity != 2 {
		t.Fatalf("unexpected recorded adds %+v", svc.added)
	}
}

func TestCartFetchLineTotalCountsDiscountOncePerRow(t *testing.T) {
	svc := &stubCartService{rows: []models.CartItem{{
		ProductID: 3,
		Product:   models.Product{Name: "베이직 슬랙스"},
		Size:      260,
		Quantity:  3,
		UnitPrice: 30000,
		Discount:  3000,
	}}}
	handler := CartFetch(svc, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/cart/", nil), 7)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Items []CartLineView `json:"items"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("expected one line got %+v", envelope.Data.Items)
	}
	line := envelope.Data.Items[0]
	if line.LineTotal != 90000 {
		t.Fatalf("line total must be unit price times quantity, got %d", line.LineTotal)
	}
	if line.Discount != 3000 {
		t.Fatalf("discount applies once per row, got %d", line.Discount)
	}
}

func TestCartStockCheckOKWhenFulfillable(t *testing.T) {
	reconciler, err := stock.NewReconciler(stubStockRepo{
		sizes:    []models.ProductSize{{ProductID: 1, Size: 270, StockQuantity: 10}},
		products: []models.Product{{ID: 1, Name: "베이직 슬랙스"}},
	}, nil)
	if err != nil {
		t.Fatalf("reconciler: %v", err)
	}
	handler := CartStockCheck(reconciler, nil)

	body := `[{"productId":1,"size":270,"quantity":2}]`
	req := httptest.NewRequest(http.MethodPost, "/cart/stock", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestCartStockCheckConflictRendersLegacyReport(t *testing.T) {
	reconciler, err := stock.NewReconciler(stubStockRepo{
		sizes: []models.ProductSize{
			{ProductID: 1, Size: 270, StockQuantity: 1},
			{ProductID: 2, Size: 0, StockQuantity: 0},
		},
		products: []models.Product{
			{ID: 1, Name: "베이직 슬랙스"},
			{ID: 2, Name: "니트 가디건"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("reconciler: %v", err)
	}
	handler := CartStockCheck(reconciler, nil)

	body := `[{"productId":1,"size":270,"quantity":3},{"productId":2,"size":0,"quantity":1}]`
	req := httptest.NewRequest(http.MethodPost, "/cart/stock", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Items []stock.ReportLine `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(payload.Items) != 2 {
		t.Fatalf("expected 2 report lines got %d", len(payload.Items))
	}
	if payload.Items[0].Message != "재고 부족 (현재 1개)" {
		t.Fatalf("unexpected shortage message %q", payload.Items[0].Message)
	}
	if payload.Items[1].Message != "품절된 상품입니다." {
		t.Fatalf("unexpected sold-out message %q", payload.Items[1].Message)
	}
}

func TestCartSummaryFormatsAmounts(t *testing.T) {
	svc := &stubCartService{summary: pricing.Summary{
		ProductAmount:  59000,
		DiscountAmount: 2000,
		ShippingFee:    3000,
		FinalAmount:    60000,
		TotalQuantity:  3,
	}}
	handler := CartSummary(svc, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/cart/summary?bonusPoints=1000", nil), 7)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data SummaryView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if envelope.Data.FinalAmount != 60000 {
		t.Fatalf("unexpected final amount %d", envelope.Data.FinalAmount)
	}
	if envelope.Data.Formatted != "60,000" {
		t.Fatalf("unexpected formatted amount %q", envelope.Data.Formatted)
	}
}

func TestCartDeleteCountsRemovedLines(t *testing.T) {
	svc := &stubCartService{}
	handler := CartDelete(svc, nil)

	body := `{"items":[{"productId":1,"size":270},{"productId":2,"size":0}]}`
	req := withUser(httptest.NewRequest(http.MethodDelete, "/cart/delete", bytes.NewReader([]byte(body))), 7)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Deleted int `json:"deleted"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Deleted != 2 {
		t.Fatalf("expected 2 deleted got %d", envelope.Data.Deleted)
	}
}
