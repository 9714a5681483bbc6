package controllers

import (
	"net/http"

	"github.com/modamarket/backend/api/middleware"
	"github.com/modamarket/backend/api/responses"
	"github.com/modamarket/backend/api/validators"
	cartsvc "github.com/modamarket/backend/internal/cart"
	"github.com/modamarket/backend/internal/pricing"
	productsvc "github.com/modamarket/backend/internal/products"
	"github.com/modamarket/backend/internal/stock"
	"github.com/modamarket/backend/pkg/db/models"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
	"github.com/modamarket/backend/pkg/logger"
)

// CartLineView is one cart row as the cart page renders it.
type CartLineView struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Size        int    `json:"size"`
	Quantity    int    `json:"productQuantity"`
	UnitPrice   int    `json:"unitPrice"`
	Discount    int    `json:"discount"`
	LineTotal   int    `json:"lineTotal"`
}

// SummaryView mirrors the order summary box amounts.
type SummaryView struct {
	ProductAmount  int    `json:"productAmount"`
	DiscountAmount int    `json:"discountAmount"`
	ShippingFee    int    `json:"shippingFee"`
	FinalAmount    int    `json:"finalAmount"`
	TotalQuantity  int    `json:"totalQuantity"`
	Formatted      string `json:"formattedFinalAmount"`
}

// CartAdd accepts the legacy array payload and inserts new cart lines.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		items, err := validators.DecodeJSONArray[cartsvc.AddItemInput](r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if err := svc.AddItems(r.Context(), userID, items); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"added": len(items)})
	}
}

// CartFetch returns the shopper's cart lines in insertion order.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		rows, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": toCartLineViews(rows)})
	}
}

// CartOptionSizes serves the size list behind the option-edit modal.
// The payload is the raw array the modal script consumes.
func CartOptionSizes(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.RequireQueryInt64(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		options, err := svc.SizeOptions(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteRaw(w, http.StatusOK, options)
	}
}

// CartUpdateOption applies an option-modal change to one cart line.
func CartUpdateOption(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var change cartsvc.OptionChange
		if err := validators.DecodeJSONBody(r, &change); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if err := svc.UpdateOption(r.Context(), userID, change); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"updated": true})
	}
}

// CartStockCheck validates the submitted lines against current stock.
// Fulfillable requests answer 200; any conflict answers 409 with the
// legacy {items: [...]} report the cart page renders line by line.
func CartStockCheck(reconciler *stock.Reconciler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reconciler == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock reconciler unavailable"))
			return
		}

		lines, err := validators.DecodeJSONArray[stock.CheckLine](r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		issues, err := reconciler.Check(r.Context(), lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(issues) > 0 {
			report := reconciler.BuildReport(r.Context(), lines, issues)
			responses.WriteRaw(w, http.StatusConflict, map[string]any{"items": report})
			return
		}

		responses.WriteSuccess(w, map[string]any{"ok": true})
	}
}

// DeleteCartRequest wraps the line keys under an items field, the
// shape the cart page posts.
type DeleteCartRequest struct {
	Items []cartsvc.LineKey `json:"items" validate:"required,min=1,dive"`
}

// CartDelete removes the identified cart lines.
func CartDelete(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var body DeleteCartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		deleted, err := svc.Delete(r.Context(), userID, body.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deleted": deleted})
	}
}

// CartSummary computes the order summary amounts for the cart page.
func CartSummary(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		bonusPoints, err := validators.ParseQueryInt(r, "bonusPoints", 0, 0, 10_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		summary, err := svc.Summary(r.Context(), userID, bonusPoints)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toSummaryView(summary))
	}
}

func toCartLineViews(rows []models.CartItem) []CartLineView {
	views := make([]CartLineView, 0, len(rows))
	for _, row := range rows {
		views = append(views, CartLineView{
			ProductID:   row.ProductID,
			ProductName: row.Product.Name,
			Size:        row.Size,
			Quantity:    row.Quantity,
			UnitPrice:   row.UnitPrice,
			Discount:    row.Discount,
			LineTotal:   row.UnitPrice * row.Quantity,
		})
	}
	return views
}

func toSummaryView(summary pricing.Summary) SummaryView {
	return SummaryView{
		ProductAmount:  summary.ProductAmount,
		DiscountAmount: summary.DiscountAmount,
		ShippingFee:    summary.ShippingFee,
		FinalAmount:    summary.FinalAmount,
		TotalQuantity:  summary.TotalQuantity,
		Formatted:      pricing.Format(summary.FinalAmount),
	}
}
