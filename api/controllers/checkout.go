package controllers

import (
	"net/http"

	"github.com/modamarket/backend/api/middleware"
	"github.com/modamarket/backend/api/responses"
	"github.com/modamarket/backend/api/validators"
	cartsvc "github.com/modamarket/backend/internal/cart"
	"github.com/modamarket/backend/internal/checkout"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
	"github.com/modamarket/backend/pkg/logger"
)

// PrepareOrderItem is one submitted order line. The field set mirrors
// the cart page's line model; quantity and prices are re-read from the
// server cart, only the (productId, size) key selects lines.
type PrepareOrderItem struct {
	ProductID        int64 `json:"productId" validate:"required,gt=0"`
	Size             int   `json:"size" validate:"gte=0"`
	Quantity         int   `json:"quantity" validate:"omitempty,gte=1"`
	UnitPrice        int   `json:"unitPrice" validate:"gte=0"`
	StockAtSelection *int  `json:"stockAtSelection"`
}

// PrepareOrderRequest is the order button payload. The item array
// rides in a field named productId, a historical quirk the pages
// still send. Omitting the array orders the whole cart.
type PrepareOrderRequest struct {
	Items           []PrepareOrderItem `json:"productId" validate:"omitempty,dive"`
	BonusPointsUsed int                `json:"bonusPointsUsed" validate:"gte=0"`
}

// OrderPrepare runs a checkout attempt over the shopper's cart. The
// outcome maps onto the page contract: 303 with a Location for a
// prepared order, 409 with the line report on stock conflicts, and
// 400 with the shopper-facing message otherwise.
func OrderPrepare(svc cartsvc.Service, orch *checkout.Orchestrator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || orch == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		var body PrepareOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		rows, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store := cartsvc.NewLineItemStore()
		for _, row := range rows {
			store.Upsert(cartsvc.LineItem{
				ProductID:   row.ProductID,
				ProductName: row.Product.Name,
				Size:        row.Size,
				Quantity:    row.Quantity,
				UnitPrice:   row.UnitPrice,
				Discount:    row.Discount,
			})
		}
		lines := store.List()

		var collector checkout.Collector = checkout.AllCollector{}
		if body.Items != nil {
			keys := make([]cartsvc.LineKey, 0, len(body.Items))
			for _, item := range body.Items {
				keys = append(keys, cartsvc.LineKey{ProductID: item.ProductID, Size: item.Size})
			}
			collector = checkout.SelectedCollector{Keys: keys}
		}

		result := orch.Run(r.Context(), userID, lines, collector, body.BonusPointsUsed)
		switch result.State {
		case checkout.StateRedirected:
			w.Header().Set("Location", result.RedirectURL)
			responses.WriteRaw(w, http.StatusSeeOther, map[string]any{"redirectUrl": result.RedirectURL})
		case checkout.StateReportingConflicts:
			responses.WriteRaw(w, http.StatusConflict, map[string]any{"items": result.Report})
		default:
			responses.WriteRaw(w, http.StatusBadRequest, map[string]any{"message": result.Message})
		}
	}
}
