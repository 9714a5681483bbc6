package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/modamarket/backend/api/middleware"
	"github.com/modamarket/backend/api/responses"
	ordersvc "github.com/modamarket/backend/internal/orders"
	"github.com/modamarket/backend/pkg/db/models"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
	"github.com/modamarket/backend/pkg/logger"
)

// OrderItemView is one snapshot line on the order sheet.
type OrderItemView struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"productName"`
	Size      int    `json:"size"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unitPrice"`
}

// OrderView is the order sheet payload.
type OrderView struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	ItemsSubtotal int             `json:"itemsSubtotal"`
	ShippingFee   int             `json:"shippingFee"`
	UsedPoints    int             `json:"usedPoints"`
	AmountDue     int             `json:"amountDue"`
	Items         []OrderItemView `json:"items"`
}

// OrderDetail loads one prepared order for the order sheet page.
func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		order, err := svc.Get(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toOrderView(order))
	}
}

func toOrderView(order *models.Order) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return OrderView{
		ID:            order.ID.String(),
		Status:        order.Status.String(),
		ItemsSubtotal: order.ItemsSubtotal,
		ShippingFee:   order.ShippingFee,
		UsedPoints:    order.UsedPoints,
		AmountDue:     order.AmountDue,
		Items:         items,
	}
}
