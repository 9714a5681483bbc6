package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/modamarket/backend/api/middleware"
	"github.com/modamarket/backend/api/responses"
	"github.com/modamarket/backend/api/validators"
	cartsvc "github.com/modamarket/backend/internal/cart"
	preloginsvc "github.com/modamarket/backend/internal/prelogin"
	"github.com/modamarket/backend/pkg/enums"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
	"github.com/modamarket/backend/pkg/logger"
)

const loginPagePath = "/login"

// PreloginStoreRequest is the stash payload posted when an anonymous
// shopper triggers a members-only action.
type PreloginStoreRequest struct {
	Type    string          `json:"type" validate:"required"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// PreloginStore stashes the attempted action and points the visitor at
// the login page.
func PreloginStore(svc preloginsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prelogin service unavailable"))
			return
		}

		var body PreloginStoreRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actionType, err := enums.ParsePreloginActionType(body.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown pre-login action type"))
			return
		}

		stashID, err := svc.Stash(r.Context(), preloginsvc.Action{Type: actionType, Payload: body.Payload})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Location", loginPagePath)
		responses.WriteRaw(w, http.StatusSeeOther, map[string]any{
			"stashId":     stashID,
			"redirectUrl": loginPagePath,
		})
	}
}

// PreloginResumeRequest identifies the stash to replay after login.
type PreloginResumeRequest struct {
	StashID string `json:"stashId" validate:"required"`
}

// PreloginResume replays the stashed action for the now-authenticated
// shopper. Cart adds are applied server side; buy-now payloads are
// returned for the client to continue with.
func PreloginResume(svc preloginsvc.Service, cartService cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prelogin service unavailable"))
			return
		}

		var body PreloginResumeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action, err := svc.Pop(r.Context(), body.StashID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if action.Type == enums.PreloginActionAddToCart && cartService != nil {
			var items []cartsvc.AddItemInput
			if err := json.Unmarshal(action.Payload, &items); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stashed payload"))
				return
			}
			userID := middleware.UserIDFromContext(r.Context())
			if err := cartService.AddItems(r.Context(), userID, items); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, map[string]any{
			"type":    action.Type,
			"payload": action.Payload,
		})
	}
}
