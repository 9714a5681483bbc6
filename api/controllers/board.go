package controllers

import (
	"net/http"

	"github.com/modamarket/backend/api/responses"
	boardsvc "github.com/modamarket/backend/internal/board"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
	"github.com/modamarket/backend/pkg/logger"
)

// FAQList serves the board page: category tab plus optional keyword.
func FAQList(svc boardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "board service unavailable"))
			return
		}

		entries, err := svc.List(r.Context(), r.URL.Query().Get("category"), r.URL.Query().Get("q"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": entries})
	}
}
