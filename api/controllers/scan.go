package controllers

import (
	"net/http"

	"github.com/jyl33/cardscanner-backend/api/responses"
	"github.com/jyl33/cardscanner-backend/api/validators"
	"github.com/jyl33/cardscanner-backend/internal/cards"
	pkgerrors "github.com/jyl33/cardscanner-backend/pkg/errors"
	"github.com/jyl33/cardscanner-backend/pkg/logger"
)

type scanRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// Scan resolves a raw barcode payload against the certification service.
func Scan(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "card service unavailable"))
			return
		}
		var req scanRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cert, err := svc.Lookup(r.Context(), req.Payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if cert == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no certification matched the scan"))
			return
		}
		responses.WriteSuccess(w, cert)
	}
}
