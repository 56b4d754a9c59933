package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jyl33/cardscanner-backend/api/responses"
	"github.com/jyl33/cardscanner-backend/api/validators"
	"github.com/jyl33/cardscanner-backend/internal/buyers"
	pkgerrors "github.com/jyl33/cardscanner-backend/pkg/errors"
	"github.com/jyl33/cardscanner-backend/pkg/logger"
)

type createBuyerRequest struct {
	Name           string  `json:"name" validate:"required"`
	PrimaryContact string  `json:"primary_contact"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
}

// ListBuyers returns the buyer directory ordered by name.
func ListBuyers(svc buyers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "buyer service unavailable"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetBuyer resolves one buyer by id.
func GetBuyer(svc buyers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "buyer service unavailable"))
			return
		}
		buyerID, err := uuid.Parse(chi.URLParam(r, "buyerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid buyer id"))
			return
		}
		buyer, err := svc.Get(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buyer)
	}
}

// CreateBuyer registers a new buyer.
func CreateBuyer(svc buyers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "buyer service unavailable"))
			return
		}
		var req createBuyerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		buyer, err := svc.Create(r.Context(), buyers.CreateInput{
			Name:           req.Name,
			PrimaryContact: req.PrimaryContact,
			Email:          req.Email,
			Phone:          req.Phone,
			Address:        req.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, buyer)
	}
}
