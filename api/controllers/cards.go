package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jyl33/cardscanner-backend/api/responses"
	"github.com/jyl33/cardscanner-backend/api/validators"
	"github.com/jyl33/cardscanner-backend/internal/cards"
	"github.com/jyl33/cardscanner-backend/internal/psa"
	"github.com/jyl33/cardscanner-backend/pkg/enums"
	pkgerrors "github.com/jyl33/cardscanner-backend/pkg/errors"
	"github.com/jyl33/cardscanner-backend/pkg/logger"
)

type ingestCardRequest struct {
	Cert  psa.Certification `json:"cert" validate:"required"`
	Cost  string            `json:"cost"`
	Value string            `json:"value"`
}

type updateCardStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListCards returns the filtered collection with derived filter options.
func ListCards(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "card service unavailable"))
			return
		}
		query := r.URL.Query()
		input := cards.ListInput{
			Query:    validators.SanitizeString(query.Get("q"), 200),
			Grades:   splitParam(query.Get("grades")),
			Statuses: splitParam(query.Get("statuses")),
			MinPrice: strings.TrimSpace(query.Get("min_price")),
			MaxPrice: strings.TrimSpace(query.Get("max_price")),
			MinYear:  strings.TrimSpace(query.Get("min_year")),
			MaxYear:  strings.TrimSpace(query.Get("max_year")),
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CardFilterOptions returns the selectable filter values for the collection.
func CardFilterOptions(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "card service unavailable"))
			return
		}
		options, err := svc.FilterOptions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, options)
	}
}

// GetCard resolves one card by certification number.
func GetCard(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "card service unavailable"))
			return
		}
		certNumber := chi.URLParam(r, "certNumber")
		card, err := svc.GetByCertNumber(r.Context(), certNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, card)
	}
}

// IngestCard stores a scanned certification with its entered cost.
func IngestCard(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "card service unavailable"))
			return
		}
		var req ingestCardRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.Ingest(r.Context(), cards.IngestInput{
			Cert:  req.Cert,
			Cost:  req.Cost,
			Value: req.Value,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, card)
	}
}

// UpdateCardStatus transitions a card's sales status.
func UpdateCardStatus(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "card service unavailable"))
			return
		}
		cardID, err := uuid.Parse(chi.URLParam(r, "cardId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid card id"))
			return
		}

		var req updateCardStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseCardStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown card status"))
			return
		}

		if err := svc.UpdateStatus(r.Context(), cardID, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(status)})
	}
}

// DeleteCard removes a card from inventory.
func DeleteCard(svc cards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "card service unavailable"))
			return
		}
		certNumber := chi.URLParam(r, "certNumber")
		if err := svc.Delete(r.Context(), certNumber); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"deleted": certNumber})
	}
}

func splitParam(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
