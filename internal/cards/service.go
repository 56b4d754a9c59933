package cards

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jyl33/cardscanner-backend/internal/psa"
	"github.com/jyl33/cardscanner-backend/pkg/db/models"
	"github.com/jyl33/cardscanner-backend/pkg/enums"
	pkgerrors "github.com/jyl33/cardscanner-backend/pkg/errors"
	"github.com/jyl33/cardscanner-backend/pkg/types"
)

// Service exposes inventory management over scanned cards.
type Service interface {
	Ingest(ctx context.Context, input IngestInput) (*models.Card, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	FilterOptions(ctx context.Context) (FilterOptions, error)
	GetByCertNumber(ctx context.Context, certNumber string) (*models.Card, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CardStatus) error
	Delete(ctx context.Context, certNumber string) error
	Lookup(ctx context.Context, rawScanPayload string) (*psa.Certification, error)
}

type certResolver interface {
	FetchCertification(ctx context.Context, raw string) (*psa.Certification, error)
}

type service struct {
	repo   CardRepository
	lookup certResolver
}

// NewService constructs the card inventory service.
func NewService(repo CardRepository, lookup certResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("card repository required")
	}
	if lookup == nil {
		return nil, fmt.Errorf("certification resolver required")
	}
	return &service{repo: repo, lookup: lookup}, nil
}

// Ingest validates the entered cost, normalizes the certification payload
// and stores the card as In Stock. A non-numeric cost blocks the write.
func (s *service) Ingest(ctx context.Context, input IngestInput) (*models.Card, error) {
	if strings.TrimSpace(input.Cert.CertNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "certification number is required")
	}

	cost := types.MoneyFromString(input.Cost)
	if strings.TrimSpace(input.Cost) != "" && !cost.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost must be numeric").
			WithDetails(map[string]any{"field": "cost"})
	}
	value := types.MoneyFromString(input.Value)
	if strings.TrimSpace(input.Value) != "" && !value.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "value must be numeric").
			WithDetails(map[string]any{"field": "value"})
	}

	card := psa.Normalize(&input.Cert)
	card.Cost = cost
	card.Value = value

	created, err := s.repo.Create(ctx, card)
	if err != nil {
		if isDuplicateCert(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "card already in inventory").
				WithDetails(map[string]any{"cert_number": card.CertNumber})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating card")
	}
	return created, nil
}

// List loads the collection, derives the selectable options and applies the
// requested filters.
func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	cards, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading collection")
	}

	options := DeriveFilterOptions(cards)
	state := FilterState{
		Query:    input.Query,
		Grades:   toSet(input.Grades),
		Statuses: toSet(input.Statuses),
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		MinYear:  input.MinYear,
		MaxYear:  input.MaxYear,
	}
	state.Seed(options)

	filtered := ApplyFilters(cards, state)
	return &ListResult{
		Cards:         filtered,
		Total:         len(filtered),
		ActiveFilters: state.ActiveCount(options),
		Options:       options,
	}, nil
}

// FilterOptions derives the selectable filter values for the collection.
func (s *service) FilterOptions(ctx context.Context) (FilterOptions, error) {
	cards, err := s.repo.ListAll(ctx)
	if err != nil {
		return FilterOptions{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading collection")
	}
	return DeriveFilterOptions(cards), nil
}

// GetByCertNumber resolves a card from inventory.
func (s *service) GetByCertNumber(ctx context.Context, certNumber string) (*models.Card, error) {
	card, err := s.repo.GetByCertNumber(ctx, certNumber)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading card")
	}
	if card == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "card not found").
			WithDetails(map[string]any{"cert_number": certNumber})
	}
	return card, nil
}

// UpdateStatus transitions the card's sales status.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CardStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown card status").
			WithDetails(map[string]any{"status": string(status)})
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if isNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "card not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating card status")
	}
	return nil
}

// Delete removes the card with the given certification number.
func (s *service) Delete(ctx context.Context, certNumber string) error {
	if err := s.repo.DeleteByCertNumber(ctx, certNumber); err != nil {
		if isNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "card not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting card")
	}
	return nil
}

// Lookup resolves a raw barcode payload against the certification service.
// A nil result means no match; transport failures have already been logged
// by the resolver and surface the same way.
func (s *service) Lookup(ctx context.Context, rawScanPayload string) (*psa.Certification, error) {
	return s.lookup.FetchCertification(ctx, rawScanPayload)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		set[trimmed] = struct{}{}
	}
	return set
}
