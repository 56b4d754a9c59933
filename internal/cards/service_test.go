package cards

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jyl33/cardscanner-backend/internal/psa"
	"github.com/jyl33/cardscanner-backend/pkg/db/models"
	"github.com/jyl33/cardscanner-backend/pkg/enums"
	pkgerrors "github.com/jyl33/cardscanner-backend/pkg/errors"
	"github.com/jyl33/cardscanner-backend/pkg/types"
)

type stubRepo struct {
	cards     []models.Card
	created   []*models.Card
	createErr error
	listErr   error
}

func (s *stubRepo) ListAll(ctx context.Context) ([]models.Card, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.cards, nil
}

func (s *stubRepo) ListByStatus(ctx context.Context, status enums.CardStatus) ([]models.Card, error) {
	var out []models.Card
	for _, card := range s.cards {
		if card.Status == status {
			out = append(out, card)
		}
	}
	return out, nil
}

func (s *stubRepo) GetByCertNumber(ctx context.Context, cert string) (*models.Card, error) {
	for i := range s.cards {
		if s.cards[i].CertNumber == cert {
			return &s.cards[i], nil
		}
	}
	return nil, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	for i := range s.cards {
		if s.cards[i].ID == id {
			return &s.cards[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) Create(ctx context.Context, card *models.Card) (*models.Card, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, card)
	return card, nil
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CardStatus) error {
	for i := range s.cards {
		if s.cards[i].ID == id {
			s.cards[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubRepo) DeleteByCertNumber(ctx context.Context, cert string) error {
	for i := range s.cards {
		if s.cards[i].CertNumber == cert {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubResolver struct {
	cert   *psa.Certification
	err    error
	called int
}

func (s *stubResolver) FetchCertification(ctx context.Context, raw string) (*psa.Certification, error) {
	s.called++
	return s.cert, s.err
}

func newTestService(t *testing.T, repo *stubRepo, resolver *stubResolver) Service {
	t.Helper()
	svc, err := NewService(repo, resolver)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestIngestRejectsNonNumericCost(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo, &stubResolver{})

	_, err := svc.Ingest(context.Background(), IngestInput{
		Cert: psa.Certification{CertNumber: "49392223"},
		Cost: "abc",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("validation failure must not write")
	}
}

func TestIngestCreatesInStockCard(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo, &stubResolver{})

	card, err := svc.Ingest(context.Background(), IngestInput{
		Cert: psa.Certification{
			CertNumber: "49392223",
			Year:       "2020",
			Brand:      "Topps",
			Subject:    "Juan Soto",
			CardGrade:  "GEM MT 10",
		},
		Cost:  "12.50",
		Value: "80",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Status != enums.CardStatusInStock {
		t.Fatalf("new cards must be In Stock, got %q", card.Status)
	}
	if !card.Cost.Valid() || card.Cost.Decimal().String() != "12.5" {
		t.Fatalf("cost not normalized: %v", card.Cost)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one write, got %d", len(repo.created))
	}
}

func TestIngestDuplicateCertConflicts(t *testing.T) {
	repo := &stubRepo{createErr: errors.New(`duplicate key value violates unique constraint "uq_cards_cert_number"`)}
	svc := newTestService(t, repo, &stubResolver{})

	_, err := svc.Ingest(context.Background(), IngestInput{
		Cert: psa.Certification{CertNumber: "49392223"},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestListAppliesFiltersAndCountsDimensions(t *testing.T) {
	repo := &stubRepo{cards: []models.Card{
		{Year: "2020", Brand: "Topps", Subject: "X", Grade: "9", Value: types.MoneyFromString("50"), Status: enums.CardStatusInStock},
		{Year: "2021", Brand: "Panini", Subject: "Y", Grade: "10", Value: types.MoneyFromString("200"), Status: enums.CardStatusSold},
	}}
	svc := newTestService(t, repo, &stubResolver{})

	result, err := svc.List(context.Background(), ListInput{Statuses: []string{"In Stock"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || result.Cards[0].Brand != "Topps" {
		t.Fatalf("expected only the In Stock card, got %+v", result.Cards)
	}
	if result.ActiveFilters != 1 {
		t.Fatalf("expected one active dimension, got %d", result.ActiveFilters)
	}
	if len(result.Options.Statuses) != 2 {
		t.Fatalf("options must derive from the unfiltered collection: %v", result.Options.Statuses)
	}
}

func TestGetByCertNumberNotFound(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubResolver{})

	_, err := svc.GetByCertNumber(context.Background(), "404404")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubResolver{})

	err := svc.UpdateStatus(context.Background(), uuid.New(), enums.CardStatus("Lost"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLookupPassesThroughNoMatch(t *testing.T) {
	resolver := &stubResolver{}
	svc := newTestService(t, &stubRepo{}, resolver)

	cert, err := svc.Lookup(context.Background(), "49392223")
	if err != nil || cert != nil {
		t.Fatalf("no match must resolve to nil, nil; got %v %v", cert, err)
	}
	if resolver.called != 1 {
		t.Fatalf("expected one resolver call, got %d", resolver.called)
	}
}
