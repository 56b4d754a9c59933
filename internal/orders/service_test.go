package orders

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jyl33/cardscanner-backend/pkg/db/models"
	"github.com/jyl33/cardscanner-backend/pkg/enums"
	pkgerrors "github.com/jyl33/cardscanner-backend/pkg/errors"
	"github.com/jyl33/cardscanner-backend/pkg/logger"
	"github.com/jyl33/cardscanner-backend/pkg/pagination"
)

type stubOrderRepo struct {
	orders        []*models.Order
	items         []*models.OrderItem
	createErr     error
	failItemCards map[uuid.UUID]error
	statuses      map[uuid.UUID]enums.OrderStatus
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		failItemCards: make(map[uuid.UUID]error),
		statuses:      make(map[uuid.UUID]enums.OrderStatus),
	}
}

func (s *stubOrderRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *stubOrderRepo) CreateOrderItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if err, ok := s.failItemCards[item.CardID]; ok {
		return nil, err
	}
	item.ID = uuid.New()
	s.items = append(s.items, item)
	return item, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	s.statuses[id] = status
	return nil
}

func (s *stubOrderRepo) List(ctx context.Context, params listOrdersParams) ([]models.Order, *pagination.Cursor, error) {
	var out []models.Order
	for _, order := range s.orders {
		out = append(out, *order)
	}
	return out, nil, nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	for _, order := range s.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, nil
}

type stubCardStore struct {
	cards     map[uuid.UUID]*models.Card
	sold      []uuid.UUID
	statusErr map[uuid.UUID]error
}

func newStubCardStore(cards ...*models.Card) *stubCardStore {
	store := &stubCardStore{
		cards:     make(map[uuid.UUID]*models.Card),
		statusErr: make(map[uuid.UUID]error),
	}
	for _, card := range cards {
		store.cards[card.ID] = card
	}
	return store
}

func (s *stubCardStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	card, ok := s.cards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return card, nil
}

func (s *stubCardStore) GetByCertNumber(ctx context.Context, cert string) (*models.Card, error) {
	for _, card := range s.cards {
		if card.CertNumber == cert {
			return card, nil
		}
	}
	return nil, nil
}

func (s *stubCardStore) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CardStatus) error {
	if err, ok := s.statusErr[id]; ok {
		return err
	}
	s.sold = append(s.sold, id)
	if card, ok := s.cards[id]; ok {
		card.Status = status
	}
	return nil
}

type stubBuyers struct {
	buyer *models.Buyer
}

func (s *stubBuyers) FindByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error) {
	if s.buyer == nil || s.buyer.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.buyer, nil
}

type fixture struct {
	svc      Service
	repo     *stubOrderRepo
	cards    *stubCardStore
	sessions *SessionStore
	cache    *memoryCache
	buyer    *models.Buyer
}

func newFixture(t *testing.T, cards *stubCardStore) *fixture {
	t.Helper()
	cache := newMemoryCache()
	sessions, err := NewSessionStore(cache, time.Hour)
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	repo := newStubOrderRepo()
	buyer := &models.Buyer{ID: uuid.New(), Name: "Jordan"}
	logg := logger.New(logger.Options{ServiceName: "orders-test", Level: zerolog.ErrorLevel, Output: io.Discard})

	svc, err := NewService(repo, cards, &stubBuyers{buyer: buyer}, sessions, logg, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, repo: repo, cards: cards, sessions: sessions, cache: cache, buyer: buyer}
}

func (f *fixture) startWithCards(t *testing.T, cards ...*models.Card) *Session {
	t.Helper()
	session, err := f.sessions.Create(context.Background(), f.buyer.ID, f.buyer.Name)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	for _, card := range cards {
		if err := session.Add(*card); err != nil {
			t.Fatalf("add card: %v", err)
		}
	}
	if err := f.sessions.Save(context.Background(), session); err != nil {
		t.Fatalf("save session: %v", err)
	}
	return session
}

func TestSubmitEmptySelectionRejected(t *testing.T) {
	f := newFixture(t, newStubCardStore())
	session := f.startWithCards(t)

	_, err := f.svc.Submit(context.Background(), session.ID, SubmitInput{TotalPaid: "100"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.repo.orders) != 0 || len(f.repo.items) != 0 {
		t.Fatalf("empty submission must not write anything")
	}
	if _, err := f.sessions.Get(context.Background(), session.ID); err != nil {
		t.Fatalf("session must survive a rejected submission, got %v", err)
	}
}

func TestSubmitAllLinesSucceed(t *testing.T) {
	cardA := inStockCard("50", "20")
	cardB := inStockCard("150", "60")
	f := newFixture(t, newStubCardStore(&cardA, &cardB))
	session := f.startWithCards(t, &cardA, &cardB)

	result, err := f.svc.Submit(context.Background(), session.ID, SubmitInput{TotalPaid: "200"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeSuccess || result.Succeeded != 2 || result.Failed != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Order.Status != enums.OrderStatusComplete {
		t.Fatalf("fully-lined order must stay complete, got %s", result.Order.Status)
	}
	if result.Order.Quantity != 2 {
		t.Fatalf("header quantity must match selection size, got %d", result.Order.Quantity)
	}
	if len(f.cards.sold) != 2 {
		t.Fatalf("all lined cards must be marked sold, got %v", f.cards.sold)
	}
	if _, err := f.sessions.Get(context.Background(), session.ID); pkgerrors.As(err) == nil {
		t.Fatalf("session must be deleted on a terminal outcome")
	}
}

func TestSubmitPartialFailureKeepsHeaderQuantity(t *testing.T) {
	cardA := inStockCard("50", "20")
	cardB := inStockCard("150", "60")
	cardC := inStockCard("75", "25")
	f := newFixture(t, newStubCardStore(&cardA, &cardB, &cardC))
	f.repo.failItemCards[cardB.ID] = errors.New("insert failed")
	session := f.startWithCards(t, &cardA, &cardB, &cardC)

	result, err := f.svc.Submit(context.Background(), session.ID, SubmitInput{TotalPaid: "250"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomePartialFailure {
		t.Fatalf("expected partial failure, got %s", result.Outcome)
	}
	if result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("expected 2 succeeded / 1 failed, got %d/%d", result.Succeeded, result.Failed)
	}
	if result.Order.Quantity != 3 {
		t.Fatalf("header keeps the original selection count, got %d", result.Order.Quantity)
	}
	if f.repo.statuses[result.Order.ID] != enums.OrderStatusIncomplete {
		t.Fatalf("short order must be marked incomplete")
	}
	if result.Err == nil {
		t.Fatalf("line failures must be aggregated into the result")
	}
	for _, soldID := range f.cards.sold {
		if soldID == cardB.ID {
			t.Fatalf("a failed line must not mark its card sold")
		}
	}
	if len(f.cards.sold) != 2 {
		t.Fatalf("expected 2 cards marked sold, got %d", len(f.cards.sold))
	}
	if _, err := f.sessions.Get(context.Background(), session.ID); pkgerrors.As(err) == nil {
		t.Fatalf("session must be deleted on a terminal outcome")
	}
}

func TestSubmitHeaderFailureWritesNoLines(t *testing.T) {
	card := inStockCard("50", "20")
	f := newFixture(t, newStubCardStore(&card))
	f.repo.createErr = errors.New("header insert failed")
	session := f.startWithCards(t, &card)

	_, err := f.svc.Submit(context.Background(), session.ID, SubmitInput{TotalPaid: "50"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(f.repo.items) != 0 {
		t.Fatalf("no lines may be written when the header fails")
	}
	if len(f.cards.sold) != 0 {
		t.Fatalf("no cards may be marked sold when the header fails")
	}
}

func TestSubmitAggregatesStatusUpdateFailures(t *testing.T) {
	card := inStockCard("50", "20")
	f := newFixture(t, newStubCardStore(&card))
	f.cards.statusErr[card.ID] = errors.New("status update failed")
	session := f.startWithCards(t, &card)

	result, err := f.svc.Submit(context.Background(), session.ID, SubmitInput{TotalPaid: "50"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeSuccess || result.Succeeded != 1 {
		t.Fatalf("status failures do not change line accounting: %+v", result)
	}
	if result.Err == nil {
		t.Fatalf("status-update failures must surface in the aggregated error")
	}
}

func TestSubmitRejectsNonNumericPaidTotal(t *testing.T) {
	card := inStockCard("50", "20")
	f := newFixture(t, newStubCardStore(&card))
	session := f.startWithCards(t, &card)

	_, err := f.svc.Submit(context.Background(), session.ID, SubmitInput{TotalPaid: "fifty"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.repo.orders) != 0 {
		t.Fatalf("validation failure must block the header write")
	}
}

func TestAddCardRejectsSoldCard(t *testing.T) {
	card := inStockCard("50", "20")
	card.Status = enums.CardStatusSold
	f := newFixture(t, newStubCardStore(&card))
	session := f.startWithCards(t)

	_, err := f.svc.AddCard(context.Background(), session.ID, AddCardInput{CardID: card.ID.String()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	view, err := f.svc.GetSession(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if len(view.Cards) != 0 {
		t.Fatalf("rejected add must leave the selection unchanged")
	}
}

func TestAddCardByCertNumber(t *testing.T) {
	card := inStockCard("50", "20")
	card.CertNumber = "49392223"
	f := newFixture(t, newStubCardStore(&card))
	session := f.startWithCards(t)

	view, err := f.svc.AddCard(context.Background(), session.ID, AddCardInput{CertNumber: "49392223"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Cards) != 1 || view.Cards[0].CertNumber != "49392223" {
		t.Fatalf("card not added: %+v", view.Cards)
	}
	if view.Totals.EstimatedValue.String() != "50" {
		t.Fatalf("expected running value 50, got %s", view.Totals.EstimatedValue)
	}
}

func TestStartSessionRequiresKnownBuyer(t *testing.T) {
	f := newFixture(t, newStubCardStore())

	_, err := f.svc.StartSession(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown buyer, got %v", err)
	}

	view, err := f.svc.StartSession(context.Background(), f.buyer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Session.BuyerName != "Jordan" {
		t.Fatalf("buyer name snapshot missing: %+v", view.Session)
	}
}
