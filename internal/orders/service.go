package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/jyl33/cardscanner-backend/pkg/db/models"
	"github.com/jyl33/cardscanner-backend/pkg/enums"
	pkgerrors "github.com/jyl33/cardscanner-backend/pkg/errors"
	"github.com/jyl33/cardscanner-backend/pkg/logger"
	"github.com/jyl33/cardscanner-backend/pkg/metrics"
	"github.com/jyl33/cardscanner-backend/pkg/pagination"
	"github.com/jyl33/cardscanner-backend/pkg/types"
)

// Service manages the lifecycle of an order from selection to submission.
type Service interface {
	StartSession(ctx context.Context, buyerID uuid.UUID) (*SessionView, error)
	GetSession(ctx context.Context, sessionID string) (*SessionView, error)
	AddCard(ctx context.Context, sessionID string, input AddCardInput) (*SessionView, error)
	RemoveCard(ctx context.Context, sessionID, cardID string) (*SessionView, error)
	Submit(ctx context.Context, sessionID string, input SubmitInput) (*SubmitResult, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Detail(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

type cardStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error)
	GetByCertNumber(ctx context.Context, certNumber string) (*models.Card, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CardStatus) error
}

type buyerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error)
}

type service struct {
	repo     OrderRepository
	cards    cardStore
	buyers   buyerFinder
	sessions *SessionStore
	logg     *logger.Logger
	metrics  *metrics.APIMetrics
}

// NewService constructs the order service.
func NewService(repo OrderRepository, cards cardStore, buyers buyerFinder, sessions *SessionStore, logg *logger.Logger, apiMetrics *metrics.APIMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if cards == nil {
		return nil, fmt.Errorf("card store required")
	}
	if buyers == nil {
		return nil, fmt.Errorf("buyer directory required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		cards:    cards,
		buyers:   buyers,
		sessions: sessions,
		logg:     logg,
		metrics:  apiMetrics,
	}, nil
}

// StartSession opens a new selection for the buyer.
func (s *service) StartSession(ctx context.Context, buyerID uuid.UUID) (*SessionView, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer is required")
	}
	buyer, err := s.buyers.FindByID(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "buyer not found")
	}

	session, err := s.sessions.Create(ctx, buyer.ID, buyer.Name)
	if err != nil {
		return nil, err
	}
	return viewOf(session), nil
}

// GetSession loads the session with its running totals.
func (s *service) GetSession(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return viewOf(session), nil
}

// AddCard resolves a card by ID or certification number and inserts it into
// the selection. Cards not In Stock are rejected without changing the
// session.
func (s *service) AddCard(ctx context.Context, sessionID string, input AddCardInput) (*SessionView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	card, err := s.resolveCard(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := session.Add(*card); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return viewOf(session), nil
}

// RemoveCard deletes the card from the selection.
func (s *service) RemoveCard(ctx context.Context, sessionID, cardID string) (*SessionView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Remove(cardID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "card not in current order").
			WithDetails(map[string]any{"card_id": cardID})
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return viewOf(session), nil
}

// Submit runs the sequenced submission workflow: create the order header,
// create one line per selected card, then mark the lined cards sold. Every
// failure past the header is aggregated into the result instead of aborting
// the rest of the batch; there is no retry and no rollback.
func (s *service) Submit(ctx context.Context, sessionID string, input SubmitInput) (*SubmitResult, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Size() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no items in current order")
	}

	totalPaid := types.MoneyFromString(input.TotalPaid)
	if strings.TrimSpace(input.TotalPaid) != "" && !totalPaid.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paid total must be numeric").
			WithDetails(map[string]any{"field": "total_paid"})
	}

	order := &models.Order{
		BuyerID:     session.BuyerID,
		BuyerName:   session.BuyerName,
		OrderNumber: generateOrderNumber(),
		TotalCost:   totalPaid,
		Quantity:    session.Size(),
		Status:      enums.OrderStatusComplete,
	}
	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.metrics.IncSubmission(string(OutcomeFailure))
		s.deleteSession(ctx, sessionID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order header")
	}
	ctx = s.logg.WithOrderID(ctx, created.ID.String())

	succeeded, failed := 0, 0
	var errs error
	var lined []uuid.UUID
	for _, card := range session.Cards() {
		if card.ID == uuid.Nil {
			failed++
			errs = multierr.Append(errs, fmt.Errorf("card %q has no identity", card.CertNumber))
			continue
		}
		item := &models.OrderItem{
			OrderID:   created.ID,
			CardID:    card.ID,
			CardName:  card.DisplayName(),
			CardGrade: gradeOrNA(card.Grade),
			Price:     card.Cost,
			Value:     card.Value,
			Quantity:  1,
		}
		if _, err := s.repo.CreateOrderItem(ctx, item); err != nil {
			failed++
			errs = multierr.Append(errs, fmt.Errorf("line for card %s: %w", card.ID, err))
			continue
		}
		succeeded++
		lined = append(lined, card.ID)
	}

	for _, cardID := range lined {
		if err := s.cards.UpdateStatus(ctx, cardID, enums.CardStatusSold); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("marking card %s sold: %w", cardID, err))
		}
	}

	outcome := OutcomeSuccess
	switch {
	case succeeded == 0:
		outcome = OutcomeFailure
	case failed > 0:
		outcome = OutcomePartialFailure
	}

	// An order that lost lines keeps its header and claimed quantity; the
	// status column records that the line set is short.
	if outcome != OutcomeSuccess {
		if err := s.repo.UpdateStatus(ctx, created.ID, enums.OrderStatusIncomplete); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("marking order incomplete: %w", err))
		} else {
			created.Status = enums.OrderStatusIncomplete
		}
	}

	if errs != nil {
		s.logg.Error(ctx, "order submission finished with failures", errs)
	}
	s.metrics.IncSubmission(string(outcome))
	s.metrics.AddSubmittedLines("succeeded", succeeded)
	s.metrics.AddSubmittedLines("failed", failed)
	s.deleteSession(ctx, sessionID)

	return &SubmitResult{
		Order:     created,
		Outcome:   outcome,
		Succeeded: succeeded,
		Failed:    failed,
		Err:       errs,
	}, nil
}

// List pages through submitted orders, newest first.
func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listOrdersParams{Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

// Detail loads one order with its line items.
func (s *service) Detail(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
			WithDetails(map[string]any{"order_id": orderID.String()})
	}
	return order, nil
}

func (s *service) resolveCard(ctx context.Context, input AddCardInput) (*models.Card, error) {
	if input.CardID != "" {
		id, err := uuid.Parse(input.CardID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid card id")
		}
		card, err := s.cards.FindByID(ctx, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "card not found")
		}
		return card, nil
	}
	if input.CertNumber != "" {
		card, err := s.cards.GetByCertNumber(ctx, input.CertNumber)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading card")
		}
		if card == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "card not found").
				WithDetails(map[string]any{"cert_number": input.CertNumber})
		}
		return card, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "card id or cert number is required")
}

// deleteSession removes the selection on a terminal outcome. A failure here
// only logs: the submission result already stands.
func (s *service) deleteSession(ctx context.Context, sessionID string) {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logg.Warn(ctx, "deleting order session failed: "+err.Error())
	}
}

func viewOf(session *Session) *SessionView {
	return &SessionView{
		Session: session,
		Cards:   session.Cards(),
		Totals:  session.Totals(),
	}
}

func gradeOrNA(grade string) string {
	if strings.TrimSpace(grade) == "" {
		return "N/A"
	}
	return grade
}

func generateOrderNumber() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), fragment)
}
