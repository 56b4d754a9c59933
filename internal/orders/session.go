package orders

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jyl33/cardscanner-backend/pkg/db/models"
	"github.com/jyl33/cardscanner-backend/pkg/enums"
	pkgerrors "github.com/jyl33/cardscanner-backend/pkg/errors"
)

// Session is the server-side Selection Map for one in-progress order. Both
// add paths (scan-confirm and inventory pick) write through the same map,
// keyed by card-ID string.
type Session struct {
	ID        string                 `json:"id"`
	BuyerID   uuid.UUID              `json:"buyer_id"`
	BuyerName string                 `json:"buyer_name"`
	Selection map[string]models.Card `json:"selection"`
	CreatedAt time.Time              `json:"created_at"`
}

// Totals are the running sums shown on the review screen. Cards whose money
// fields failed to parse contribute zero.
type Totals struct {
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
}

// NewSession starts an empty selection for the given buyer.
func NewSession(buyerID uuid.UUID, buyerName string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		BuyerID:   buyerID,
		BuyerName: buyerName,
		Selection: make(map[string]models.Card),
		CreatedAt: time.Now().UTC(),
	}
}

// Add inserts a card into the selection. Only cards whose status reads
// exactly "In Stock" at the moment of the add are accepted; adding a card
// already in the selection is a no-op.
func (s *Session) Add(card models.Card) error {
	if card.Status != enums.CardStatusInStock {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "card is not in stock").
			WithDetails(map[string]any{"card_id": card.ID.String(), "status": string(card.Status)})
	}
	if s.Selection == nil {
		s.Selection = make(map[string]models.Card)
	}
	key := card.ID.String()
	if _, exists := s.Selection[key]; exists {
		return nil
	}
	s.Selection[key] = card
	return nil
}

// Remove deletes the card from the selection and reports whether it was
// present.
func (s *Session) Remove(cardID string) bool {
	if _, ok := s.Selection[cardID]; !ok {
		return false
	}
	delete(s.Selection, cardID)
	return true
}

// Cards lists the selection in a stable order regardless of insertion
// sequence.
func (s *Session) Cards() []models.Card {
	keys := make([]string, 0, len(s.Selection))
	for key := range s.Selection {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cards := make([]models.Card, 0, len(keys))
	for _, key := range keys {
		cards = append(cards, s.Selection[key])
	}
	return cards
}

// Size reports how many cards are selected.
func (s *Session) Size() int {
	return len(s.Selection)
}

// Totals recomputes the running sums over the selection.
func (s *Session) Totals() Totals {
	totals := Totals{EstimatedValue: decimal.Zero, TotalPaid: decimal.Zero}
	for _, card := range s.Selection {
		if card.Value.Valid() {
			totals.EstimatedValue = totals.EstimatedValue.Add(card.Value.Decimal())
		}
		if card.Cost.Valid() {
			totals.TotalPaid = totals.TotalPaid.Add(card.Cost.Decimal())
		}
	}
	return totals
}
