package orders

import (
	"github.com/jyl33/cardscanner-backend/pkg/db/models"
)

// Outcome is the terminal state of an order submission.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomePartialFailure Outcome = "partial_failure"
	OutcomeFailure        Outcome = "failure"
)

// AddCardInput identifies the card to add to a session, by inventory ID or
// by certification number.
type AddCardInput struct {
	CardID     string
	CertNumber string
}

// SubmitInput carries the order-level amount entered at confirmation.
type SubmitInput struct {
	TotalPaid string
}

// SessionView is the review-screen projection of a session: the selected
// cards plus running totals.
type SessionView struct {
	Session *Session      `json:"session"`
	Cards   []models.Card `json:"cards"`
	Totals  Totals        `json:"totals"`
}

// SubmitResult reports the terminal state of a submission with per-line
// accounting. Err aggregates every line and status-update failure.
type SubmitResult struct {
	Order     *models.Order `json:"order"`
	Outcome   Outcome       `json:"outcome"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Err       error         `json:"-"`
}

// ListParams pages through submitted orders.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult wraps one page of orders and the cursor for the next.
type ListResult struct {
	Items  []models.Order `json:"items"`
	Cursor string         `json:"cursor"`
}
