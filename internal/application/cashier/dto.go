package cashier

import (
	"time"

	"github.com/opsledger/backend/internal/domain/cashier"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionResponse is the read model for a cash session
type SessionResponse struct {
	ID             uuid.UUID        `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	OpeningAmount  decimal.Decimal  `json:"opening_amount"`
	ClosingAmount  *decimal.Decimal `json:"closing_amount,omitempty"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount,omitempty"`
	Status         string           `json:"status"`
	OpenedAt       time.Time        `json:"opened_at"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
}

// ToSessionResponse converts a session aggregate to its read model
func ToSessionResponse(s *cashier.CashSession) SessionResponse {
	return SessionResponse{
		ID:             s.ID,
		UserID:         s.UserID,
		OpeningAmount:  s.OpeningAmount,
		ClosingAmount:  s.ClosingAmount,
		ExpectedAmount: s.ExpectedAmount,
		Status:         s.Status.String(),
		OpenedAt:       s.OpenedAt,
		ClosedAt:       s.ClosedAt,
	}
}

// ToSessionResponses converts a slice of sessions
func ToSessionResponses(sessions []cashier.CashSession) []SessionResponse {
	responses := make([]SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = ToSessionResponse(&sessions[i])
	}
	return responses
}

// CloseSessionResult carries the closed session and its drawer variance.
// The variance (declared minus expected) is surfaced to the caller, not
// just stored.
type CloseSessionResult struct {
	Session  SessionResponse `json:"session"`
	Variance decimal.Decimal `json:"variance"`
}
