package cashier

import (
	"time"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionStatus represents the lifecycle state of a cash session
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "OPEN"
	SessionStatusClosed SessionStatus = "CLOSED"
)

// IsValid checks if the status is a valid SessionStatus
func (s SessionStatus) IsValid() bool {
	return s == SessionStatusOpen || s == SessionStatusClosed
}

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// CashSession is a bounded drawer interval owned by one operator.
// At most one OPEN session may exist per (organization, user); CLOSED is
// terminal for a session instance.
type CashSession struct {
	shared.TenantAggregateRoot
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_cash_session_org_user"`
	OpeningAmount  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ClosingAmount  *decimal.Decimal `gorm:"type:decimal(18,4)"` // Declared by the operator at close
	ExpectedAmount *decimal.Decimal `gorm:"type:decimal(18,4)"` // Opening + signed movements, computed at close
	Status         SessionStatus    `gorm:"type:varchar(10);not null;default:'OPEN'"`
	OpenedAt       time.Time        `gorm:"not null"`
	ClosedAt       *time.Time
}

// TableName returns the table name for GORM
func (CashSession) TableName() string {
	return "cash_sessions"
}

// NewCashSession opens a session for an operator
func NewCashSession(organizationID, userID uuid.UUID, openingAmount decimal.Decimal) (*CashSession, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if openingAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Opening amount cannot be negative")
	}

	return &CashSession{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(organizationID),
		UserID:              userID,
		OpeningAmount:       openingAmount,
		Status:              SessionStatusOpen,
		OpenedAt:            time.Now(),
	}, nil
}

// IsOpen returns true while sales may be recorded against the session
func (s *CashSession) IsOpen() bool {
	return s.Status == SessionStatusOpen
}

// Close reconciles the drawer and transitions the session to CLOSED.
// expectedAmount = openingAmount + sum of signed movement amounts; the
// returned variance is closingAmount - expectedAmount.
func (s *CashSession) Close(closingAmount decimal.Decimal, movements []CashMovement) (decimal.Decimal, error) {
	if s.Status == SessionStatusClosed {
		return decimal.Zero, shared.ErrSessionNotFound
	}
	if closingAmount.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Closing amount cannot be negative")
	}

	totalMovements := decimal.Zero
	for _, m := range movements {
		totalMovements = totalMovements.Add(m.SignedAmount())
	}
	expected := s.OpeningAmount.Add(totalMovements)

	now := time.Now()
	s.ClosingAmount = &closingAmount
	s.ExpectedAmount = &expected
	s.Status = SessionStatusClosed
	s.ClosedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	return closingAmount.Sub(expected), nil
}

// Variance returns closing - expected for a closed session
func (s *CashSession) Variance() decimal.Decimal {
	if s.ClosingAmount == nil || s.ExpectedAmount == nil {
		return decimal.Zero
	}
	return s.ClosingAmount.Sub(*s.ExpectedAmount)
}
