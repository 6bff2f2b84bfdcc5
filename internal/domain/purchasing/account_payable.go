package purchasing

import (
	"time"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayableStatus represents the settlement state of an account payable
type PayableStatus string

const (
	PayableStatusPending PayableStatus = "PENDING"
	PayableStatusPaid    PayableStatus = "PAID"
)

// IsValid checks if the status is a valid PayableStatus
func (s PayableStatus) IsValid() bool {
	return s == PayableStatusPending || s == PayableStatusPaid
}

// String returns the string representation of PayableStatus
func (s PayableStatus) String() string {
	return string(s)
}

// DefaultPaymentTerm is the default due period for payables created on receipt
const DefaultPaymentTerm = 30 * 24 * time.Hour

// AccountPayable is the obligation toward a provider created once per
// receiving event, valued at what that event actually received.
type AccountPayable struct {
	shared.TenantAggregateRoot
	ProviderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DueDate    time.Time       `gorm:"not null"`
	Status     PayableStatus   `gorm:"type:varchar(10);not null;default:'PENDING'"`
	PaidAt     *time.Time
}

// TableName returns the table name for GORM
func (AccountPayable) TableName() string {
	return "accounts_payable"
}

// NewAccountPayable creates a pending payable due after the default term
func NewAccountPayable(organizationID, providerID, orderID uuid.UUID, amount decimal.Decimal) (*AccountPayable, error) {
	if providerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payable amount must be positive")
	}

	return &AccountPayable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(organizationID),
		ProviderID:          providerID,
		OrderID:             orderID,
		Amount:              amount,
		DueDate:             time.Now().Add(DefaultPaymentTerm),
		Status:              PayableStatusPending,
	}, nil
}

// MarkPaid settles the payable
func (ap *AccountPayable) MarkPaid() error {
	if ap.Status == PayableStatusPaid {
		return shared.ErrAlreadyPaid
	}
	now := time.Now()
	ap.Status = PayableStatusPaid
	ap.PaidAt = &now
	ap.UpdatedAt = now
	ap.IncrementVersion()
	return nil
}

// IsOverdue returns true when the payable is pending past its due date
func (ap *AccountPayable) IsOverdue() bool {
	return ap.Status == PayableStatusPending && time.Now().After(ap.DueDate)
}
