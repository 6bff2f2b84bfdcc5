package purchasing

import (
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Provider is a supplier identity within a tenant
type Provider struct {
	shared.TenantAggregateRoot
	Name    string `gorm:"type:varchar(200);not null"`
	Contact string `gorm:"type:varchar(200)"`
	Email   string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (Provider) TableName() string {
	return "providers"
}

// NewProvider creates a new provider scoped to a tenant
func NewProvider(organizationID uuid.UUID, name, contact, email string) (*Provider, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Provider name cannot be empty")
	}

	return &Provider{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(organizationID),
		Name:                name,
		Contact:             contact,
		Email:               email,
	}, nil
}
