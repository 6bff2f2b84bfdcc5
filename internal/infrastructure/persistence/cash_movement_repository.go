package persistence

import (
	"context"

	"github.com/opsledger/backend/internal/domain/cashier"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCashMovementRepository implements CashMovementRepository using GORM.
// Movements are append-only; there is no update or delete path.
type GormCashMovementRepository struct {
	db *gorm.DB
}

// NewGormCashMovementRepository creates a new GormCashMovementRepository
func NewGormCashMovementRepository(db *gorm.DB) *GormCashMovementRepository {
	return &GormCashMovementRepository{db: db}
}

// Append stores a new movement
func (r *GormCashMovementRepository) Append(ctx context.Context, movement *cashier.CashMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindBySession lists all movements tied to a session, oldest first
func (r *GormCashMovementRepository) FindBySession(ctx context.Context, organizationID, sessionID uuid.UUID) ([]cashier.CashMovement, error) {
	var movements []cashier.CashMovement
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND session_id = ?", organizationID, sessionID).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindRecent lists the most recent movements for an organization
func (r *GormCashMovementRepository) FindRecent(ctx context.Context, organizationID uuid.UUID, limit int) ([]cashier.CashMovement, error) {
	if limit <= 0 {
		limit = 20
	}
	var movements []cashier.CashMovement
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Ensure GormCashMovementRepository implements CashMovementRepository
var _ cashier.CashMovementRepository = (*GormCashMovementRepository)(nil)
