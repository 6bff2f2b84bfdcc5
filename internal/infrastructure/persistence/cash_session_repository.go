package persistence

import (
	"context"
	"errors"

	"github.com/opsledger/backend/internal/domain/cashier"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCashSessionRepository implements CashSessionRepository using GORM
type GormCashSessionRepository struct {
	db *gorm.DB
}

// NewGormCashSessionRepository creates a new GormCashSessionRepository
func NewGormCashSessionRepository(db *gorm.DB) *GormCashSessionRepository {
	return &GormCashSessionRepository{db: db}
}

// FindByIDForTenant finds a session by ID within an organization
func (r *GormCashSessionRepository) FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*cashier.CashSession, error) {
	var session cashier.CashSession
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindByIDForUpdate finds a session by ID holding a row-level write lock.
// Must run inside a transaction.
func (r *GormCashSessionRepository) FindByIDForUpdate(ctx context.Context, organizationID, id uuid.UUID) (*cashier.CashSession, error) {
	var session cashier.CashSession
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindOpenByUser returns the most recently opened OPEN session for an operator
func (r *GormCashSessionRepository) FindOpenByUser(ctx context.Context, organizationID, userID uuid.UUID) (*cashier.CashSession, error) {
	var session cashier.CashSession
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ? AND status = ?", organizationID, userID, cashier.SessionStatusOpen).
		Order("opened_at DESC").
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindOpenByUserForUpdate is FindOpenByUser holding a row-level write lock.
// Must run inside a transaction.
func (r *GormCashSessionRepository) FindOpenByUserForUpdate(ctx context.Context, organizationID, userID uuid.UUID) (*cashier.CashSession, error) {
	var session cashier.CashSession
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization_id = ? AND user_id = ? AND status = ?", organizationID, userID, cashier.SessionStatusOpen).
		Order("opened_at DESC").
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindAllForTenant lists sessions for an organization, newest first
func (r *GormCashSessionRepository) FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]cashier.CashSession, error) {
	var sessions []cashier.CashSession
	query := r.db.WithContext(ctx).
		Model(&cashier.CashSession{}).
		Where("organization_id = ?", organizationID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CashSessionSortFields, "opened_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// Save creates or updates a session
func (r *GormCashSessionRepository) Save(ctx context.Context, session *cashier.CashSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// Ensure GormCashSessionRepository implements CashSessionRepository
var _ cashier.CashSessionRepository = (*GormCashSessionRepository)(nil)
