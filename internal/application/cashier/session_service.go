package cashier

import (
	"context"
	"errors"
	"fmt"

	"github.com/opsledger/backend/internal/application/scope"
	"github.com/opsledger/backend/internal/domain/audit"
	"github.com/opsledger/backend/internal/domain/cashier"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/opsledger/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service manages the per-operator cash session state machine.
type Service struct {
	txnScope scope.TransactionScope
	sessions cashier.CashSessionRepository
}

// NewService creates a new cash session Service
func NewService(txnScope scope.TransactionScope, sessions cashier.CashSessionRepository) *Service {
	return &Service{
		txnScope: txnScope,
		sessions: sessions,
	}
}

// OpenSession opens a drawer session for the calling operator. The
// existence check and the insert run in one transaction with the open-row
// lookup locked, so two concurrent opens for the same operator cannot both
// succeed.
func (s *Service) OpenSession(ctx context.Context, identity shared.Identity, openingAmount decimal.Decimal) (*SessionResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	var response SessionResponse
	err := s.txnScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		existing, err := repos.Sessions().FindOpenByUserForUpdate(ctx, identity.OrganizationID, identity.UserID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("checking for open session: %w", err)
		}
		if existing != nil {
			return shared.ErrSessionAlreadyOpen
		}

		session, err := cashier.NewCashSession(identity.OrganizationID, identity.UserID, openingAmount)
		if err != nil {
			return err
		}
		if err := repos.Sessions().Save(ctx, session); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		entry, err := audit.NewEntry(identity, audit.ActionOpenSession, "CashSession", session.ID,
			nil, audit.NewSnapshot().
				Set("opening_amount", session.OpeningAmount).
				Set("status", session.Status.String()))
		if err != nil {
			return err
		}
		if err := repos.Audit().Append(ctx, entry); err != nil {
			return fmt.Errorf("appending audit entry: %w", err)
		}

		response = ToSessionResponse(session)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("cash session opened", zap.String("session_id", response.ID.String()))

	return &response, nil
}

// GetActiveSession returns the operator's current OPEN session, or
// shared.ErrNotFound when none exists.
func (s *Service) GetActiveSession(ctx context.Context, identity shared.Identity) (*SessionResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	session, err := s.sessions.FindOpenByUser(ctx, identity.OrganizationID, identity.UserID)
	if err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// CloseSession reconciles and closes a session. Expected cash is the
// opening amount plus the signed sum of the session's movements; the
// returned variance is the operator's declared closing amount minus that
// expectation.
func (s *Service) CloseSession(ctx context.Context, identity shared.Identity, sessionID uuid.UUID, closingAmount decimal.Decimal) (*CloseSessionResult, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	var result CloseSessionResult
	err := s.txnScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		session, err := repos.Sessions().FindByIDForUpdate(ctx, identity.OrganizationID, sessionID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrSessionNotFound
			}
			return err
		}

		movements, err := repos.CashMovements().FindBySession(ctx, identity.OrganizationID, session.ID)
		if err != nil {
			return fmt.Errorf("loading session movements: %w", err)
		}

		oldSnapshot := audit.NewSnapshot().Set("status", session.Status.String())

		variance, err := session.Close(closingAmount, movements)
		if err != nil {
			return err
		}
		if err := repos.Sessions().Save(ctx, session); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		entry, err := audit.NewEntry(identity, audit.ActionCloseSession, "CashSession", session.ID,
			oldSnapshot,
			audit.NewSnapshot().
				Set("status", session.Status.String()).
				Set("closing_amount", closingAmount).
				Set("expected_amount", *session.ExpectedAmount).
				Set("variance", variance))
		if err != nil {
			return err
		}
		if err := repos.Audit().Append(ctx, entry); err != nil {
			return fmt.Errorf("appending audit entry: %w", err)
		}

		result = CloseSessionResult{
			Session:  ToSessionResponse(session),
			Variance: variance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("cash session closed",
		zap.String("session_id", sessionID.String()),
		zap.String("variance", result.Variance.String()))

	return &result, nil
}

// ListSessions lists the tenant's sessions, newest first
func (s *Service) ListSessions(ctx context.Context, identity shared.Identity, filter shared.Filter) ([]SessionResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	sessions, err := s.sessions.FindAllForTenant(ctx, identity.OrganizationID, filter)
	if err != nil {
		return nil, err
	}
	return ToSessionResponses(sessions), nil
}
