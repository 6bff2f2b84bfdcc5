package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainidentity "github.com/opsledger/backend/internal/domain/identity"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/opsledger/backend/internal/infrastructure/auth"
	"github.com/opsledger/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles authentication and user administration
type Service struct {
	users         domainidentity.UserRepository
	organizations domainidentity.OrganizationRepository
	jwt           *auth.JWTService
	blacklist     auth.TokenBlacklist
}

// NewService creates a new identity Service
func NewService(users domainidentity.UserRepository, organizations domainidentity.OrganizationRepository, jwt *auth.JWTService, blacklist auth.TokenBlacklist) *Service {
	return &Service{
		users:         users,
		organizations: organizations,
		jwt:           jwt,
		blacklist:     blacklist,
	}
}

// Register bootstraps a new organization together with its first ADMIN user
func (s *Service) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	if existing, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email))); err == nil && existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_EMAIL", "A user with this email already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	org, err := domainidentity.NewOrganization(input.OrganizationName)
	if err != nil {
		return nil, err
	}
	if err := s.organizations.Save(ctx, org); err != nil {
		return nil, fmt.Errorf("saving organization: %w", err)
	}

	user, err := domainidentity.NewUser(org.ID, input.Email, input.Name, input.Password, shared.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("saving user: %w", err)
	}

	logger.L(ctx).Info("organization registered",
		zap.String("organization_id", org.ID.String()),
		zap.String("user_id", user.ID.String()))

	return s.issueTokens(ctx, user)
}

// Login authenticates a user by email and password. Unknown email and wrong
// password produce the same error so the endpoint does not leak which
// accounts exist.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	invalid := shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		return nil, invalid
	}

	user.RecordLogin()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("recording login: %w", err)
	}

	logger.L(ctx).Info("user logged in", zap.String("user_id", user.ID.String()))

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, input RefreshInput) (*auth.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, shared.ErrUnauthorized
		}
	}

	pair, err := s.jwt.RefreshTokenPair(input.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	return pair, nil
}

// Logout revokes both tokens for the remainder of their lifetimes
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if s.blacklist == nil {
		return nil
	}
	if claims, err := s.jwt.ValidateAccessToken(accessToken); err == nil {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			return err
		}
	}
	if refreshToken != "" {
		if claims, err := s.jwt.ValidateRefreshToken(refreshToken); err == nil {
			if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateUser adds a user to the caller's organization. Only ADMIN may do so.
func (s *Service) CreateUser(ctx context.Context, identity shared.Identity, input CreateUserInput) (*UserResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	if identity.Role != shared.RoleAdmin {
		return nil, shared.ErrForbidden
	}

	if existing, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email))); err == nil && existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_EMAIL", "A user with this email already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := domainidentity.NewUser(identity.OrganizationID, input.Email, input.Name, input.Password, shared.Role(input.Role))
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("saving user: %w", err)
	}

	logger.L(ctx).Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	response := ToUserResponse(user)
	return &response, nil
}

// GetUser loads one user from the caller's organization
func (s *Service) GetUser(ctx context.Context, identity shared.Identity, userID uuid.UUID) (*UserResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	user, err := s.users.FindByIDForTenant(ctx, identity.OrganizationID, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// ListUsers lists the caller's organization members
func (s *Service) ListUsers(ctx context.Context, identity shared.Identity, filter shared.Filter) ([]UserResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	users, err := s.users.FindAllForTenant(ctx, identity.OrganizationID, filter)
	if err != nil {
		return nil, err
	}
	return ToUserResponses(users), nil
}

// ResolveAccessToken validates an access token, applies revocation, and
// returns the caller's identity. Validation failures never yield a partial
// identity.
func (s *Service) ResolveAccessToken(ctx context.Context, token string) (shared.Identity, *auth.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return shared.Identity{}, nil, shared.ErrUnauthorized
	}
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return shared.Identity{}, nil, err
		}
		if revoked {
			return shared.Identity{}, nil, shared.ErrUnauthorized
		}
	}
	identity, err := claims.Identity()
	if err != nil {
		return shared.Identity{}, nil, shared.ErrUnauthorized
	}
	return identity, claims, nil
}

func (s *Service) issueTokens(_ context.Context, user *domainidentity.User) (*LoginResult, error) {
	pair, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		OrganizationID: user.OrganizationID,
		UserID:         user.ID,
		Name:           user.Name,
		Role:           user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("generating tokens: %w", err)
	}
	return &LoginResult{User: ToUserResponse(user), Tokens: pair}, nil
}
