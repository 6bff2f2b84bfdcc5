package identity

import (
	"context"
	"strings"
	"time"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// Organization is the tenant root; every other entity carries its ID
type Organization struct {
	shared.BaseAggregateRoot
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

// NewOrganization creates a tenant
func NewOrganization(name string) (*Organization, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	return &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}

// User is an authenticated member of one organization
type User struct {
	shared.TenantAggregateRoot
	Email        string      `gorm:"type:varchar(200);not null;uniqueIndex:idx_user_org_email,priority:2"`
	Name         string      `gorm:"type:varchar(200);not null"`
	PasswordHash string      `gorm:"type:varchar(100);not null"`
	Role         shared.Role `gorm:"type:varchar(20);not null"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a user with a hashed password
func NewUser(organizationID uuid.UUID, email, name, password string, role shared.Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email is required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(organizationID),
		Email:               email,
		Name:                name,
		PasswordHash:        hash,
		Role:                role,
	}, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Identity builds the resolved identity for this user
func (u *User) Identity() (shared.Identity, error) {
	return shared.NewIdentity(u.OrganizationID, u.ID, u.Role)
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	// FindByIDForTenant loads a user scoped to the tenant
	FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*User, error)
	// FindByEmail loads a user by email across organizations (login)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindAllForTenant lists users for a tenant
	FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]User, error)
	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}

// OrganizationRepository defines persistence operations for organizations
type OrganizationRepository interface {
	// FindByID loads an organization
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	// Save creates or updates an organization
	Save(ctx context.Context, org *Organization) error
}
