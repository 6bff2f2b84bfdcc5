package identity

import (
	"time"

	"github.com/opsledger/backend/internal/domain/identity"
	"github.com/opsledger/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// LoginInput carries user credentials
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult carries the authenticated user and their token pair
type LoginResult struct {
	User   UserResponse    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// RefreshInput carries a refresh token
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RegisterInput bootstraps a new organization with its first ADMIN user
type RegisterInput struct {
	OrganizationName string `json:"organization_name" binding:"required,min=1,max=200"`
	Email            string `json:"email" binding:"required,email"`
	Name             string `json:"name" binding:"required,min=1,max=200"`
	Password         string `json:"password" binding:"required,min=8"`
}

// CreateUserInput adds a user to the caller's organization
type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=ADMIN MANAGER CASHIER"`
}

// UserResponse is the read model for a user
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse converts a User to its read model
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ToUserResponses converts a slice of users
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}
