package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appidentity "github.com/opsledger/backend/internal/application/identity"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/opsledger/backend/internal/infrastructure/auth"
	"github.com/opsledger/backend/internal/infrastructure/config"
	"github.com/opsledger/backend/internal/infrastructure/persistence"
	"github.com/opsledger/backend/tests/testutil"
)

type authFixture struct {
	service *appidentity.Service
	jwt     *auth.JWTService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "opsledger-test",
		MaxRefreshCount:        10,
	})

	service := appidentity.NewService(
		persistence.NewGormUserRepository(db),
		persistence.NewGormOrganizationRepository(db),
		jwtService,
		auth.NewInMemoryTokenBlacklist(),
	)
	return &authFixture{service: service, jwt: jwtService}
}

func registerInput() appidentity.RegisterInput {
	return appidentity.RegisterInput{
		OrganizationName: "Corner Bakery",
		Email:            "owner@bakery.test",
		Name:             "Maria Lopez",
		Password:         "s3cret-enough",
	}
}

func TestService_Register(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	t.Run("bootstraps organization with admin user", func(t *testing.T) {
		result, err := f.service.Register(ctx, registerInput())
		require.NoError(t, err)

		assert.Equal(t, "owner@bakery.test", result.User.Email)
		assert.Equal(t, string(shared.RoleAdmin), result.User.Role)
		require.NotNil(t, result.Tokens)
		assert.NotEmpty(t, result.Tokens.AccessToken)
		assert.NotEmpty(t, result.Tokens.RefreshToken)

		claims, err := f.jwt.ValidateAccessToken(result.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.String(), claims.UserID)
		assert.Equal(t, string(shared.RoleAdmin), claims.Role)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		input := registerInput()
		input.OrganizationName = "Another Shop"
		_, err := f.service.Register(ctx, input)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_EMAIL", domainErr.Code)
	})
}

func TestService_Login(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, registerInput())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		result, err := f.service.Login(ctx, appidentity.LoginInput{
			Email:    "owner@bakery.test",
			Password: "s3cret-enough",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Tokens.AccessToken)
		require.NotNil(t, result.User.LastLoginAt)
	})

	t.Run("email is trimmed and case insensitive", func(t *testing.T) {
		_, err := f.service.Login(ctx, appidentity.LoginInput{
			Email:    "  OWNER@bakery.test ",
			Password: "s3cret-enough",
		})
		require.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.service.Login(ctx, appidentity.LoginInput{
			Email:    "owner@bakery.test",
			Password: "wrong-password",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("unknown email yields the same error", func(t *testing.T) {
		_, err := f.service.Login(ctx, appidentity.LoginInput{
			Email:    "nobody@bakery.test",
			Password: "s3cret-enough",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})
}

func TestService_Refresh(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Register(ctx, registerInput())
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		pair, err := f.service.Refresh(ctx, appidentity.RefreshInput{RefreshToken: result.Tokens.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEqual(t, result.Tokens.RefreshToken, pair.RefreshToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.service.Refresh(ctx, appidentity.RefreshInput{RefreshToken: "garbage"})
		assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := f.service.Refresh(ctx, appidentity.RefreshInput{RefreshToken: result.Tokens.AccessToken})
		assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	})
}

func TestService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Register(ctx, registerInput())
	require.NoError(t, err)

	identity, _, err := f.service.ResolveAccessToken(ctx, result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, shared.RoleAdmin, identity.Role)

	require.NoError(t, f.service.Logout(ctx, result.Tokens.AccessToken, result.Tokens.RefreshToken))

	_, _, err = f.service.ResolveAccessToken(ctx, result.Tokens.AccessToken)
	assert.True(t, errors.Is(err, shared.ErrUnauthorized))

	_, err = f.service.Refresh(ctx, appidentity.RefreshInput{RefreshToken: result.Tokens.RefreshToken})
	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
}

func TestService_CreateUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Register(ctx, registerInput())
	require.NoError(t, err)

	admin, _, err := f.service.ResolveAccessToken(ctx, result.Tokens.AccessToken)
	require.NoError(t, err)

	t.Run("admin creates a cashier", func(t *testing.T) {
		created, err := f.service.CreateUser(ctx, admin, appidentity.CreateUserInput{
			Email:    "cashier@bakery.test",
			Name:     "Pedro Silva",
			Password: "cashier-pass",
			Role:     string(shared.RoleCashier),
		})
		require.NoError(t, err)
		assert.Equal(t, string(shared.RoleCashier), created.Role)

		// the new user can log in
		login, err := f.service.Login(ctx, appidentity.LoginInput{
			Email:    "cashier@bakery.test",
			Password: "cashier-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, login.User.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.service.CreateUser(ctx, admin, appidentity.CreateUserInput{
			Email:    "cashier@bakery.test",
			Name:     "Someone Else",
			Password: "another-pass",
			Role:     string(shared.RoleCashier),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_EMAIL", domainErr.Code)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		manager, err := shared.NewIdentity(admin.OrganizationID, uuid.New(), shared.RoleManager)
		require.NoError(t, err)

		_, err = f.service.CreateUser(ctx, manager, appidentity.CreateUserInput{
			Email:    "extra@bakery.test",
			Name:     "Extra",
			Password: "extra-pass",
			Role:     string(shared.RoleCashier),
		})
		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})
}

func TestService_GetAndListUsers(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Register(ctx, registerInput())
	require.NoError(t, err)
	admin, _, err := f.service.ResolveAccessToken(ctx, result.Tokens.AccessToken)
	require.NoError(t, err)

	created, err := f.service.CreateUser(ctx, admin, appidentity.CreateUserInput{
		Email:    "cashier@bakery.test",
		Name:     "Pedro Silva",
		Password: "cashier-pass",
		Role:     string(shared.RoleCashier),
	})
	require.NoError(t, err)

	t.Run("get by id", func(t *testing.T) {
		user, err := f.service.GetUser(ctx, admin, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "cashier@bakery.test", user.Email)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.service.GetUser(ctx, admin, uuid.New())
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("other tenant cannot see the user", func(t *testing.T) {
		stranger := testutil.NewIdentity(t, shared.RoleAdmin)
		_, err := f.service.GetUser(ctx, stranger, created.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		users, err := f.service.ListUsers(ctx, stranger, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("list members", func(t *testing.T) {
		users, err := f.service.ListUsers(ctx, admin, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}

func TestService_ResolveAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Register(ctx, registerInput())
	require.NoError(t, err)

	identity, claims, err := f.service.ResolveAccessToken(ctx, result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, identity.UserID)
	assert.Equal(t, shared.RoleAdmin, identity.Role)
	assert.Equal(t, result.User.Name, claims.Name)

	_, _, err = f.service.ResolveAccessToken(ctx, "garbage")
	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
}
