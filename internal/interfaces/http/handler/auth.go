package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/opsledger/backend/internal/application/identity"
	"github.com/opsledger/backend/internal/interfaces/http/dto"
	"github.com/opsledger/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication and user administration endpoints
type AuthHandler struct {
	BaseHandler
	identityService *identityapp.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(identityService *identityapp.Service) *AuthHandler {
	return &AuthHandler{identityService: identityService}
}

// Register godoc
// @Summary      Register a new organization
// @Description  Creates an organization with its first ADMIN user and returns tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterInput true "Registration request"
// @Success      201 {object} dto.Response{data=identityapp.LoginResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input identityapp.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.identityService.Register(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials and returns an access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginInput true "Credentials"
// @Success      200 {object} dto.Response{data=identityapp.LoginResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input identityapp.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.identityService.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Refresh godoc
// @Summary      Refresh tokens
// @Description  Exchanges a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RefreshInput true "Refresh token"
// @Success      200 {object} dto.Response{data=auth.TokenPair}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input identityapp.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	pair, err := h.identityService.Refresh(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, pair)
}

// LogoutRequest carries the refresh token to revoke alongside the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the current access token and, if supplied, the refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      204
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	// Body is optional; an empty body revokes only the access token.
	_ = c.ShouldBindJSON(&req)

	accessToken := middleware.GetToken(c)
	if err := h.identityService.Logout(c.Request.Context(), accessToken, req.RefreshToken); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Me godoc
// @Summary      Get the current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	user, err := h.identityService.GetUser(c.Request.Context(), identity, identity.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// CreateUser godoc
// @Summary      Create a user
// @Description  Adds a user to the caller's organization
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateUserInput true "User creation request"
// @Success      201 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users [post]
func (h *AuthHandler) CreateUser(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var input identityapp.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.identityService.CreateUser(c.Request.Context(), identity, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// GetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *AuthHandler) GetUser(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.identityService.GetUser(c.Request.Context(), identity, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ListUsers godoc
// @Summary      List users in the caller's organization
// @Tags         users
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name or email"
// @Success      200 {object} dto.Response{data=[]identityapp.UserResponse}
// @Security     BearerAuth
// @Router       /users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	users, err := h.identityService.ListUsers(c.Request.Context(), identity, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, users)
}
