package handlers

import (
	"net/http"

	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandlers handles registration, login and the current-user lookup
type AuthHandlers struct {
	users  services.UserService
	tokens services.TokenService
}

func NewAuthHandlers(users services.UserService, tokens services.TokenService) *AuthHandlers {
	return &AuthHandlers{users: users, tokens: tokens}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is a bearer token plus the user it was issued for
type LoginResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

// Register godoc
// @Summary      Register a customer account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      services.UserRequest  true  "New customer"
// @Success      201      {object}  LoginResponse
// @Failure      400      {object}  common.ErrorResponse
// @Failure      409      {object}  common.ErrorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.UserRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, err := h.users.RegisterCustomer(ctx, req)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token after registration")
		return common.SendServerError(c, "Failed to issue token")
	}

	return c.JSON(http.StatusCreated, LoginResponse{TokenResponse: *token, User: user})
}

// Login godoc
// @Summary      Exchange credentials for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Failure      401      {object}  common.ErrorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendClientError(c, "Email and password are required")
	}

	user, err := h.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return common.SendServerError(c, "Failed to issue token")
	}

	log.Ctx(ctx).Info().Str("user_id", user.ID.String()).Str("role", user.Role.String()).Msg("user logged in")
	return c.JSON(http.StatusOK, LoginResponse{TokenResponse: *token, User: user})
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {object}  common.ErrorResponse
// @Router       /v1/me [get]
func (h *AuthHandlers) Me(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}

	user, err := h.users.GetUser(c.Request().Context(), actor.UserID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
