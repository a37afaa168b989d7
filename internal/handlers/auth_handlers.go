package handlers

import (
	"net/http"
	"strings"

	"tradedesk/internal/common"
	"tradedesk/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles signup and login endpoints
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// SignupRequest represents the registration payload
type SignupRequest struct {
	TenantID string  `json:"tenant_id"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
}

func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	tenantID, err := common.ValidateUUID(req.TenantID, "tenant_id")
	if err != nil {
		return common.SendValidationError(c, "tenant_id", err.Error())
	}

	user, err := h.authService.Signup(ctx, tenantID, req.Email, req.Password, req.FullName)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, user)
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendValidationError(c, "credentials", "email and password are required")
	}

	tokens, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("INVALID_CREDENTIALS", "Invalid email or password", nil))
	}

	return c.JSON(http.StatusOK, tokens)
}

// Logout revokes the session behind the presented token.
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	authHeader := c.Request().Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" || tokenString == authHeader {
		return common.SendUnauthorizedError(c)
	}

	claims, err := h.authService.ValidateToken(ctx, tokenString)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}

	if err := h.authService.Logout(ctx, claims.TokenID); err != nil {
		return common.SendServerError(c, "Failed to revoke session")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Logged out",
	})
}
