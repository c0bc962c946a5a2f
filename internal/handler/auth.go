package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

// AuthHandler signs in the single admin account configured through the
// environment.  There is no user table; staff share one login and the
// issued token carries the ADMIN role checked by the middleware.
type AuthHandler struct {
	cfg config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// loginRequest is the expected JSON body for POST /v1/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login.  Wrong email and wrong password
// produce the same 401 so the response does not leak which one failed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "email and password are required"})
	}
	if req.Email != h.cfg.AdminEmail || !utils.CheckPassword(h.cfg.AdminPasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "invalid credentials"})
	}
	token, err := utils.NewAdminToken(h.cfg.JWTSecret, req.Email, h.cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage_failure", "message": "could not issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token.Token,
		"expires_at":   token.Exp,
	})
}
