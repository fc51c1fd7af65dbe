package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/abhyaas/internal/auth"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	svc *auth.Service
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type signupEmailRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"required"`
	AdminCode string `json:"admin_code"`
}

// SignupEmail registers a user with an email identifier.
func (h *AuthHandler) SignupEmail(c *fiber.Ctx) error {
	var req signupEmailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.svc.SignupEmail(req.Name, req.Email, req.Password, req.Role, req.AdminCode); err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"message": "User created. Now verify email OTP using /otp/email/send",
	})
}

type signupPhoneRequest struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"required"`
	AdminCode string `json:"admin_code"`
}

// SignupPhone registers a user with a phone identifier.
func (h *AuthHandler) SignupPhone(c *fiber.Ctx) error {
	var req signupPhoneRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.svc.SignupPhone(req.Name, req.Phone, req.Password, req.Role, req.AdminCode); err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"message": "User created. Now verify phone OTP using /otp/phone/send",
	})
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Login authenticates a verified user and issues both tokens.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.svc.Login(req.Identifier, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    result.TokenType,
		"role":          result.Role,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	accessToken, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}

// Logout revokes the refresh token. Idempotent; the response shape never
// reveals whether the token existed.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req refreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.svc.Logout(req.RefreshToken); err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

type resetPasswordRequest struct {
	Identifier  string `json:"identifier" validate:"required"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ResetPassword replaces the password after an OTP check on the channel
// the identifier implies.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.svc.ResetPassword(req.Identifier, req.OTP, req.NewPassword); err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Password reset successful",
	})
}
