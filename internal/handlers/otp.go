package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/abhyaas/internal/auth"
	"github.com/example/abhyaas/internal/services"
)

// OTPHandler bundles dependencies for OTP endpoints.
type OTPHandler struct {
	svc *auth.Service
}

// NewOTPHandler constructs an OTPHandler.
func NewOTPHandler(svc *auth.Service) *OTPHandler {
	return &OTPHandler{svc: svc}
}

type sendEmailOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SendEmail issues a fresh code and mails it.
func (h *OTPHandler) SendEmail(c *fiber.Ctx) error {
	var req sendEmailOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.svc.SendEmailOTP(req.Email); err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Email OTP sent",
	})
}

type verifyEmailOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

// VerifyEmail checks the code and marks the email verified.
func (h *OTPHandler) VerifyEmail(c *fiber.Ctx) error {
	var req verifyEmailOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.svc.VerifyEmailOTP(req.Email, req.OTP); err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully",
	})
}

type sendPhoneOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// SendPhone issues a fresh code and places the voice call.
func (h *OTPHandler) SendPhone(c *fiber.Ctx) error {
	var req sendPhoneOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.svc.SendPhoneOTP(req.Phone); err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"message": "OTP call initiated",
	})
}

type verifyPhoneOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

// VerifyPhone checks the code and marks the phone verified.
func (h *OTPHandler) VerifyPhone(c *fiber.Ctx) error {
	var req verifyPhoneOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.svc.VerifyPhoneOTP(req.Phone, req.OTP); err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Phone verified successfully",
	})
}

// TwilioVoice is the publicly reachable webhook Twilio fetches during the
// call. It renders the speech script for the code in the query string.
func (h *OTPHandler) TwilioVoice(c *fiber.Ctx) error {
	otp := c.Query("otp", "000000")

	c.Set(fiber.HeaderContentType, "application/xml")
	return c.SendString(services.VoiceOTPScript(otp))
}
