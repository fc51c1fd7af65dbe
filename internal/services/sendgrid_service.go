package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SendGridService sends transactional mail through the SendGrid v3 API.
type SendGridService struct {
	apiKey    string
	fromEmail string
	baseURL   string
	client    *http.Client
}

// NewSendGridService creates a new SendGridService.
func NewSendGridService(apiKey, fromEmail string) *SendGridService {
	return &SendGridService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		baseURL:   "https://api.sendgrid.com",
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridMail struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

// SendOTP delivers the one-time code to the given address.
func (s *SendGridService) SendOTP(toEmail, code string) error {
	if s.apiKey == "" || s.fromEmail == "" {
		return errors.New("sendgrid credentials missing")
	}

	mail := sendGridMail{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: toEmail}}}},
		From:             sendGridAddress{Email: s.fromEmail, Name: "Abhyaas"},
		Subject:          "Your Abhyaas OTP Code",
		Content:          []sendGridContent{{Type: "text/html", Value: OTPEmailBody(code)}},
	}

	body, err := json.Marshal(mail)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sendgrid request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendgrid returned status %d, body: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// OTPEmailBody renders the branded HTML message carrying the code.
func OTPEmailBody(code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background:#f6f7fb;font-family:Arial, sans-serif;">
  <div style="max-width:520px;margin:40px auto;background:#ffffff;border-radius:16px;overflow:hidden;">
    <div style="background:linear-gradient(135deg,#6d28d9,#2563eb);padding:22px 24px;color:white;">
      <h2 style="margin:0;font-size:20px;font-weight:700;">Abhyaas &bull; OTP Verification</h2>
      <p style="margin:6px 0 0;font-size:14px;opacity:0.9;">Secure email verification</p>
    </div>
    <div style="padding:26px 24px;color:#111827;">
      <p style="margin:0 0 18px;font-size:15px;">Your OTP for Abhyaas verification is:</p>
      <div style="text-align:center;margin:20px 0;">
        <div style="display:inline-block;background:#111827;color:white;font-size:28px;font-weight:800;letter-spacing:6px;padding:14px 22px;border-radius:14px;">%s</div>
      </div>
      <p style="margin:0 0 12px;font-size:14px;color:#374151;">This OTP will expire in <b>5 minutes</b>.</p>
      <p style="margin:0;font-size:13px;color:#6b7280;">If you didn't request this OTP, you can safely ignore this email.</p>
    </div>
    <div style="padding:16px 24px;background:#f9fafb;color:#6b7280;font-size:12px;">&copy; %d Abhyaas &bull; All rights reserved</div>
  </div>
</body>
</html>`, code, time.Now().UTC().Year())
}
