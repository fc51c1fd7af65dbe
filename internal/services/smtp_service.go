package services

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
)

// SMTPMailer delivers OTP mail through a plain SMTP relay. Used when no
// SendGrid credentials are configured.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}
}

// SendOTP sends the one-time code over SMTP with STARTTLS.
func (m *SMTPMailer) SendOTP(toEmail, code string) error {
	if m.host == "" || m.from == "" {
		return errors.New("smtp configuration missing")
	}

	headers := fmt.Sprintf("From: Abhyaas <%s>\r\nTo: %s\r\nSubject: Your Abhyaas OTP Code\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		m.from, toEmail)
	message := []byte(headers + OTPEmailBody(code))

	addr := m.host + ":" + m.port

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
		return fmt.Errorf("smtp starttls: %w", err)
	}

	if m.username != "" {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}

	if err := client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}

	return client.Quit()
}
