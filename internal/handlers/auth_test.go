package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/abhyaas/internal/config"
	"github.com/example/abhyaas/internal/routes"
	"github.com/example/abhyaas/internal/testutils"
)

type fakeMailer struct {
	sentTo    []string
	sentCodes []string
}

func (m *fakeMailer) SendOTP(toEmail, code string) error {
	m.sentTo = append(m.sentTo, toEmail)
	m.sentCodes = append(m.sentCodes, code)
	return nil
}

type fakeCaller struct {
	scriptURLs []string
}

func (c *fakeCaller) CallOTP(toPhone, scriptURL string) error {
	c.scriptURLs = append(c.scriptURLs, scriptURL)
	return nil
}

func setupApp(t *testing.T) (*fiber.App, *fakeMailer, *fakeCaller) {
	t.Helper()

	db := testutils.SetupTestDB(t)
	cfg := &config.Config{
		JWTSecret:        "test-signing-secret",
		AccessTokenTTL:   15 * time.Minute,
		AdminTeacherCode: "ADMIN-CODE-123",
		PublicBaseURL:    "http://public.example.test",
	}

	app := fiber.New()
	mailer := &fakeMailer{}
	caller := &fakeCaller{}
	routes.RegisterWith(app, db, cfg, mailer, caller)

	return app, mailer, caller
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp, decodeBody(t, resp)
}

func getWithToken(t *testing.T, app *fiber.App, path, token string) (*http.Response, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var parsed map[string]interface{}
	if json.Unmarshal(raw, &parsed) != nil {
		return map[string]interface{}{"raw": string(raw)}
	}
	return parsed
}

func TestEmailSignupLifecycle(t *testing.T) {
	app, mailer, _ := setupApp(t)

	resp, _ := postJSON(t, app, "/auth/signup/email", fiber.Map{
		"name": "Asha", "email": "a@x.com", "password": "secret1", "role": "student",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Login before OTP verification.
	resp, _ = postJSON(t, app, "/auth/login", fiber.Map{
		"identifier": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = postJSON(t, app, "/otp/email/send", fiber.Map{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, mailer.sentCodes, 1)

	resp, _ = postJSON(t, app, "/otp/email/verify", fiber.Map{
		"email": "a@x.com", "otp": mailer.sentCodes[0],
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := postJSON(t, app, "/auth/login", fiber.Map{
		"identifier": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	accessToken, _ := body["access_token"].(string)
	refreshToken, _ := body["refresh_token"].(string)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	assert.Equal(t, "bearer", body["token_type"])
	assert.Equal(t, "student", body["role"])

	resp, body = postJSON(t, app, "/auth/refresh", fiber.Map{"refresh_token": refreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["access_token"])

	resp, _ = postJSON(t, app, "/auth/logout", fiber.Map{"refresh_token": refreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = postJSON(t, app, "/auth/refresh", fiber.Map{"refresh_token": refreshToken})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignupRejections(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, _ := postJSON(t, app, "/auth/signup/email", fiber.Map{
		"name": "Asha", "email": "not-an-email", "password": "secret1", "role": "student",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postJSON(t, app, "/auth/signup/email", fiber.Map{
		"name": "Asha", "email": "a@x.com", "password": "secret1", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postJSON(t, app, "/auth/signup/email", fiber.Map{
		"name": "Tara", "email": "t@x.com", "password": "secret1", "role": "teacher", "admin_code": "nope",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = postJSON(t, app, "/auth/signup/email", fiber.Map{
		"name": "Asha", "email": "a@x.com", "password": "secret1", "role": "student",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := postJSON(t, app, "/auth/signup/email", fiber.Map{
		"name": "Asha Again", "email": "A@X.com", "password": "secret1", "role": "student",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["raw"], "Email already registered")
}

func TestOTPEndpointsUnknownUser(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, _ := postJSON(t, app, "/otp/email/send", fiber.Map{"email": "nobody@x.com"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = postJSON(t, app, "/otp/phone/send", fiber.Map{"phone": "9876543210"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPhoneSignupAndVoiceWebhook(t *testing.T) {
	app, _, caller := setupApp(t)

	resp, _ := postJSON(t, app, "/auth/signup/phone", fiber.Map{
		"name": "Ravi", "phone": "9876543210", "password": "secret1", "role": "student",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = postJSON(t, app, "/otp/phone/send", fiber.Map{"phone": "9876543210"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, caller.scriptURLs, 1)

	req := httptest.NewRequest(http.MethodGet, "/otp/twilio-voice?otp=123456", nil)
	webhookResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, webhookResp.StatusCode)
	assert.Contains(t, webhookResp.Header.Get("Content-Type"), "xml")

	raw, err := io.ReadAll(webhookResp.Body)
	require.NoError(t, err)
	webhookResp.Body.Close()
	assert.Contains(t, string(raw), "1 2 3 4 5 6")
}

func TestResetPasswordEndpoint(t *testing.T) {
	app, mailer, _ := setupApp(t)

	resp, _ := postJSON(t, app, "/auth/signup/email", fiber.Map{
		"name": "Asha", "email": "a@x.com", "password": "secret1", "role": "student",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = postJSON(t, app, "/auth/reset-password", fiber.Map{
		"identifier": "nobody@x.com", "otp": "123456", "new_password": "newsecret",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// No OTP recorded yet.
	resp, body := postJSON(t, app, "/auth/reset-password", fiber.Map{
		"identifier": "a@x.com", "otp": "123456", "new_password": "newsecret",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["raw"], "OTP not found")

	resp, _ = postJSON(t, app, "/otp/email/send", fiber.Map{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = postJSON(t, app, "/auth/reset-password", fiber.Map{
		"identifier": "a@x.com", "otp": mailer.sentCodes[0], "new_password": "newsecret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDashboardRoleGate(t *testing.T) {
	app, mailer, _ := setupApp(t)

	resp, _ := postJSON(t, app, "/auth/signup/email", fiber.Map{
		"name": "Asha", "email": "a@x.com", "password": "secret1", "role": "student",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postJSON(t, app, "/otp/email/send", fiber.Map{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postJSON(t, app, "/otp/email/verify", fiber.Map{"email": "a@x.com", "otp": mailer.sentCodes[0]})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := postJSON(t, app, "/auth/login", fiber.Map{"identifier": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	resp, body = getWithToken(t, app, "/dashboard/student", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Welcome Student: Asha", body["message"])

	resp, _ = getWithToken(t, app, "/dashboard/teacher", token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = getWithToken(t, app, "/dashboard/student", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = getWithToken(t, app, "/dashboard/student", "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	app, _, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
