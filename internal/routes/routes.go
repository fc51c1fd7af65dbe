package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/abhyaas/internal/auth"
	"github.com/example/abhyaas/internal/config"
	"github.com/example/abhyaas/internal/handlers"
	"github.com/example/abhyaas/internal/middleware"
	"github.com/example/abhyaas/internal/models"
	"github.com/example/abhyaas/internal/services"
)

// Register wires up all HTTP routes with the default collaborators:
// SendGrid when configured, plain SMTP otherwise, and Twilio for calls.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	var mailer auth.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = services.NewSendGridService(cfg.SendGridAPIKey, cfg.SendGridFrom)
	} else {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	caller := services.NewTwilioService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)

	RegisterWith(app, db, cfg, mailer, caller)
}

// RegisterWith wires up all HTTP routes with explicit collaborators.
func RegisterWith(app *fiber.App, db *gorm.DB, cfg *config.Config, mailer auth.Mailer, caller auth.VoiceCaller) {
	svc := auth.NewService(db, cfg, mailer, caller)

	authHandler := handlers.NewAuthHandler(svc)
	otpHandler := handlers.NewOTPHandler(svc)
	dashboardHandler := handlers.NewDashboardHandler()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "message": "Abhyaas Backend is running"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	authGroup := app.Group("/auth")
	authGroup.Post("/signup/email", authHandler.SignupEmail)
	authGroup.Post("/signup/phone", authHandler.SignupPhone)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	otpGroup := app.Group("/otp")
	otpGroup.Post("/email/send", otpHandler.SendEmail)
	otpGroup.Post("/email/verify", otpHandler.VerifyEmail)
	otpGroup.Post("/phone/send", otpHandler.SendPhone)
	otpGroup.Post("/phone/verify", otpHandler.VerifyPhone)
	otpGroup.Get("/twilio-voice", otpHandler.TwilioVoice)
	otpGroup.Post("/twilio-voice", otpHandler.TwilioVoice)

	dashboard := app.Group("/dashboard", middleware.AuthMiddleware(db, cfg))
	dashboard.Get("/student", middleware.RequireRole(models.RoleStudent), dashboardHandler.Student)
	dashboard.Get("/teacher", middleware.RequireRole(models.RoleTeacher), dashboardHandler.Teacher)
}
