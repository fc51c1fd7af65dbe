package auth

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/example/abhyaas/internal/config"
	"github.com/example/abhyaas/internal/models"
	"github.com/example/abhyaas/internal/utils"
)

// Password bounds enforced at the boundary. The hasher itself accepts any
// length; the cap mirrors bcrypt's raw input window.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// Mailer delivers a one-time code to an email address.
type Mailer interface {
	SendOTP(toEmail, code string) error
}

// VoiceCaller places an automated call that fetches its voice script from
// the given webhook URL.
type VoiceCaller interface {
	CallOTP(toPhone, scriptURL string) error
}

// Service orchestrates signup, OTP verification, login, token refresh,
// logout, and password reset.
type Service struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer Mailer
	caller VoiceCaller
}

// NewService constructs an auth Service.
func NewService(db *gorm.DB, cfg *config.Config, mailer Mailer, caller VoiceCaller) *Service {
	return &Service{db: db, cfg: cfg, mailer: mailer, caller: caller}
}

// LoginResult carries the credentials issued on successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Role         string
}

// SignupEmail registers a user whose login identifier is an email
// address. No token is issued; the caller must trigger OTP verification.
func (s *Service) SignupEmail(name, email, password, role, adminCode string) error {
	role, err := s.validateSignup(password, role, adminCode)
	if err != nil {
		return err
	}

	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return validationError("Email already registered")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	return s.createUser(name, &email, nil, password, role)
}

// SignupPhone registers a user whose login identifier is a phone number.
func (s *Service) SignupPhone(name, phone, password, role, adminCode string) error {
	role, err := s.validateSignup(password, role, adminCode)
	if err != nil {
		return err
	}

	phone = utils.NormalizePhone(phone)
	if !utils.IsValidPhone(phone) {
		return validationError("Invalid phone number")
	}

	var existing models.User
	if err := s.db.Where("phone = ?", phone).First(&existing).Error; err == nil {
		return validationError("Phone already registered")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	return s.createUser(name, nil, &phone, password, role)
}

func (s *Service) validateSignup(password, role, adminCode string) (string, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role != models.RoleStudent && role != models.RoleTeacher {
		return "", validationError("Invalid role")
	}

	if err := validatePasswordLength(password); err != nil {
		return "", err
	}

	if role == models.RoleTeacher && adminCode != s.cfg.AdminTeacherCode {
		return "", forbiddenError("Invalid admin code")
	}

	return role, nil
}

func (s *Service) createUser(name string, email, phone *string, password, role string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         role,
	}

	return s.db.Create(&user).Error
}

// SendEmailOTP records a fresh code and dispatches it by mail. The row is
// committed before the dispatch; mail delivery is not transactional.
func (s *Service) SendEmailOTP(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.findByEmail(email)
	if err != nil {
		return err
	}

	code, err := GenerateOTP()
	if err != nil {
		return err
	}

	if err := recordOTP(s.db, user.ID, ChannelEmail, code); err != nil {
		return err
	}

	if err := s.mailer.SendOTP(email, code); err != nil {
		log.Printf("email OTP dispatch failed: %v", err)
		return dependencyError("Failed to send OTP email")
	}

	return nil
}

// VerifyEmailOTP checks the submitted code and marks the email verified.
func (s *Service) VerifyEmailOTP(email, otp string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.findByEmail(email)
	if err != nil {
		return err
	}

	if err := s.verifyOTP(user, ChannelEmail, otp); err != nil {
		return err
	}

	return s.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("is_email_verified", true).Error
}

// SendPhoneOTP records a fresh code and places the voice call. Requires
// PublicBaseURL so the telephony provider can fetch the call script.
func (s *Service) SendPhoneOTP(phone string) error {
	phone = utils.NormalizePhone(phone)
	if !utils.IsValidPhone(phone) {
		return validationError("Invalid phone")
	}

	user, err := s.findByPhone(phone)
	if err != nil {
		return err
	}

	code, err := GenerateOTP()
	if err != nil {
		return err
	}

	if err := recordOTP(s.db, user.ID, ChannelPhone, code); err != nil {
		return err
	}

	if s.cfg.PublicBaseURL == "" {
		return dependencyError("PUBLIC_BASE_URL missing (required for voice webhook)")
	}

	scriptURL := fmt.Sprintf("%s/otp/twilio-voice?otp=%s", strings.TrimRight(s.cfg.PublicBaseURL, "/"), code)
	if err := s.caller.CallOTP(phone, scriptURL); err != nil {
		log.Printf("voice OTP dispatch failed: %v", err)
		return dependencyError("Voice call failed")
	}

	return nil
}

// VerifyPhoneOTP checks the submitted code and marks the phone verified.
func (s *Service) VerifyPhoneOTP(phone, otp string) error {
	phone = utils.NormalizePhone(phone)

	user, err := s.findByPhone(phone)
	if err != nil {
		return err
	}

	if err := s.verifyOTP(user, ChannelPhone, otp); err != nil {
		return err
	}

	return s.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("is_phone_verified", true).Error
}

func (s *Service) verifyOTP(user *models.User, channel, otp string) error {
	result, err := checkOTP(s.db, user.ID, channel, otp)
	if err != nil {
		return err
	}

	switch result {
	case OTPNotFound:
		return validationError("OTP not found")
	case OTPExpired:
		return validationError("OTP expired")
	case OTPMismatch:
		return validationError("Invalid OTP")
	}

	return nil
}

// Login resolves the identifier (email when it contains "@", phone
// otherwise), requires the matching channel to be verified, and issues
// one access token plus one persisted refresh token.
func (s *Service) Login(identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)

	var user models.User
	if strings.Contains(identifier, "@") {
		err := s.db.Where("email = ?", strings.ToLower(identifier)).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, unauthorizedError("Invalid credentials")
			}
			return nil, err
		}
		if !user.IsEmailVerified {
			return nil, forbiddenError("Email not verified")
		}
	} else {
		phone := utils.NormalizePhone(identifier)
		err := s.db.Where("phone = ?", phone).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, unauthorizedError("Invalid credentials")
			}
			return nil, err
		}
		if !user.IsPhoneVerified {
			return nil, forbiddenError("Phone not verified")
		}
	}

	if len(password) > MaxPasswordLength {
		return nil, validationError("Password too long (max 72 characters)")
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, unauthorizedError("Invalid credentials")
	}

	accessToken, err := utils.GenerateAccessToken(s.cfg.JWTSecret, user.ID, user.Role, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	row := models.RefreshToken{UserID: user.ID, Token: refreshToken}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		Role:         user.Role,
	}, nil
}

// Refresh exchanges a non-revoked refresh token for a new access token.
// The refresh token itself is not rotated.
func (s *Service) Refresh(refreshToken string) (string, error) {
	var row models.RefreshToken
	err := s.db.Where("token = ? AND is_revoked = ?", refreshToken, false).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", unauthorizedError("Invalid refresh token")
		}
		return "", err
	}

	var user models.User
	if err := s.db.Where("id = ?", row.UserID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", unauthorizedError("User not found")
		}
		return "", err
	}

	return utils.GenerateAccessToken(s.cfg.JWTSecret, user.ID, user.Role, s.cfg.AccessTokenTTL)
}

// Logout revokes the refresh token. An unknown token succeeds anyway so
// the response never confirms token validity.
func (s *Service) Logout(refreshToken string) error {
	var row models.RefreshToken
	err := s.db.Where("token = ?", refreshToken).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	row.IsRevoked = true
	return s.db.Save(&row).Error
}

// ResetPassword replaces the password hash after checking the most recent
// OTP on the channel the identifier implies. It neither requires prior
// verification nor revokes outstanding refresh tokens, matching the
// documented reset semantics.
func (s *Service) ResetPassword(identifier, otp, newPassword string) error {
	identifier = strings.TrimSpace(identifier)

	if err := validatePasswordLength(newPassword); err != nil {
		return err
	}

	var user *models.User
	var channel string
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.findByEmail(strings.ToLower(identifier))
		channel = ChannelEmail
	} else {
		user, err = s.findByPhone(utils.NormalizePhone(identifier))
		channel = ChannelPhone
	}
	if err != nil {
		return err
	}

	if err := s.verifyOTP(user, channel, otp); err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("password_hash", hash).Error
}

func (s *Service) findByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundError("User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) findByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundError("User not found")
		}
		return nil, err
	}
	return &user, nil
}

func validatePasswordLength(password string) error {
	if len(password) < MinPasswordLength {
		return validationError("Password must be at least 6 characters")
	}
	if len(password) > MaxPasswordLength {
		return validationError("Password too long (max 72 characters)")
	}
	return nil
}
