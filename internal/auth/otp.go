package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/abhyaas/internal/models"
)

// Delivery channels for one-time codes.
const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

// otpTTL is the freshness window measured from the row's creation time.
const otpTTL = 5 * time.Minute

// OTPResult is the outcome of checking a submitted code.
type OTPResult int

const (
	// OTPOk means the most recent code is fresh and matches exactly.
	OTPOk OTPResult = iota
	// OTPNotFound means no code was ever recorded for (user, channel).
	OTPNotFound
	// OTPExpired means the most recent code is older than the window.
	OTPExpired
	// OTPMismatch means the most recent code is fresh but differs.
	OTPMismatch
)

// GenerateOTP returns a zero-padded 6-digit numeric code.
func GenerateOTP() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// recordOTP persists a new code row. Earlier codes for the same user and
// channel are left in place; verification is most-recent-wins.
func recordOTP(db *gorm.DB, userID uuid.UUID, channel, code string) error {
	return db.Create(&models.OTPCode{
		UserID:  userID,
		Channel: channel,
		Code:    code,
	}).Error
}

// checkOTP compares the submission against the most recently created code
// for (user, channel). It has no side effects; flipping the verification
// flag is the caller's job.
func checkOTP(db *gorm.DB, userID uuid.UUID, channel, submitted string) (OTPResult, error) {
	var row models.OTPCode
	err := db.Where("user_id = ? AND channel = ?", userID, channel).
		Order("created_at desc").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return OTPNotFound, nil
		}
		return OTPNotFound, err
	}

	if time.Now().UTC().Sub(row.CreatedAt.UTC()) > otpTTL {
		return OTPExpired, nil
	}

	if row.Code != submitted {
		return OTPMismatch, nil
	}

	return OTPOk, nil
}
