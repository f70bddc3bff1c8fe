package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/models"
	"github.com/PrayerWall/services"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

// SendVerificationCode emails a 6-digit code so a member can prove they
// own the address on a prayer request before asking for changes to it.
// Always responds OK so callers can't probe which emails are known.
func SendVerificationCode(c *gin.Context) {
	var req models.SendVerificationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email address is required", "details": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	code, err := generate6DigitCode()
	if err != nil {
		log.Printf("Failed to generate verification code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate verification code"})
		return
	}

	verificationCode := models.VerificationCode{
		Email:      email,
		Code:       code,
		Expires_At: time.Now().Add(15 * time.Minute),
		Used:       false,
		Attempts:   0,
	}

	insert := initializers.DB.Insert("verification_code").Rows(verificationCode).Executor()
	if _, err := insert.Exec(); err != nil {
		log.Printf("Failed to store verification code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process verification request"})
		return
	}

	emailService := services.GetEmailService()
	if emailService == nil {
		log.Println("Email service not initialized")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Email service unavailable"})
		return
	}

	if err := emailService.SendVerificationCodeEmail(email, code); err != nil {
		log.Printf("Failed to send verification email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	log.Printf("Verification code sent to %s", email)

	c.JSON(http.StatusOK, gin.H{
		"message": "A verification code has been sent to this email address.",
	})
}

// CheckVerificationCode exchanges a valid email+code pair for a
// short-lived temp token accepted by the moderation-request endpoints.
func CheckVerificationCode(c *gin.Context) {
	var req models.CheckVerificationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and 6-digit code are required", "details": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var verificationCode models.VerificationCode
	found, err := initializers.DB.From("verification_code").
		Select("*").
		Where(goqu.And(
			goqu.C("email").Eq(email),
			goqu.C("code").Eq(req.Code),
			goqu.C("used").Eq(false),
			goqu.C("expires_at").Gt(time.Now()),
		)).
		Order(goqu.C("created_at").Desc()).
		ScanStruct(&verificationCode)

	if err != nil || !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired verification code"})
		return
	}

	if verificationCode.Attempts >= 3 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Maximum verification attempts exceeded. Please request a new code.",
		})
		return
	}

	// Single use: consume the code on successful exchange
	consume := initializers.DB.Update("verification_code").
		Set(goqu.Record{"used": true, "attempts": verificationCode.Attempts + 1}).
		Where(goqu.C("verification_code_id").Eq(verificationCode.Verification_Code_ID)).
		Executor()

	if _, err := consume.Exec(); err != nil {
		log.Printf("Failed to consume verification code: %v", err)
	}

	tempToken := createTempToken(email)

	log.Printf("Verification code accepted for %s", email)

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification code is valid",
		"token":   tempToken,
	})
}

// Helper function to generate a cryptographically secure 6-digit code
func generate6DigitCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	code := fmt.Sprintf("%06d", n.Int64())
	return code, nil
}

// createTempToken encodes the verified email and a timestamp. Token
// format: base64(email:unix-seconds), valid for 5 minutes.
func createTempToken(email string) string {
	tokenData := fmt.Sprintf("%s:%d", email, time.Now().Unix())
	return base64.URLEncoding.EncodeToString([]byte(tokenData))
}

// validateTempToken returns the verified email behind a temp token, or
// ok=false when the token is malformed or older than 5 minutes.
func validateTempToken(token string) (string, bool) {
	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", false
	}

	parts := strings.Split(string(decoded), ":")
	if len(parts) != 2 {
		return "", false
	}

	var timestamp int64
	if _, err := fmt.Sscanf(parts[1], "%d", &timestamp); err != nil {
		return "", false
	}

	tokenTime := time.Unix(timestamp, 0)
	if time.Since(tokenTime) > 5*time.Minute {
		return "", false
	}

	return parts[0], true
}
