package models

import "time"

type VerificationCode struct {
	Verification_Code_ID int       `json:"verificationCodeId" db:"verification_code_id" goqu:"skipinsert"`
	Email                string    `json:"email" db:"email"`
	Code                 string    `json:"code" db:"code"`
	Expires_At           time.Time `json:"expiresAt" db:"expires_at"`
	Used                 bool      `json:"used" db:"used"`
	Attempts             int       `json:"attempts" db:"attempts"`
	Created_At           time.Time `json:"createdAt" db:"created_at" goqu:"skipinsert"`
}

type SendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CheckVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}
