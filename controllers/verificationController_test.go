package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var verificationCodeColumns = []string{
	"verification_code_id", "email", "code", "expires_at", "used", "attempts", "created_at",
}

func TestCheckVerificationCode(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		codeExists     bool
		attempts       int
		expectedStatus int
		expectToken    bool
	}{
		{
			name:           "valid code returns temp token",
			body:           map[string]string{"email": "jane@example.com", "code": "123456"},
			codeExists:     true,
			expectedStatus: http.StatusOK,
			expectToken:    true,
		},
		{
			name:           "unknown or expired code",
			body:           map[string]string{"email": "jane@example.com", "code": "654321"},
			codeExists:     false,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "too many attempts",
			body:           map[string]string{"email": "jane@example.com", "code": "123456"},
			codeExists:     true,
			attempts:       3,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "code wrong length",
			body:           map[string]string{"email": "jane@example.com", "code": "12"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing email",
			body:           map[string]string{"code": "123456"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			if tt.expectedStatus != http.StatusBadRequest {
				rows := sqlmock.NewRows(verificationCodeColumns)
				if tt.codeExists {
					rows.AddRow(1, tt.body["email"], tt.body["code"],
						time.Now().Add(10*time.Minute), false, tt.attempts, time.Now())
				}
				mock.ExpectQuery("SELECT").WillReturnRows(rows)

				if tt.codeExists && tt.attempts < 3 {
					mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))
				}
			}

			c, w := SetupTestContext()
			bodyBytes, _ := json.Marshal(tt.body)
			c.Request = httptest.NewRequest("POST", "/verification/check", bytes.NewReader(bodyBytes))
			c.Request.Header.Set("Content-Type", "application/json")

			CheckVerificationCode(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectToken {
				var response map[string]interface{}
				_ = json.Unmarshal(w.Body.Bytes(), &response)
				assert.NotEmpty(t, response["token"])
			}
		})
	}
}

func TestGenerate6DigitCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generate6DigitCode()
		assert.NoError(t, err)
		assert.Len(t, code, 6)
		for _, ch := range code {
			assert.True(t, ch >= '0' && ch <= '9')
		}
	}
}

func TestTempTokenRoundTrip(t *testing.T) {
	token := createTempToken("jane@example.com")

	email, ok := validateTempToken(token)
	assert.True(t, ok)
	assert.Equal(t, "jane@example.com", email)
}

func TestValidateTempTokenRejectsGarbage(t *testing.T) {
	_, ok := validateTempToken("not-base64!!!")
	assert.False(t, ok)

	_, ok = validateTempToken("aGVsbG8=") // decodes but has no timestamp
	assert.False(t, ok)
}
