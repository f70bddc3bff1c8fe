package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/PrayerWall/models"
)

var approvalTokenColumns = []string{
	"approval_token_id", "token", "target_type", "target_id",
	"expires_at", "used", "attempts", "created_by", "created_at",
}

func approvalTokenRow(targetType string, used bool, attempts int, expiresAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(approvalTokenColumns).
		AddRow(1, "test-token", targetType, 1, expiresAt, used, attempts, 1, time.Now())
}

func TestGetApprovalItem(t *testing.T) {
	tests := []struct {
		name           string
		tokenExists    bool
		used           bool
		attempts       int
		expiresAt      time.Time
		expectedStatus int
	}{
		{
			name:           "valid link shows pending request",
			tokenExists:    true,
			expiresAt:      time.Now().Add(time.Hour),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown token",
			tokenExists:    false,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "already used",
			tokenExists:    true,
			used:           true,
			expiresAt:      time.Now().Add(time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired link",
			tokenExists:    true,
			expiresAt:      time.Now().Add(-time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "too many attempts",
			tokenExists:    true,
			attempts:       5,
			expiresAt:      time.Now().Add(time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			tokenRows := sqlmock.NewRows(approvalTokenColumns)
			if tt.tokenExists {
				tokenRows = approvalTokenRow(models.ApprovalTargetRequest, tt.used, tt.attempts, tt.expiresAt)
			}
			mock.ExpectQuery("SELECT").WillReturnRows(tokenRows)

			if tt.expectedStatus == http.StatusOK {
				// attempts bump, then the target fetch
				mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))

				requestRows := sqlmock.NewRows(prayerRequestColumns)
				prayerRequestRow(requestRows, MockPrayerRequest())
				mock.ExpectQuery("SELECT").WillReturnRows(requestRows)
			}

			c, w := SetupTestContext()
			c.Params = []gin.Param{{Key: "token", Value: "test-token"}}
			c.Request = httptest.NewRequest("GET", "/approvals/test-token", nil)

			GetApprovalItem(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestActOnApprovalLink(t *testing.T) {
	tests := []struct {
		name           string
		action         string
		expectedStatus int
	}{
		{name: "approve through link", action: "approve", expectedStatus: http.StatusOK},
		{name: "deny through link", action: "deny", expectedStatus: http.StatusOK},
		{name: "unknown action", action: "defer", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			tokenRows := approvalTokenRow(models.ApprovalTargetRequest, false, 0, time.Now().Add(time.Hour))
			mock.ExpectQuery("SELECT").WillReturnRows(tokenRows)
			mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))

			if tt.expectedStatus == http.StatusOK {
				requestRows := sqlmock.NewRows(prayerRequestColumns)
				prayerRequestRow(requestRows, MockPrayerRequest())
				mock.ExpectQuery("SELECT").WillReturnRows(requestRows)

				// the transition itself, then the token consume
				mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))
			}

			c, w := SetupTestContext()
			c.Params = []gin.Param{{Key: "token", Value: "test-token"}}

			bodyBytes, _ := json.Marshal(map[string]string{
				"action": tt.action,
				"reason": "Handled from the email link",
			})
			c.Request = httptest.NewRequest("POST", "/approvals/test-token", bytes.NewReader(bodyBytes))
			c.Request.Header.Set("Content-Type", "application/json")

			ActOnApprovalLink(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestApprovalLinkConsumedOnlyOnSuccess(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	tokenRows := approvalTokenRow(models.ApprovalTargetRequest, false, 0, time.Now().Add(time.Hour))
	mock.ExpectQuery("SELECT").WillReturnRows(tokenRows)
	mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))

	// target request was already reviewed, so the action conflicts
	requestRows := sqlmock.NewRows(prayerRequestColumns)
	prayerRequestRow(requestRows, MockApprovedPrayerRequest())
	mock.ExpectQuery("SELECT").WillReturnRows(requestRows)

	c, w := SetupTestContext()
	c.Params = []gin.Param{{Key: "token", Value: "test-token"}}

	bodyBytes, _ := json.Marshal(map[string]string{"action": "approve"})
	c.Request = httptest.NewRequest("POST", "/approvals/test-token", bytes.NewReader(bodyBytes))
	c.Request.Header.Set("Content-Type", "application/json")

	ActOnApprovalLink(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
