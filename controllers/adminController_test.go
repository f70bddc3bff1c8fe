package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/PrayerWall/models"
)

var adminUserColumns = []string{
	"admin_user_id", "username", "password", "email", "first_name", "last_name",
	"is_super_admin", "created_by", "datetime_create", "updated_by",
	"datetime_update", "deleted",
}

func adminUserRow(rows *sqlmock.Rows, admin models.AdminUser) *sqlmock.Rows {
	return rows.AddRow(
		admin.Admin_User_ID, admin.Username, admin.Password, admin.Email,
		admin.First_Name, admin.Last_Name, admin.Is_Super_Admin,
		admin.Created_By, admin.Datetime_Create, admin.Updated_By,
		admin.Datetime_Update, admin.Deleted,
	)
}

func TestAdminLogin(t *testing.T) {
	os.Setenv("SECRET", "test-secret")
	defer os.Unsetenv("SECRET")

	tests := []struct {
		name           string
		body           map[string]string
		adminExists    bool
		expectedStatus int
		expectToken    bool
	}{
		{
			name:           "successful login",
			body:           map[string]string{"username": "testadmin", "password": "password123"},
			adminExists:    true,
			expectedStatus: http.StatusOK,
			expectToken:    true,
		},
		{
			name:           "wrong password",
			body:           map[string]string{"username": "testadmin", "password": "wrongpassword"},
			adminExists:    true,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown username",
			body:           map[string]string{"username": "ghost", "password": "password123"},
			adminExists:    false,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing password",
			body:           map[string]string{"username": "testadmin"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			if tt.expectedStatus != http.StatusBadRequest {
				rows := sqlmock.NewRows(adminUserColumns)
				if tt.adminExists {
					adminUserRow(rows, MockAdminWithPassword())
				}
				mock.ExpectQuery("SELECT").WillReturnRows(rows)
			}

			c, w := SetupTestContext()
			bodyBytes, _ := json.Marshal(tt.body)
			c.Request = httptest.NewRequest("POST", "/admin/login", bytes.NewReader(bodyBytes))
			c.Request.Header.Set("Content-Type", "application/json")

			AdminLogin(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectToken {
				var response map[string]interface{}
				_ = json.Unmarshal(w.Body.Bytes(), &response)
				assert.NotEmpty(t, response["token"])
				// the password hash must never appear in the response
				admin := response["admin"].(map[string]interface{})
				_, hasPassword := admin["password"]
				assert.False(t, hasPassword)
			}
		})
	}
}

func TestChangeAdminPassword(t *testing.T) {
	tests := []struct {
		name           string
		oldPassword    string
		newPassword    string
		expectedStatus int
	}{
		{
			name:           "successful change",
			oldPassword:    "password123",
			newPassword:    "newpassword456",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong current password",
			oldPassword:    "wrongpassword",
			newPassword:    "newpassword456",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "new password too short",
			oldPassword:    "password123",
			newPassword:    "short",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			if tt.expectedStatus == http.StatusOK {
				mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))
			}

			c, w := SetupTestContext()
			SetAuthenticatedAdmin(c, MockAdminWithPassword())

			bodyBytes, _ := json.Marshal(map[string]string{
				"oldPassword": tt.oldPassword,
				"newPassword": tt.newPassword,
			})
			c.Request = httptest.NewRequest("PATCH", "/admin/me/password", bytes.NewReader(bodyBytes))
			c.Request.Header.Set("Content-Type", "application/json")

			ChangeAdminPassword(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAdminSignup(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		usernameTaken  bool
		expectedStatus int
	}{
		{
			name: "successful signup",
			body: map[string]interface{}{
				"username": "newadmin",
				"password": "password123",
				"email":    "newadmin@example.com",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "username already exists",
			body: map[string]interface{}{
				"username": "testadmin",
				"password": "password123",
				"email":    "dup@example.com",
			},
			usernameTaken:  true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			body: map[string]interface{}{
				"username": "newadmin",
				"password": "short",
				"email":    "newadmin@example.com",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			if password, _ := tt.body["password"].(string); len(password) >= 8 {
				count := 0
				if tt.usernameTaken {
					count = 1
				}
				countRows := sqlmock.NewRows([]string{"count"}).AddRow(count)
				mock.ExpectQuery("SELECT").WillReturnRows(countRows)

				if !tt.usernameTaken {
					mock.ExpectExec("INSERT").WillReturnResult(sqlmock.NewResult(1, 1))
				}
			}

			c, w := SetupTestContext()
			SetAuthenticatedAdmin(c, MockSuperAdmin())

			bodyBytes, _ := json.Marshal(tt.body)
			c.Request = httptest.NewRequest("POST", "/admin/users", bytes.NewReader(bodyBytes))
			c.Request.Header.Set("Content-Type", "application/json")

			AdminSignup(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestDeleteAdminUser(t *testing.T) {
	tests := []struct {
		name           string
		adminID        string
		rowsAffected   int64
		expectedStatus int
	}{
		{name: "delete another admin", adminID: "5", rowsAffected: 1, expectedStatus: http.StatusOK},
		{name: "cannot delete own account", adminID: "2", expectedStatus: http.StatusBadRequest},
		{name: "admin not found", adminID: "999", rowsAffected: 0, expectedStatus: http.StatusNotFound},
		{name: "invalid admin ID", adminID: "invalid", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			if tt.adminID != "invalid" && tt.adminID != "2" {
				mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			}

			c, w := SetupTestContext()
			SetAuthenticatedAdmin(c, MockSuperAdmin())
			c.Params = []gin.Param{{Key: "admin_user_id", Value: tt.adminID}}
			c.Request = httptest.NewRequest("DELETE", "/admin/users/"+tt.adminID, nil)

			DeleteAdminUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
