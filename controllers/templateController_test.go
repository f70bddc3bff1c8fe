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

var emailTemplateColumns = []string{
	"email_template_id", "template_key", "subject", "html_body", "text_body",
	"updated_by", "datetime_create", "datetime_update",
}

func TestGetEmailTemplate(t *testing.T) {
	tests := []struct {
		name           string
		key            string
		hasCustomRow   bool
		expectedStatus int
	}{
		{name: "custom template returned", key: models.TemplateRequestApproved, hasCustomRow: true, expectedStatus: http.StatusOK},
		{name: "built-in fallback reported", key: models.TemplateRequestDenied, hasCustomRow: false, expectedStatus: http.StatusOK},
		{name: "unknown key", key: "welcome_wagon", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			if tt.expectedStatus == http.StatusOK {
				rows := sqlmock.NewRows(emailTemplateColumns)
				if tt.hasCustomRow {
					now := time.Now()
					rows.AddRow(1, tt.key, "Your request was approved", "<p>Approved</p>", "Approved", 1, now, now)
				}
				mock.ExpectQuery("SELECT").WillReturnRows(rows)
			}

			c, w := SetupTestContext()
			SetAuthenticatedAdmin(c, MockAdmin())
			c.Params = []gin.Param{{Key: "template_key", Value: tt.key}}
			c.Request = httptest.NewRequest("GET", "/admin/templates/"+tt.key, nil)

			GetEmailTemplate(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var response map[string]interface{}
				_ = json.Unmarshal(w.Body.Bytes(), &response)
				if tt.hasCustomRow {
					assert.NotNil(t, response["template"])
				} else {
					assert.Nil(t, response["template"])
				}
			}
		})
	}
}

func TestUpdateEmailTemplate(t *testing.T) {
	tests := []struct {
		name           string
		key            string
		body           map[string]string
		rowExists      bool
		expectedStatus int
	}{
		{
			name: "update existing custom template",
			key:  models.TemplateRequestApproved,
			body: map[string]string{
				"subject":  "Your prayer request is live",
				"htmlBody": "<p>It is on the wall now.</p>",
				"textBody": "It is on the wall now.",
			},
			rowExists:      true,
			expectedStatus: http.StatusOK,
		},
		{
			name: "create first custom template",
			key:  models.TemplateBulkAnnounce,
			body: map[string]string{
				"subject":  "News from the prayer team",
				"htmlBody": "<p>{{.Body}}</p>",
			},
			rowExists:      false,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing subject",
			key:            models.TemplateRequestApproved,
			body:           map[string]string{"htmlBody": "<p>body only</p>"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown key",
			key:            "welcome_wagon",
			body:           map[string]string{"subject": "s", "htmlBody": "b"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			if tt.expectedStatus == http.StatusOK {
				idRows := sqlmock.NewRows([]string{"email_template_id"})
				if tt.rowExists {
					idRows.AddRow(1)
				}
				mock.ExpectQuery("SELECT").WillReturnRows(idRows)

				if tt.rowExists {
					mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))
				} else {
					mock.ExpectExec("INSERT").WillReturnResult(sqlmock.NewResult(1, 1))
				}
			}

			c, w := SetupTestContext()
			SetAuthenticatedAdmin(c, MockAdmin())
			c.Params = []gin.Param{{Key: "template_key", Value: tt.key}}

			bodyBytes, _ := json.Marshal(tt.body)
			c.Request = httptest.NewRequest("PUT", "/admin/templates/"+tt.key, bytes.NewReader(bodyBytes))
			c.Request.Header.Set("Content-Type", "application/json")

			UpdateEmailTemplate(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestPreviewEmailTemplate(t *testing.T) {
	t.Run("renders stored template with sample data", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		now := time.Now()
		rows := sqlmock.NewRows(emailTemplateColumns).
			AddRow(1, models.TemplateRequestApproved, "Approved: {{.Title}}",
				"<p>Dear {{.Name}}, your request is live.</p>", "Dear {{.Name}}", 1, now, now)
		mock.ExpectQuery("SELECT").WillReturnRows(rows)

		c, w := SetupTestContext()
		SetAuthenticatedAdmin(c, MockAdmin())
		c.Params = []gin.Param{{Key: "template_key", Value: models.TemplateRequestApproved}}
		c.Request = httptest.NewRequest("GET", "/admin/templates/"+models.TemplateRequestApproved+"/preview", nil)

		PreviewEmailTemplate(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		_ = json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, "Approved: Healing for my mother", response["subject"])
		assert.Contains(t, response["html"], "Dear Jane")
	})

	t.Run("unknown key", func(t *testing.T) {
		_, _, cleanup := SetupTestDB(t)
		defer cleanup()

		c, w := SetupTestContext()
		SetAuthenticatedAdmin(c, MockAdmin())
		c.Params = []gin.Param{{Key: "template_key", Value: "welcome_wagon"}}
		c.Request = httptest.NewRequest("GET", "/admin/templates/welcome_wagon/preview", nil)

		PreviewEmailTemplate(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
