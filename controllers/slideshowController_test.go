package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/PrayerWall/models"
)

func TestGetSlideshow(t *testing.T) {
	publicColumns := []string{
		"prayer_request_id", "requester_name", "title", "request_description",
		"category", "is_anonymous", "prayer_status", "datetime_create",
	}
	publicUpdateColumns := []string{
		"prayer_update_id", "prayer_request_id", "update_description", "datetime_create",
	}

	tests := []struct {
		name           string
		mode           string
		anonymous      bool
		hasUpdate      bool
		expectedStatus int
	}{
		{name: "desktop feed with latest update", mode: "desktop", hasUpdate: true, expectedStatus: http.StatusOK},
		{name: "mobile feed", mode: "mobile", expectedStatus: http.StatusOK},
		{name: "anonymous request is masked", mode: "desktop", anonymous: true, expectedStatus: http.StatusOK},
		{name: "unknown mode", mode: "kiosk", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			if tt.expectedStatus == http.StatusOK {
				requestRows := sqlmock.NewRows(publicColumns).
					AddRow(1, "Jane Member", "Healing", "Please pray.", "health",
						tt.anonymous, models.PrayerStatusActive, time.Now())
				mock.ExpectQuery("SELECT").WillReturnRows(requestRows)

				updateRows := sqlmock.NewRows(publicUpdateColumns)
				if tt.hasUpdate {
					updateRows.AddRow(1, 1, "She is out of surgery.", time.Now())
				}
				mock.ExpectQuery("SELECT").WillReturnRows(updateRows)
			}

			c, w := SetupTestContext()
			c.Request = httptest.NewRequest("GET", "/slideshow?mode="+tt.mode, nil)

			GetSlideshow(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)
			assert.Equal(t, tt.mode, response["mode"])

			slides := response["slides"].([]interface{})
			assert.Len(t, slides, 1)

			slide := slides[0].(map[string]interface{})
			request := slide["request"].(map[string]interface{})
			if tt.anonymous {
				assert.Equal(t, "A church member", request["requesterName"])
			}
			if tt.hasUpdate {
				assert.NotNil(t, slide["latestUpdate"])
			} else {
				assert.Nil(t, slide["latestUpdate"])
			}
		})
	}
}
