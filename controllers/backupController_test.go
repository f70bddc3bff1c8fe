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

var backupLogColumns = []string{
	"backup_log_id", "backup_type", "backup_status", "request_count",
	"update_count", "subscriber_count", "error_message", "datetime_create",
}

func TestGetBackupLogs(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	rows := sqlmock.NewRows(backupLogColumns).
		AddRow(2, models.BackupTypeManual, models.BackupStatusCompleted, 12, 4, 30, nil, time.Now()).
		AddRow(1, models.BackupTypeScheduled, models.BackupStatusCompleted, 10, 3, 28, nil, time.Now().Add(-24*time.Hour))
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	c, w := SetupTestContext()
	SetAuthenticatedAdmin(c, MockAdmin())
	c.Request = httptest.NewRequest("GET", "/admin/backups", nil)

	GetBackupLogs(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	backups := response["backups"].([]interface{})
	assert.Len(t, backups, 2)
}

func TestRunBackup(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	// three entity counts, then the log insert
	for _, count := range []int{12, 4, 30} {
		countRows := sqlmock.NewRows([]string{"count"}).AddRow(count)
		mock.ExpectQuery("SELECT").WillReturnRows(countRows)
	}
	mock.ExpectExec("INSERT").WillReturnResult(sqlmock.NewResult(1, 1))

	c, w := SetupTestContext()
	SetAuthenticatedAdmin(c, MockAdmin())
	c.Request = httptest.NewRequest("POST", "/admin/backups", nil)

	RunBackup(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	backup := response["backup"].(map[string]interface{})
	assert.Equal(t, models.BackupTypeManual, backup["backupType"])
	assert.Equal(t, float64(12), backup["requestCount"])
}
