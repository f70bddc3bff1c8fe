package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/models"
	"github.com/PrayerWall/services"
	"github.com/doug-martin/goqu/v9"
)

func GetBackupLogs(c *gin.Context) {
	var logs []models.BackupLog
	err := initializers.DB.From("backup_log").
		Select("*").
		Order(goqu.C("datetime_create").Desc()).
		ScanStructs(&logs)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch backup logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"backups": logs})
}

// RunBackup triggers an immediate snapshot outside the nightly schedule.
func RunBackup(c *gin.Context) {
	backup, err := services.RunBackupSnapshot(models.BackupTypeManual)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Backup failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Backup completed successfully.", "backup": backup})
}
