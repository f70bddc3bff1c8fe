package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/models"
	"github.com/PrayerWall/services"
	"github.com/doug-martin/goqu/v9"
)

// SubmitPrayerUpdate accepts a public update to an approved request.
// Stored pending like the parent request was.
func SubmitPrayerUpdate(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("prayer_request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer request ID", "details": err.Error()})
		return
	}

	var submission models.PrayerUpdateCreate
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	var parent models.PrayerRequest
	found, err := initializers.DB.From("prayer_request").
		Select("*").
		Where(
			goqu.C("prayer_request_id").Eq(requestID),
			goqu.C("status").Eq(models.StatusApproved),
			goqu.C("deleted").Eq(false),
		).
		ScanStruct(&parent)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer request", "details": err.Error()})
		return
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prayer request not found"})
		return
	}

	newUpdate := models.PrayerUpdate{
		Prayer_Request_ID:  requestID,
		Update_Description: submission.Update_Description,
		Submitter_Email:    submission.Submitter_Email,
		Status:             models.StatusPending,
	}

	insert := initializers.DB.Insert("prayer_update").Rows(newUpdate).Returning("prayer_update_id")

	var insertedID int
	if _, err := insert.Executor().ScanVal(&insertedID); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit prayer update", "details": err.Error()})
		return
	}

	go services.NotifyAdminsOfPending(models.ApprovalTargetUpdate, insertedID, "prayer update", parent.Title)

	c.JSON(http.StatusOK, gin.H{
		"message":        "Prayer update submitted. It will appear once approved.",
		"prayerUpdateId": insertedID,
	})
}

// GetApprovedUpdates lists the approved updates of an approved request.
func GetApprovedUpdates(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("prayer_request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer request ID", "details": err.Error()})
		return
	}

	var updates []models.PublicPrayerUpdate
	err = initializers.DB.From("prayer_update").
		Select("prayer_update_id", "prayer_request_id", "update_description", "datetime_create").
		Where(
			goqu.C("prayer_request_id").Eq(requestID),
			goqu.C("status").Eq(models.StatusApproved),
			goqu.C("deleted").Eq(false),
		).
		Order(goqu.C("datetime_create").Asc()).
		ScanStructs(&updates)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer updates", "details": err.Error()})
		return
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No updates found.", "updates": []models.PublicPrayerUpdate{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updates": updates})
}

// GetUpdates is the admin listing, filterable by moderation status.
func GetUpdates(c *gin.Context) {
	conditions := []goqu.Expression{goqu.C("deleted").Eq(false)}

	status := c.DefaultQuery("status", models.StatusPending)
	if status != "all" {
		if status != models.StatusPending && status != models.StatusApproved && status != models.StatusDenied {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		conditions = append(conditions, goqu.C("status").Eq(status))
	}

	var updates []models.PrayerUpdate
	err := initializers.DB.From("prayer_update").
		Select("*").
		Where(conditions...).
		Order(goqu.C("datetime_create").Desc()).
		ScanStructs(&updates)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer updates", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Prayer updates retrieved successfully.",
		"updates": updates,
	})
}

// approvePrayerUpdateByID performs the pending -> approved transition for
// an update. Shared by the portal and approval-link handlers.
func approvePrayerUpdateByID(updateID int, adminID int) (int, gin.H) {
	var existing models.PrayerUpdate
	found, err := initializers.DB.From("prayer_update").
		Select("*").
		Where(goqu.C("prayer_update_id").Eq(updateID), goqu.C("deleted").Eq(false)).
		ScanStruct(&existing)

	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer update", "details": err.Error()}
	}
	if !found {
		return http.StatusNotFound, gin.H{"error": "Prayer update not found"}
	}
	if existing.Status != models.StatusPending {
		return http.StatusConflict, gin.H{"error": "Prayer update has already been reviewed"}
	}

	// The parent must still be visible; approving an update to a deleted
	// request would leak content with no parent on the wall.
	var parent models.PrayerRequest
	parentFound, err := initializers.DB.From("prayer_request").
		Select("*").
		Where(
			goqu.C("prayer_request_id").Eq(existing.Prayer_Request_ID),
			goqu.C("status").Eq(models.StatusApproved),
			goqu.C("deleted").Eq(false),
		).
		ScanStruct(&parent)

	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to fetch parent prayer request", "details": err.Error()}
	}
	if !parentFound {
		return http.StatusConflict, gin.H{"error": "Parent prayer request is no longer visible"}
	}

	update := initializers.DB.Update("prayer_update").
		Set(goqu.Record{
			"status":            models.StatusApproved,
			"approved_by":       adminID,
			"datetime_approved": goqu.L("NOW()"),
			"datetime_update":   goqu.L("NOW()"),
		}).
		Where(goqu.C("prayer_update_id").Eq(updateID), goqu.C("status").Eq(models.StatusPending))

	result, err := update.Executor().Exec()
	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to approve prayer update", "details": err.Error()}
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return http.StatusConflict, gin.H{"error": "Prayer update has already been reviewed"}
	}

	go func(email string, title string) {
		svc := services.GetEmailService()
		if svc == nil || email == "" {
			return
		}
		if err := svc.SendUpdateApprovedEmail(email, title); err != nil {
			log.Printf("Failed to send update approved email: %v", err)
		}
	}(existing.Submitter_Email, parent.Title)

	services.BroadcastApprovalEvent(services.EventUpdateApproved, models.ApprovalTargetUpdate, updateID)

	return http.StatusOK, gin.H{"message": "Prayer update approved successfully."}
}

// denyPrayerUpdateByID performs the pending -> denied transition.
func denyPrayerUpdateByID(updateID int, adminID int, reason string) (int, gin.H) {
	var existing models.PrayerUpdate
	found, err := initializers.DB.From("prayer_update").
		Select("*").
		Where(goqu.C("prayer_update_id").Eq(updateID), goqu.C("deleted").Eq(false)).
		ScanStruct(&existing)

	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer update", "details": err.Error()}
	}
	if !found {
		return http.StatusNotFound, gin.H{"error": "Prayer update not found"}
	}
	if existing.Status != models.StatusPending {
		return http.StatusConflict, gin.H{"error": "Prayer update has already been reviewed"}
	}

	update := initializers.DB.Update("prayer_update").
		Set(goqu.Record{
			"status":          models.StatusDenied,
			"denial_reason":   reason,
			"approved_by":     adminID,
			"datetime_update": goqu.L("NOW()"),
		}).
		Where(goqu.C("prayer_update_id").Eq(updateID), goqu.C("status").Eq(models.StatusPending))

	result, err := update.Executor().Exec()
	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to deny prayer update", "details": err.Error()}
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return http.StatusConflict, gin.H{"error": "Prayer update has already been reviewed"}
	}

	return http.StatusOK, gin.H{"message": "Prayer update denied."}
}

func ApprovePrayerUpdate(c *gin.Context) {
	admin := c.MustGet("currentAdmin").(models.AdminUser)

	updateID, err := strconv.Atoi(c.Param("prayer_update_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer update ID", "details": err.Error()})
		return
	}

	status, body := approvePrayerUpdateByID(updateID, admin.Admin_User_ID)
	c.JSON(status, body)
}

func DenyPrayerUpdate(c *gin.Context) {
	admin := c.MustGet("currentAdmin").(models.AdminUser)

	updateID, err := strconv.Atoi(c.Param("prayer_update_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer update ID", "details": err.Error()})
		return
	}

	var req models.DenyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	status, body := denyPrayerUpdateByID(updateID, admin.Admin_User_ID, req.Reason)
	c.JSON(status, body)
}
