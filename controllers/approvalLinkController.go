package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/models"
	"github.com/doug-martin/goqu/v9"
)

const maxApprovalAttempts = 5

// loadApprovalToken fetches and guards the token row behind an emailed
// approval link: unknown, expired, used, or over-tried tokens all come
// back as a bare 401 so links can't be probed.
func loadApprovalToken(c *gin.Context) (models.ApprovalToken, bool) {
	var empty models.ApprovalToken

	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired approval link"})
		return empty, false
	}

	var row models.ApprovalToken
	found, err := initializers.DB.From("approval_token").
		Select("*").
		Where(goqu.C("token").Eq(token)).
		ScanStruct(&row)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up approval link", "details": err.Error()})
		return empty, false
	}

	if !found || row.Used || row.Attempts >= maxApprovalAttempts || tokenExpired(row) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired approval link"})
		return empty, false
	}

	// Count the access regardless of what happens next
	bump := initializers.DB.Update("approval_token").
		Set(goqu.Record{"attempts": row.Attempts + 1}).
		Where(goqu.C("approval_token_id").Eq(row.Approval_Token_ID)).
		Executor()
	if _, err := bump.Exec(); err != nil {
		log.Printf("Failed to update approval token attempts: %v", err)
	}

	return row, true
}

func tokenExpired(row models.ApprovalToken) bool {
	return row.Expires_At.Before(time.Now())
}

// GetApprovalItem shows the pending item behind an approval link so the
// admin can review it before acting.
func GetApprovalItem(c *gin.Context) {
	token, ok := loadApprovalToken(c)
	if !ok {
		return
	}

	var item interface{}
	var found bool
	var err error

	switch token.Target_Type {
	case models.ApprovalTargetRequest:
		var row models.PrayerRequest
		found, err = initializers.DB.From("prayer_request").
			Select("*").
			Where(goqu.C("prayer_request_id").Eq(token.Target_ID)).
			ScanStruct(&row)
		item = row
	case models.ApprovalTargetUpdate:
		var row models.PrayerUpdate
		found, err = initializers.DB.From("prayer_update").
			Select("*").
			Where(goqu.C("prayer_update_id").Eq(token.Target_ID)).
			ScanStruct(&row)
		item = row
	case models.ApprovalTargetDeletion:
		var row models.DeletionRequest
		found, err = initializers.DB.From("deletion_request").
			Select("*").
			Where(goqu.C("deletion_request_id").Eq(token.Target_ID)).
			ScanStruct(&row)
		item = row
	case models.ApprovalTargetStatusChange:
		var row models.StatusChangeRequest
		found, err = initializers.DB.From("status_change_request").
			Select("*").
			Where(goqu.C("status_change_request_id").Eq(token.Target_ID)).
			ScanStruct(&row)
		item = row
	case models.ApprovalTargetPreference:
		var row models.PreferenceChange
		found, err = initializers.DB.From("preference_change").
			Select("*").
			Where(goqu.C("preference_change_id").Eq(token.Target_ID)).
			ScanStruct(&row)
		item = row
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unknown approval target type"})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch approval item", "details": err.Error()})
		return
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Approval item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"targetType": token.Target_Type,
		"targetId":   token.Target_ID,
		"item":       item,
	})
}

// ActOnApprovalLink approves or denies the item behind the link. The
// token is consumed only when the action takes effect.
func ActOnApprovalLink(c *gin.Context) {
	token, ok := loadApprovalToken(c)
	if !ok {
		return
	}

	var req models.ApprovalActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be 'approve' or 'deny'", "details": err.Error()})
		return
	}

	approve := req.Action == "approve"

	// Actions through a link are recorded with reviewer id 0; the portal
	// audit trail distinguishes them from logged-in admins.
	const linkReviewerID = 0

	var status int
	var body gin.H

	switch token.Target_Type {
	case models.ApprovalTargetRequest:
		if approve {
			status, body = approvePrayerRequestByID(token.Target_ID, linkReviewerID)
		} else {
			status, body = denyPrayerRequestByID(token.Target_ID, linkReviewerID, req.Reason)
		}
	case models.ApprovalTargetUpdate:
		if approve {
			status, body = approvePrayerUpdateByID(token.Target_ID, linkReviewerID)
		} else {
			status, body = denyPrayerUpdateByID(token.Target_ID, linkReviewerID, req.Reason)
		}
	case models.ApprovalTargetDeletion:
		if approve {
			status, body = approveDeletionRequestByID(token.Target_ID, linkReviewerID)
		} else {
			status, body = denyDeletionRequestByID(token.Target_ID, linkReviewerID)
		}
	case models.ApprovalTargetStatusChange:
		if approve {
			status, body = approveStatusChangeByID(token.Target_ID, linkReviewerID)
		} else {
			status, body = denyStatusChangeByID(token.Target_ID, linkReviewerID)
		}
	case models.ApprovalTargetPreference:
		if approve {
			status, body = approvePreferenceChangeByID(token.Target_ID, linkReviewerID)
		} else {
			status, body = denyPreferenceChangeByID(token.Target_ID, linkReviewerID)
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unknown approval target type"})
		return
	}

	if status == http.StatusOK {
		consume := initializers.DB.Update("approval_token").
			Set(goqu.Record{"used": true}).
			Where(goqu.C("approval_token_id").Eq(token.Approval_Token_ID)).
			Executor()
		if _, err := consume.Exec(); err != nil {
			log.Printf("Failed to mark approval token as used: %v", err)
		}
	}

	c.JSON(status, body)
}
