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

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// anonymousDisplayName replaces the requester name on anonymous requests
// before they leave a public endpoint.
const anonymousDisplayName = "A church member"

// SubmitPrayerRequest accepts a public submission, stores it pending, and
// notifies admins with an approval link.
func SubmitPrayerRequest(c *gin.Context) {
	var submission models.PrayerRequestCreate
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	newRequest := models.PrayerRequest{
		Requester_Name:      submission.Requester_Name,
		Requester_Email:     submission.Requester_Email,
		Title:               submission.Title,
		Request_Description: submission.Request_Description,
		Category:            submission.Category,
		Is_Anonymous:        submission.Is_Anonymous,
		Email_Updates:       submission.Email_Updates,
		Status:              models.StatusPending,
		Prayer_Status:       models.PrayerStatusActive,
	}

	insert := initializers.DB.Insert("prayer_request").Rows(newRequest).Returning("prayer_request_id")

	var insertedID int
	if _, err := insert.Executor().ScanVal(&insertedID); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit prayer request", "details": err.Error()})
		return
	}

	go services.NotifyAdminsOfPending(models.ApprovalTargetRequest, insertedID, "prayer request", submission.Title)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Prayer request submitted. It will appear once approved.",
		"prayerRequestId": insertedID,
	})
}

func parsePaging(c *gin.Context) (limit uint, offset uint) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return uint(pageSize), uint((page - 1) * pageSize)
}

// GetApprovedRequests lists approved, non-deleted requests with optional
// q/category/prayer_status filters and paging.
func GetApprovedRequests(c *gin.Context) {
	limit, offset := parsePaging(c)

	conditions := []goqu.Expression{
		goqu.C("status").Eq(models.StatusApproved),
		goqu.C("deleted").Eq(false),
	}

	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		conditions = append(conditions, goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("request_description").ILike(pattern),
		))
	}
	if category := c.Query("category"); category != "" {
		conditions = append(conditions, goqu.C("category").Eq(category))
	}
	if prayerStatus := c.Query("prayer_status"); prayerStatus != "" {
		conditions = append(conditions, goqu.C("prayer_status").Eq(prayerStatus))
	}

	var requests []models.PublicPrayerRequest
	err := initializers.DB.From("prayer_request").
		Select(
			"prayer_request_id",
			"requester_name",
			"title",
			"request_description",
			"category",
			"is_anonymous",
			"prayer_status",
			"datetime_create",
		).
		Where(conditions...).
		Order(goqu.C("datetime_create").Desc()).
		Limit(limit).
		Offset(offset).
		ScanStructs(&requests)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer requests", "details": err.Error()})
		return
	}

	for i := range requests {
		if requests[i].Is_Anonymous {
			requests[i].Requester_Name = anonymousDisplayName
		}
	}

	if len(requests) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No prayer requests found.", "requests": []models.PublicPrayerRequest{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Prayer requests retrieved successfully.",
		"requests": requests,
	})
}

// GetApprovedRequest returns a single approved request with its approved
// updates, oldest first.
func GetApprovedRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("prayer_request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer request ID", "details": err.Error()})
		return
	}

	var request models.PublicPrayerRequest
	found, err := initializers.DB.From("prayer_request").
		Select(
			"prayer_request_id",
			"requester_name",
			"title",
			"request_description",
			"category",
			"is_anonymous",
			"prayer_status",
			"datetime_create",
		).
		Where(
			goqu.C("prayer_request_id").Eq(requestID),
			goqu.C("status").Eq(models.StatusApproved),
			goqu.C("deleted").Eq(false),
		).
		ScanStruct(&request)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer request", "details": err.Error()})
		return
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prayer request not found"})
		return
	}

	if request.Is_Anonymous {
		request.Requester_Name = anonymousDisplayName
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

	c.JSON(http.StatusOK, gin.H{
		"request": request,
		"updates": updates,
	})
}

// GetRequests is the admin listing, filterable by moderation status.
func GetRequests(c *gin.Context) {
	conditions := []goqu.Expression{goqu.C("deleted").Eq(false)}

	status := c.DefaultQuery("status", models.StatusPending)
	if status != "all" {
		if status != models.StatusPending && status != models.StatusApproved && status != models.StatusDenied {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		conditions = append(conditions, goqu.C("status").Eq(status))
	}

	var requests []models.PrayerRequest
	err := initializers.DB.From("prayer_request").
		Select("*").
		Where(conditions...).
		Order(goqu.C("datetime_create").Desc()).
		ScanStructs(&requests)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer requests", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Prayer requests retrieved successfully.",
		"requests": requests,
	})
}

// approvePrayerRequestByID performs the pending -> approved transition.
// Shared by the portal handler and the approval-link handler.
func approvePrayerRequestByID(requestID int, adminID int) (int, gin.H) {
	var existing models.PrayerRequest
	found, err := initializers.DB.From("prayer_request").
		Select("*").
		Where(goqu.C("prayer_request_id").Eq(requestID), goqu.C("deleted").Eq(false)).
		ScanStruct(&existing)

	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer request", "details": err.Error()}
	}
	if !found {
		return http.StatusNotFound, gin.H{"error": "Prayer request not found"}
	}
	if existing.Status != models.StatusPending {
		return http.StatusConflict, gin.H{"error": "Prayer request has already been reviewed"}
	}

	update := initializers.DB.Update("prayer_request").
		Set(goqu.Record{
			"status":            models.StatusApproved,
			"approved_by":       adminID,
			"datetime_approved": goqu.L("NOW()"),
			"datetime_update":   goqu.L("NOW()"),
		}).
		Where(goqu.C("prayer_request_id").Eq(requestID), goqu.C("status").Eq(models.StatusPending))

	result, err := update.Executor().Exec()
	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to approve prayer request", "details": err.Error()}
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return http.StatusConflict, gin.H{"error": "Prayer request has already been reviewed"}
	}

	go services.NotifyRequesterOfDecision(existing.Requester_Email, existing.Requester_Name, existing.Title, true, "")
	services.BroadcastApprovalEvent(services.EventApproved, models.ApprovalTargetRequest, requestID)

	return http.StatusOK, gin.H{"message": "Prayer request approved successfully."}
}

// denyPrayerRequestByID performs the pending -> denied transition.
func denyPrayerRequestByID(requestID int, adminID int, reason string) (int, gin.H) {
	var existing models.PrayerRequest
	found, err := initializers.DB.From("prayer_request").
		Select("*").
		Where(goqu.C("prayer_request_id").Eq(requestID), goqu.C("deleted").Eq(false)).
		ScanStruct(&existing)

	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer request", "details": err.Error()}
	}
	if !found {
		return http.StatusNotFound, gin.H{"error": "Prayer request not found"}
	}
	if existing.Status != models.StatusPending {
		return http.StatusConflict, gin.H{"error": "Prayer request has already been reviewed"}
	}

	update := initializers.DB.Update("prayer_request").
		Set(goqu.Record{
			"status":          models.StatusDenied,
			"denial_reason":   reason,
			"approved_by":     adminID,
			"datetime_update": goqu.L("NOW()"),
		}).
		Where(goqu.C("prayer_request_id").Eq(requestID), goqu.C("status").Eq(models.StatusPending))

	result, err := update.Executor().Exec()
	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to deny prayer request", "details": err.Error()}
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return http.StatusConflict, gin.H{"error": "Prayer request has already been reviewed"}
	}

	go services.NotifyRequesterOfDecision(existing.Requester_Email, existing.Requester_Name, existing.Title, false, reason)
	services.BroadcastApprovalEvent(services.EventDenied, models.ApprovalTargetRequest, requestID)

	return http.StatusOK, gin.H{"message": "Prayer request denied."}
}

func ApprovePrayerRequest(c *gin.Context) {
	admin := c.MustGet("currentAdmin").(models.AdminUser)

	requestID, err := strconv.Atoi(c.Param("prayer_request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer request ID", "details": err.Error()})
		return
	}

	status, body := approvePrayerRequestByID(requestID, admin.Admin_User_ID)
	c.JSON(status, body)
}

func DenyPrayerRequest(c *gin.Context) {
	admin := c.MustGet("currentAdmin").(models.AdminUser)

	requestID, err := strconv.Atoi(c.Param("prayer_request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer request ID", "details": err.Error()})
		return
	}

	var req models.DenyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	status, body := denyPrayerRequestByID(requestID, admin.Admin_User_ID, req.Reason)
	c.JSON(status, body)
}
