package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/models"
	"github.com/PrayerWall/services"
	"github.com/doug-martin/goqu/v9"
)

// loadOwnedRequest resolves the prayer request behind a member-initiated
// moderation request and checks the temp token's email against the
// request's requester_email.
func loadOwnedRequest(c *gin.Context, token string) (models.PrayerRequest, bool) {
	var empty models.PrayerRequest

	requestID, err := strconv.Atoi(c.Param("prayer_request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer request ID", "details": err.Error()})
		return empty, false
	}

	email, valid := validateTempToken(token)
	if !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return empty, false
	}

	var request models.PrayerRequest
	found, err := initializers.DB.From("prayer_request").
		Select("*").
		Where(goqu.C("prayer_request_id").Eq(requestID), goqu.C("deleted").Eq(false)).
		ScanStruct(&request)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer request", "details": err.Error()})
		return empty, false
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prayer request not found"})
		return empty, false
	}

	if !strings.EqualFold(request.Requester_Email, email) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This email does not match the prayer request"})
		return empty, false
	}

	return request, true
}

// SubmitDeletionRequest files a member request to remove their prayer
// request from the wall. Requires a verification temp token.
func SubmitDeletionRequest(c *gin.Context) {
	var body models.DeletionRequestCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	request, ok := loadOwnedRequest(c, body.Token)
	if !ok {
		return
	}

	var pendingCount int
	_, err := initializers.DB.From("deletion_request").
		Select(goqu.COUNT("*")).
		Where(
			goqu.C("prayer_request_id").Eq(request.Prayer_Request_ID),
			goqu.C("status").Eq(models.StatusPending),
		).
		ScanVal(&pendingCount)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing deletion requests", "details": err.Error()})
		return
	}

	if pendingCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A deletion request for this prayer is already pending"})
		return
	}

	newRequest := models.DeletionRequest{
		Prayer_Request_ID: request.Prayer_Request_ID,
		Requester_Email:   request.Requester_Email,
		Reason:            body.Reason,
		Status:            models.StatusPending,
	}

	insert := initializers.DB.Insert("deletion_request").Rows(newRequest).Returning("deletion_request_id")

	var insertedID int
	if _, err := insert.Executor().ScanVal(&insertedID); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit deletion request", "details": err.Error()})
		return
	}

	go services.NotifyAdminsOfPending(models.ApprovalTargetDeletion, insertedID, "deletion request",
		fmt.Sprintf("Remove %q from the prayer wall", request.Title))

	c.JSON(http.StatusOK, gin.H{
		"message":           "Deletion request submitted for review.",
		"deletionRequestId": insertedID,
	})
}

// SubmitStatusChangeRequest files a member request to mark their prayer
// answered or archived. Requires a verification temp token.
func SubmitStatusChangeRequest(c *gin.Context) {
	var body models.StatusChangeRequestCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if body.Requested_Status != models.PrayerStatusActive &&
		body.Requested_Status != models.PrayerStatusAnswered &&
		body.Requested_Status != models.PrayerStatusArchived {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requested status. Must be 'active', 'answered', or 'archived'"})
		return
	}

	request, ok := loadOwnedRequest(c, body.Token)
	if !ok {
		return
	}

	if request.Prayer_Status == body.Requested_Status {
		c.JSON(http.StatusConflict, gin.H{"error": "Prayer request already has this status"})
		return
	}

	newRequest := models.StatusChangeRequest{
		Prayer_Request_ID: request.Prayer_Request_ID,
		Requester_Email:   request.Requester_Email,
		Requested_Status:  body.Requested_Status,
		Status:            models.StatusPending,
	}

	insert := initializers.DB.Insert("status_change_request").Rows(newRequest).Returning("status_change_request_id")

	var insertedID int
	if _, err := insert.Executor().ScanVal(&insertedID); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit status change request", "details": err.Error()})
		return
	}

	go services.NotifyAdminsOfPending(models.ApprovalTargetStatusChange, insertedID, "status change request",
		fmt.Sprintf("Mark %q as %s", request.Title, body.Requested_Status))

	c.JSON(http.StatusOK, gin.H{
		"message":               "Status change request submitted for review.",
		"statusChangeRequestId": insertedID,
	})
}

// SubmitPreferenceChange files a member request to change a display
// preference on their prayer request. Requires a verification temp token.
func SubmitPreferenceChange(c *gin.Context) {
	var body models.PreferenceChangeCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if body.Preference_Name != models.PreferenceIsAnonymous && body.Preference_Name != models.PreferenceEmailUpdates {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid preference name. Must be 'is_anonymous' or 'email_updates'"})
		return
	}

	if body.Preference_Value != "true" && body.Preference_Value != "false" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid preference value. Must be 'true' or 'false'"})
		return
	}

	request, ok := loadOwnedRequest(c, body.Token)
	if !ok {
		return
	}

	newChange := models.PreferenceChange{
		Prayer_Request_ID: request.Prayer_Request_ID,
		Requester_Email:   request.Requester_Email,
		Preference_Name:   body.Preference_Name,
		Preference_Value:  body.Preference_Value,
		Status:            models.StatusPending,
	}

	insert := initializers.DB.Insert("preference_change").Rows(newChange).Returning("preference_change_id")

	var insertedID int
	if _, err := insert.Executor().ScanVal(&insertedID); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit preference change", "details": err.Error()})
		return
	}

	go services.NotifyAdminsOfPending(models.ApprovalTargetPreference, insertedID, "preference change",
		fmt.Sprintf("Set %s=%s on %q", body.Preference_Name, body.Preference_Value, request.Title))

	c.JSON(http.StatusOK, gin.H{
		"message":            "Preference change submitted for review.",
		"preferenceChangeId": insertedID,
	})
}

// GetPendingCounts returns per-queue pending counts for the portal tabs.
func GetPendingCounts(c *gin.Context) {
	pending := func(table string) (int, error) {
		var n int
		_, err := initializers.DB.From(table).
			Select(goqu.COUNT("*")).
			Where(goqu.C("status").Eq(models.StatusPending)).
			ScanVal(&n)
		return n, err
	}

	counts := gin.H{}
	for key, table := range map[string]string{
		"requests":          "prayer_request",
		"updates":           "prayer_update",
		"deletionRequests":  "deletion_request",
		"statusChanges":     "status_change_request",
		"preferenceChanges": "preference_change",
	} {
		n, err := pending(table)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count pending items", "details": err.Error()})
			return
		}
		counts[key] = n
	}

	c.JSON(http.StatusOK, gin.H{"pending": counts})
}

// listModerationQueue is the shared admin listing for the three
// member-initiated queues.
func listModerationQueue[T any](c *gin.Context, table string) {
	conditions := []goqu.Expression{}

	status := c.DefaultQuery("status", models.StatusPending)
	if status != "all" {
		if status != models.StatusPending && status != models.StatusApproved && status != models.StatusDenied {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		conditions = append(conditions, goqu.C("status").Eq(status))
	}

	var rows []T
	query := initializers.DB.From(table).Select("*")
	if len(conditions) > 0 {
		query = query.Where(conditions...)
	}
	err := query.Order(goqu.C("datetime_create").Desc()).ScanStructs(&rows)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch moderation queue", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": rows})
}

func GetDeletionRequests(c *gin.Context) {
	listModerationQueue[models.DeletionRequest](c, "deletion_request")
}

func GetStatusChangeRequests(c *gin.Context) {
	listModerationQueue[models.StatusChangeRequest](c, "status_change_request")
}

func GetPreferenceChanges(c *gin.Context) {
	listModerationQueue[models.PreferenceChange](c, "preference_change")
}

// resolveQueueRow stamps a moderation queue row approved or denied.
func resolveQueueRow(table string, idColumn string, id int, adminID int, approved bool) error {
	status := models.StatusDenied
	if approved {
		status = models.StatusApproved
	}

	result, err := initializers.DB.Update(table).
		Set(goqu.Record{
			"status":            status,
			"reviewed_by":       adminID,
			"datetime_reviewed": goqu.L("NOW()"),
			"datetime_update":   goqu.L("NOW()"),
		}).
		Where(goqu.C(idColumn).Eq(id), goqu.C("status").Eq(models.StatusPending)).
		Executor().Exec()

	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("queue row already resolved")
	}
	return nil
}

// approveDeletionRequestByID applies the deletion (soft delete on the
// prayer request) and resolves the queue row. The queue row stays
// pending when the apply fails.
func approveDeletionRequestByID(deletionID int, adminID int) (int, gin.H) {
	var existing models.DeletionRequest
	found, err := initializers.DB.From("deletion_request").
		Select("*").
		Where(goqu.C("deletion_request_id").Eq(deletionID)).
		ScanStruct(&existing)

	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to fetch deletion request", "details": err.Error()}
	}
	if !found {
		return http.StatusNotFound, gin.H{"error": "Deletion request not found"}
	}
	if existing.Status != models.StatusPending {
		return http.StatusConflict, gin.H{"error": "Deletion request has already been reviewed"}
	}

	update := initializers.DB.Update("prayer_request").
		Set(goqu.Record{
			"deleted":         true,
			"datetime_update": goqu.L("NOW()"),
		}).
		Where(goqu.C("prayer_request_id").Eq(existing.Prayer_Request_ID), goqu.C("deleted").Eq(false))

	result, err := update.Executor().Exec()
	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to delete prayer request", "details": err.Error()}
	}

	// Zero rows means the prayer was already deleted by an earlier
	// attempt that died before resolving the queue row. The row is
	// still pending here, so carry on and resolve it.
	rowsAffected, _ := result.RowsAffected()

	if err := resolveQueueRow("deletion_request", "deletion_request_id", deletionID, adminID, true); err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to resolve deletion request", "details": err.Error()}
	}

	if rowsAffected > 0 {
		services.BroadcastApprovalEvent(services.EventRemoved, models.ApprovalTargetRequest, existing.Prayer_Request_ID)
	}

	return http.StatusOK, gin.H{"message": "Deletion request approved; prayer request removed."}
}

func denyDeletionRequestByID(deletionID int, adminID int) (int, gin.H) {
	var existing models.DeletionRequest
	found, err := initializers.DB.From("deletion_request").
		Select("*").
		Where(goqu.C("deletion_request_id").Eq(deletionID)).
		ScanStruct(&existing)

	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to fetch deletion request", "details": err.Error()}
	}
	if !found {
		return http.StatusNotFound, gin.H{"error": "Deletion request not found"}
	}
	if existing.Status != models.StatusPending {
		return http.StatusConflict, gin.H{"error": "Deletion request has already been reviewed"}
	}

	if err := resolveQueueRow("deletion_request", "deletion_request_id", deletionID, adminID, false); err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to resolve deletion request", "details": err.Error()}
	}

	return http.StatusOK, gin.H{"message": "Deletion request denied."}
}

// approveStatusChangeByID applies the requested prayer status and
// resolves the queue row.
func approveStatusChangeByID(changeID int, adminID int) (int, gin.H) {
	var existing models.StatusChangeRequest
	found, err := initializers.DB.From("status_change_request").
		Select("*").
		Where(goqu.C("status_change_request_id").Eq(changeID)).
		ScanStruct(&existing)

	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to fetch status change request", "details": err.Error()}
	}
	if !found {
		return http.StatusNotFound, gin.H{"error": "Status change request not found"}
	}
	if existing.Status != models.StatusPending {
		return http.StatusConflict, gin.H{"error": "Status change request has already been reviewed"}
	}

	update := initializers.DB.Update("prayer_request").
		Set(goqu.Record{
			"prayer_status":   existing.Requested_Status,
			"datetime_update": goqu.L("NOW()"),
		}).
		Where(goqu.C("prayer_request_id").Eq(existing.Prayer_Request_ID), goqu.C("deleted").Eq(false))

	result, err := update.Executor().Exec()
	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to apply status change", "details": err.Error()}
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return http.StatusConflict, gin.H{"error": "Prayer request no longer exists"}
	}

	if err := resolveQueueRow("status_change_request", "status_change_request_id", changeID, adminID, true); err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to resolve status change request", "details": err.Error()}
	}

	// Archived prayers leave the slideshow; anything else just refreshes it
	event := services.EventApproved
	if existing.Requested_Status == models.PrayerStatusArchived {
		event = services.EventRemoved
	}
	services.BroadcastApprovalEvent(event, models.ApprovalTargetRequest, existing.Prayer_Request_ID)

	return http.StatusOK, gin.H{"message": "Status change approved and applied."}
}

func denyStatusChangeByID(changeID int, adminID int) (int, gin.H) {
	var existing models.StatusChangeRequest
	found, err := initializers.DB.From("status_change_request").
		Select("*").
		Where(goqu.C("status_change_request_id").Eq(changeID)).
		ScanStruct(&existing)

	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to fetch status change request", "details": err.Error()}
	}
	if !found {
		return http.StatusNotFound, gin.H{"error": "Status change request not found"}
	}
	if existing.Status != models.StatusPending {
		return http.StatusConflict, gin.H{"error": "Status change request has already been reviewed"}
	}

	if err := resolveQueueRow("status_change_request", "status_change_request_id", changeID, adminID, false); err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to resolve status change request", "details": err.Error()}
	}

	return http.StatusOK, gin.H{"message": "Status change request denied."}
}

// approvePreferenceChangeByID applies the preference to the prayer
// request and resolves the queue row.
func approvePreferenceChangeByID(changeID int, adminID int) (int, gin.H) {
	var existing models.PreferenceChange
	found, err := initializers.DB.From("preference_change").
		Select("*").
		Where(goqu.C("preference_change_id").Eq(changeID)).
		ScanStruct(&existing)

	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to fetch preference change", "details": err.Error()}
	}
	if !found {
		return http.StatusNotFound, gin.H{"error": "Preference change not found"}
	}
	if existing.Status != models.StatusPending {
		return http.StatusConflict, gin.H{"error": "Preference change has already been reviewed"}
	}

	var column string
	switch existing.Preference_Name {
	case models.PreferenceIsAnonymous:
		column = "is_anonymous"
	case models.PreferenceEmailUpdates:
		column = "email_updates"
	default:
		return http.StatusConflict, gin.H{"error": "Unknown preference name on record"}
	}

	update := initializers.DB.Update("prayer_request").
		Set(goqu.Record{
			column:            existing.Preference_Value == "true",
			"datetime_update": goqu.L("NOW()"),
		}).
		Where(goqu.C("prayer_request_id").Eq(existing.Prayer_Request_ID), goqu.C("deleted").Eq(false))

	result, err := update.Executor().Exec()
	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to apply preference change", "details": err.Error()}
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return http.StatusConflict, gin.H{"error": "Prayer request no longer exists"}
	}

	if err := resolveQueueRow("preference_change", "preference_change_id", changeID, adminID, true); err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to resolve preference change", "details": err.Error()}
	}

	services.BroadcastApprovalEvent(services.EventApproved, models.ApprovalTargetRequest, existing.Prayer_Request_ID)

	return http.StatusOK, gin.H{"message": "Preference change approved and applied."}
}

func denyPreferenceChangeByID(changeID int, adminID int) (int, gin.H) {
	var existing models.PreferenceChange
	found, err := initializers.DB.From("preference_change").
		Select("*").
		Where(goqu.C("preference_change_id").Eq(changeID)).
		ScanStruct(&existing)

	if err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to fetch preference change", "details": err.Error()}
	}
	if !found {
		return http.StatusNotFound, gin.H{"error": "Preference change not found"}
	}
	if existing.Status != models.StatusPending {
		return http.StatusConflict, gin.H{"error": "Preference change has already been reviewed"}
	}

	if err := resolveQueueRow("preference_change", "preference_change_id", changeID, adminID, false); err != nil {
		return http.StatusInternalServerError, gin.H{"error": "Failed to resolve preference change", "details": err.Error()}
	}

	return http.StatusOK, gin.H{"message": "Preference change denied."}
}

// Portal handlers for the three queues.

func moderationID(c *gin.Context, param string) (int, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID", "details": err.Error()})
		return 0, false
	}
	return id, true
}

func ApproveDeletionRequest(c *gin.Context) {
	admin := c.MustGet("currentAdmin").(models.AdminUser)
	if id, ok := moderationID(c, "deletion_request_id"); ok {
		status, body := approveDeletionRequestByID(id, admin.Admin_User_ID)
		c.JSON(status, body)
	}
}

func DenyDeletionRequest(c *gin.Context) {
	admin := c.MustGet("currentAdmin").(models.AdminUser)
	if id, ok := moderationID(c, "deletion_request_id"); ok {
		status, body := denyDeletionRequestByID(id, admin.Admin_User_ID)
		c.JSON(status, body)
	}
}

func ApproveStatusChangeRequest(c *gin.Context) {
	admin := c.MustGet("currentAdmin").(models.AdminUser)
	if id, ok := moderationID(c, "status_change_request_id"); ok {
		status, body := approveStatusChangeByID(id, admin.Admin_User_ID)
		c.JSON(status, body)
	}
}

func DenyStatusChangeRequest(c *gin.Context) {
	admin := c.MustGet("currentAdmin").(models.AdminUser)
	if id, ok := moderationID(c, "status_change_request_id"); ok {
		status, body := denyStatusChangeByID(id, admin.Admin_User_ID)
		c.JSON(status, body)
	}
}

func ApprovePreferenceChange(c *gin.Context) {
	admin := c.MustGet("currentAdmin").(models.AdminUser)
	if id, ok := moderationID(c, "preference_change_id"); ok {
		status, body := approvePreferenceChangeByID(id, admin.Admin_User_ID)
		c.JSON(status, body)
	}
}

func DenyPreferenceChange(c *gin.Context) {
	admin := c.MustGet("currentAdmin").(models.AdminUser)
	if id, ok := moderationID(c, "preference_change_id"); ok {
		status, body := denyPreferenceChangeByID(id, admin.Admin_User_ID)
		c.JSON(status, body)
	}
}
