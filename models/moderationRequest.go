package models

import "time"

// Preference names a member may ask to change on their own request.
const (
	PreferenceIsAnonymous  = "is_anonymous"
	PreferenceEmailUpdates = "email_updates"
)

type DeletionRequest struct {
	Deletion_Request_ID int        `json:"deletionRequestId" db:"deletion_request_id" goqu:"skipinsert"`
	Prayer_Request_ID   int        `json:"prayerRequestId" db:"prayer_request_id"`
	Requester_Email     string     `json:"requesterEmail" db:"requester_email"`
	Reason              string     `json:"reason" db:"reason"`
	Status              string     `json:"status" db:"status"`
	Reviewed_By         *int       `json:"reviewedBy" db:"reviewed_by"`
	Datetime_Reviewed   *time.Time `json:"datetimeReviewed" db:"datetime_reviewed"`
	Datetime_Create     time.Time  `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	Datetime_Update     time.Time  `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
}

type DeletionRequestCreate struct {
	Token  string `json:"token" binding:"required"`
	Reason string `json:"reason"`
}

type StatusChangeRequest struct {
	Status_Change_Request_ID int        `json:"statusChangeRequestId" db:"status_change_request_id" goqu:"skipinsert"`
	Prayer_Request_ID        int        `json:"prayerRequestId" db:"prayer_request_id"`
	Requester_Email          string     `json:"requesterEmail" db:"requester_email"`
	Requested_Status         string     `json:"requestedStatus" db:"requested_status"`
	Status                   string     `json:"status" db:"status"`
	Reviewed_By              *int       `json:"reviewedBy" db:"reviewed_by"`
	Datetime_Reviewed        *time.Time `json:"datetimeReviewed" db:"datetime_reviewed"`
	Datetime_Create          time.Time  `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	Datetime_Update          time.Time  `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
}

type StatusChangeRequestCreate struct {
	Token            string `json:"token" binding:"required"`
	Requested_Status string `json:"requestedStatus" binding:"required"`
}

type PreferenceChange struct {
	Preference_Change_ID int        `json:"preferenceChangeId" db:"preference_change_id" goqu:"skipinsert"`
	Prayer_Request_ID    int        `json:"prayerRequestId" db:"prayer_request_id"`
	Requester_Email      string     `json:"requesterEmail" db:"requester_email"`
	Preference_Name      string     `json:"preferenceName" db:"preference_name"`
	Preference_Value     string     `json:"preferenceValue" db:"preference_value"`
	Status               string     `json:"status" db:"status"`
	Reviewed_By          *int       `json:"reviewedBy" db:"reviewed_by"`
	Datetime_Reviewed    *time.Time `json:"datetimeReviewed" db:"datetime_reviewed"`
	Datetime_Create      time.Time  `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	Datetime_Update      time.Time  `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
}

type PreferenceChangeCreate struct {
	Token            string `json:"token" binding:"required"`
	Preference_Name  string `json:"preferenceName" binding:"required"`
	Preference_Value string `json:"preferenceValue" binding:"required"`
}
