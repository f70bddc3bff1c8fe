package models

import "time"

type PrayerUpdate struct {
	Prayer_Update_ID   int        `json:"prayerUpdateId" db:"prayer_update_id" goqu:"skipinsert"`
	Prayer_Request_ID  int        `json:"prayerRequestId" db:"prayer_request_id"`
	Update_Description string     `json:"updateDescription" db:"update_description"`
	Submitter_Email    string     `json:"submitterEmail" db:"submitter_email"`
	Status             string     `json:"status" db:"status"`
	Denial_Reason      *string    `json:"denialReason" db:"denial_reason"`
	Approved_By        *int       `json:"approvedBy" db:"approved_by"`
	Datetime_Approved  *time.Time `json:"datetimeApproved" db:"datetime_approved"`
	Datetime_Create    time.Time  `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	Datetime_Update    time.Time  `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
	Deleted            bool       `json:"deleted" db:"deleted" goqu:"skipinsert"`
}

type PrayerUpdateCreate struct {
	Update_Description string `json:"updateDescription" binding:"required"`
	Submitter_Email    string `json:"submitterEmail" binding:"required,email"`
}

// PublicPrayerUpdate is the shape served to non-admin callers.
type PublicPrayerUpdate struct {
	Prayer_Update_ID   int       `json:"prayerUpdateId" db:"prayer_update_id" goqu:"skipinsert"`
	Prayer_Request_ID  int       `json:"prayerRequestId" db:"prayer_request_id"`
	Update_Description string    `json:"updateDescription" db:"update_description"`
	Datetime_Create    time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
}
