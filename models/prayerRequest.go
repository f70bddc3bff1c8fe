package models

import "time"

// Moderation status constants, shared by every entity that passes
// through the admin approval queue.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

// Prayer status constants for an approved request's lifecycle.
const (
	PrayerStatusActive   = "active"
	PrayerStatusAnswered = "answered"
	PrayerStatusArchived = "archived"
)

type PrayerRequest struct {
	Prayer_Request_ID   int        `json:"prayerRequestId" db:"prayer_request_id" goqu:"skipinsert"`
	Requester_Name      string     `json:"requesterName" db:"requester_name"`
	Requester_Email     string     `json:"requesterEmail" db:"requester_email"`
	Title               string     `json:"title" db:"title"`
	Request_Description string     `json:"requestDescription" db:"request_description"`
	Category            string     `json:"category" db:"category"`
	Is_Anonymous        bool       `json:"isAnonymous" db:"is_anonymous"`
	Email_Updates       bool       `json:"emailUpdates" db:"email_updates"`
	Status              string     `json:"status" db:"status"`
	Prayer_Status       string     `json:"prayerStatus" db:"prayer_status"`
	Denial_Reason       *string    `json:"denialReason" db:"denial_reason"`
	Approved_By         *int       `json:"approvedBy" db:"approved_by"`
	Datetime_Approved   *time.Time `json:"datetimeApproved" db:"datetime_approved"`
	Datetime_Create     time.Time  `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	Datetime_Update     time.Time  `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
	Deleted             bool       `json:"deleted" db:"deleted" goqu:"skipinsert"`
}

type PrayerRequestCreate struct {
	Requester_Name      string `json:"requesterName" binding:"required"`
	Requester_Email     string `json:"requesterEmail" binding:"required,email"`
	Title               string `json:"title" binding:"required,max=120"`
	Request_Description string `json:"requestDescription" binding:"required"`
	Category            string `json:"category"`
	Is_Anonymous        bool   `json:"isAnonymous"`
	Email_Updates       bool   `json:"emailUpdates"`
}

// PublicPrayerRequest is the shape served to non-admin callers.
// It never carries the requester email, and the name is blanked
// for anonymous requests before it leaves a handler.
type PublicPrayerRequest struct {
	Prayer_Request_ID   int       `json:"prayerRequestId" db:"prayer_request_id" goqu:"skipinsert"`
	Requester_Name      string    `json:"requesterName" db:"requester_name"`
	Title               string    `json:"title" db:"title"`
	Request_Description string    `json:"requestDescription" db:"request_description"`
	Category            string    `json:"category" db:"category"`
	Is_Anonymous        bool      `json:"isAnonymous" db:"is_anonymous"`
	Prayer_Status       string    `json:"prayerStatus" db:"prayer_status"`
	Datetime_Create     time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
}

type DenyRequest struct {
	Reason string `json:"reason"`
}
