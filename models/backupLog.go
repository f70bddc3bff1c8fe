package models

import "time"

const (
	BackupTypeScheduled = "scheduled"
	BackupTypeManual    = "manual"

	BackupStatusCompleted = "completed"
	BackupStatusFailed    = "failed"
)

type BackupLog struct {
	Backup_Log_ID    int       `json:"backupLogId" db:"backup_log_id" goqu:"skipinsert"`
	Backup_Type      string    `json:"backupType" db:"backup_type"`
	Backup_Status    string    `json:"backupStatus" db:"backup_status"`
	Request_Count    int       `json:"requestCount" db:"request_count"`
	Update_Count     int       `json:"updateCount" db:"update_count"`
	Subscriber_Count int       `json:"subscriberCount" db:"subscriber_count"`
	Error_Message    *string   `json:"errorMessage" db:"error_message"`
	Datetime_Create  time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
}
