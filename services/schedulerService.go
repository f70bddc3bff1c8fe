package services

import (
	"log"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/robfig/cron/v3"

	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/models"
)

var scheduler *cron.Cron

// StartScheduler wires the recurring jobs: nightly backup snapshot,
// hourly cleanup of expired codes and tokens, and a Monday morning
// pending-queue digest for admins.
func StartScheduler() {
	scheduler = cron.New()

	if _, err := scheduler.AddFunc("30 2 * * *", func() {
		if _, err := RunBackupSnapshot(models.BackupTypeScheduled); err != nil {
			log.Printf("Scheduled backup snapshot failed: %v", err)
		}
	}); err != nil {
		log.Printf("Failed to schedule backup snapshot: %v", err)
	}

	if _, err := scheduler.AddFunc("0 * * * *", CleanupExpiredTokens); err != nil {
		log.Printf("Failed to schedule token cleanup: %v", err)
	}

	if _, err := scheduler.AddFunc("0 8 * * 1", SendPendingDigest); err != nil {
		log.Printf("Failed to schedule pending digest: %v", err)
	}

	scheduler.Start()
	log.Println("Scheduler started")
}

// StopScheduler stops the cron runner, waiting for in-flight jobs.
func StopScheduler() {
	if scheduler != nil {
		ctx := scheduler.Stop()
		<-ctx.Done()
	}
}

// RunBackupSnapshot counts the live rows per table and records a
// backup_log entry. Shared by the scheduler and the manual admin endpoint.
func RunBackupSnapshot(backupType string) (models.BackupLog, error) {
	entry := models.BackupLog{
		Backup_Type:   backupType,
		Backup_Status: models.BackupStatusCompleted,
	}

	count := func(table string, where ...goqu.Expression) (int, error) {
		var n int
		q := initializers.DB.From(table).Select(goqu.COUNT("*"))
		if len(where) > 0 {
			q = q.Where(where...)
		}
		_, err := q.ScanVal(&n)
		return n, err
	}

	var firstErr error
	if n, err := count("prayer_request", goqu.C("deleted").Eq(false)); err != nil {
		firstErr = err
	} else {
		entry.Request_Count = n
	}
	if n, err := count("prayer_update", goqu.C("deleted").Eq(false)); err != nil && firstErr == nil {
		firstErr = err
	} else {
		entry.Update_Count = n
	}
	if n, err := count("email_subscriber", goqu.C("is_active").IsTrue()); err != nil && firstErr == nil {
		firstErr = err
	} else {
		entry.Subscriber_Count = n
	}

	if firstErr != nil {
		entry.Backup_Status = models.BackupStatusFailed
		msg := firstErr.Error()
		entry.Error_Message = &msg
	}

	insert := initializers.DB.Insert("backup_log").Rows(entry).Executor()
	if _, err := insert.Exec(); err != nil {
		log.Printf("Failed to record backup log: %v", err)
		return entry, err
	}

	if firstErr != nil {
		return entry, firstErr
	}

	log.Printf("Backup snapshot recorded: %d requests, %d updates, %d subscribers",
		entry.Request_Count, entry.Update_Count, entry.Subscriber_Count)
	return entry, nil
}

// CleanupExpiredTokens deletes verification codes and approval tokens
// that are past expiry or already consumed and older than a day.
func CleanupExpiredTokens() {
	cutoff := time.Now().Add(-24 * time.Hour)

	res, err := initializers.DB.Delete("verification_code").
		Where(goqu.Or(
			goqu.C("expires_at").Lt(time.Now()),
			goqu.And(goqu.C("used").IsTrue(), goqu.C("created_at").Lt(cutoff)),
		)).
		Executor().Exec()
	if err != nil {
		log.Printf("Failed to clean up verification codes: %v", err)
	} else if n, _ := res.RowsAffected(); n > 0 {
		log.Printf("Cleaned up %d expired verification codes", n)
	}

	res, err = initializers.DB.Delete("approval_token").
		Where(goqu.Or(
			goqu.C("expires_at").Lt(time.Now()),
			goqu.And(goqu.C("used").IsTrue(), goqu.C("created_at").Lt(cutoff)),
		)).
		Executor().Exec()
	if err != nil {
		log.Printf("Failed to clean up approval tokens: %v", err)
	} else if n, _ := res.RowsAffected(); n > 0 {
		log.Printf("Cleaned up %d expired approval tokens", n)
	}
}

// SendPendingDigest emails admins a summary of the moderation queues.
func SendPendingDigest() {
	svc := GetEmailService()
	if svc == nil {
		return
	}

	emails := adminNotifyEmails()
	if len(emails) == 0 {
		return
	}

	pending := func(table string) int {
		var n int
		_, err := initializers.DB.From(table).
			Select(goqu.COUNT("*")).
			Where(goqu.C("status").Eq(models.StatusPending)).
			ScanVal(&n)
		if err != nil {
			log.Printf("Failed to count pending rows in %s: %v", table, err)
		}
		return n
	}

	err := svc.SendPendingDigestEmail(
		emails,
		pending("prayer_request"),
		pending("prayer_update"),
		pending("deletion_request"),
		pending("status_change_request"),
		pending("preference_change"),
	)
	if err != nil {
		log.Printf("Failed to send pending digest: %v", err)
	}
}
