package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/models"
)

const approvalTokenTTL = 72 * time.Hour

// adminNotifyEmails resolves the recipients for moderation emails:
// ADMIN_NOTIFY_EMAILS (comma separated) when set, otherwise every
// non-deleted admin_user with an email on file.
func adminNotifyEmails() []string {
	if raw := os.Getenv("ADMIN_NOTIFY_EMAILS"); raw != "" {
		var emails []string
		for _, e := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(e); trimmed != "" {
				emails = append(emails, trimmed)
			}
		}
		return emails
	}

	var emails []string
	err := initializers.DB.From("admin_user").
		Select("email").
		Where(goqu.C("deleted").Eq(false), goqu.C("email").Neq("")).
		ScanVals(&emails)
	if err != nil {
		log.Printf("Failed to load admin emails: %v", err)
		return nil
	}
	return emails
}

// MintApprovalToken inserts a single-use approval token for the target
// and returns the full approval link.
func MintApprovalToken(targetType string, targetID int, createdBy int) (string, error) {
	token := uuid.NewString()

	row := models.ApprovalToken{
		Token:       token,
		Target_Type: targetType,
		Target_ID:   targetID,
		Expires_At:  time.Now().Add(approvalTokenTTL),
		Used:        false,
		Attempts:    0,
		Created_By:  createdBy,
	}

	insert := initializers.DB.Insert("approval_token").Rows(row).Executor()
	if _, err := insert.Exec(); err != nil {
		return "", fmt.Errorf("failed to store approval token: %v", err)
	}

	baseURL := os.Getenv("APPROVAL_LINK_BASE_URL")
	return fmt.Sprintf("%s/approvals/%s", baseURL, token), nil
}

// NotifyAdminsOfPending mints an approval token and emails every admin a
// direct approval link for the new queue item. Called from controllers in
// a goroutine; failures are logged, never surfaced to the submitter.
func NotifyAdminsOfPending(targetType string, targetID int, kind string, summary string) {
	emails := adminNotifyEmails()
	if len(emails) == 0 {
		log.Printf("No admin emails configured; skipping approval notification for %s %d", targetType, targetID)
		return
	}

	link, err := MintApprovalToken(targetType, targetID, 0)
	if err != nil {
		log.Printf("Failed to mint approval token for %s %d: %v", targetType, targetID, err)
		return
	}

	svc := GetEmailService()
	if svc == nil {
		log.Println("Email service not available; skipping approval notification")
		return
	}

	if err := svc.SendApprovalRequestEmail(emails, kind, summary, link); err != nil {
		log.Printf("Failed to send approval notification for %s %d: %v", targetType, targetID, err)
	}
}

// NotifyRequesterOfDecision emails the requester after an approve/deny
// decision when an address is on file. Blank emails are skipped.
func NotifyRequesterOfDecision(email string, name string, title string, approved bool, reason string) {
	if email == "" {
		return
	}

	svc := GetEmailService()
	if svc == nil {
		return
	}

	var err error
	if approved {
		err = svc.SendRequestApprovedEmail(email, name, title)
	} else {
		err = svc.SendRequestDeniedEmail(email, name, title, reason)
	}
	if err != nil {
		log.Printf("Failed to send decision email to %s: %v", email, err)
	}
}
