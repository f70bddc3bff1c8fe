package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/models"
)

// Bulk sends go out in fixed-size batches with a flat delay between
// batches to stay under the mail provider's rate limits.
const (
	bulkBatchSize  = 10
	bulkBatchDelay = 1 * time.Second
)

// QueueBulkAnnouncement fetches the active subscriber list and sends the
// announcement asynchronously. Returns the number of recipients queued.
func QueueBulkAnnouncement(subject string, body string) (int, error) {
	var subscribers []models.EmailSubscriber
	err := initializers.DB.From("email_subscriber").
		Select("*").
		Where(goqu.C("is_active").IsTrue()).
		Order(goqu.C("email_subscriber_id").Asc()).
		ScanStructs(&subscribers)

	if err != nil {
		return 0, fmt.Errorf("failed to load subscribers: %v", err)
	}

	if len(subscribers) == 0 {
		return 0, nil
	}

	go sendBulkAnnouncement(subscribers, subject, body)

	return len(subscribers), nil
}

func sendBulkAnnouncement(subscribers []models.EmailSubscriber, subject string, body string) {
	svc := GetEmailService()
	if svc == nil {
		log.Println("Bulk announcement skipped: email service not initialized")
		return
	}

	baseURL := os.Getenv("APPROVAL_LINK_BASE_URL")
	sent := 0
	failed := 0

	for start := 0; start < len(subscribers); start += bulkBatchSize {
		end := start + bulkBatchSize
		if end > len(subscribers) {
			end = len(subscribers)
		}

		for _, sub := range subscribers[start:end] {
			unsubLink := fmt.Sprintf("%s/unsubscribe/%s", baseURL, sub.Unsubscribe_Token)

			data := TemplateData{
				Name:            sub.Subscriber_Name,
				Body:            body,
				UnsubscribeLink: unsubLink,
			}

			var htmlBody, textBody, subj string
			if s, h, tx, ok := renderTemplate(models.TemplateBulkAnnounce, data); ok {
				subj, htmlBody, textBody = s, h, tx
			} else {
				subj = subject
				inner := fmt.Sprintf(`
        <p>%s</p>

        <p style="font-size: 12px; color: #666;">
            <a href="%s">Unsubscribe from these emails</a>
        </p>
`, body, unsubLink)
				htmlBody = wrapHTML(subject, inner)
				textBody = fmt.Sprintf("%s\n\n%s\n\nUnsubscribe: %s\n", subject, body, unsubLink)
			}

			if err := svc.send([]string{sub.Email}, subj, htmlBody, textBody); err != nil {
				// Keep going; one bad address should not stop the run
				log.Printf("Bulk announcement send failed for %s: %v", sub.Email, err)
				failed++
				continue
			}
			sent++
		}

		if end < len(subscribers) {
			time.Sleep(bulkBatchDelay)
		}
	}

	log.Printf("Bulk announcement %q finished: %d sent, %d failed", subject, sent, failed)
}
