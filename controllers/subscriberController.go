package controllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/models"
	"github.com/doug-martin/goqu/v9"
)

// Subscribe adds an email to the notification list. Re-subscribing an
// existing address reactivates it instead of erroring.
func Subscribe(c *gin.Context) {
	var body models.EmailSubscriberCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email address is required", "details": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	var existing models.EmailSubscriber
	found, err := initializers.DB.From("email_subscriber").
		Select("*").
		Where(goqu.C("email").Eq(email)).
		ScanStruct(&existing)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check subscription", "details": err.Error()})
		return
	}

	if found {
		if existing.Is_Active {
			c.JSON(http.StatusOK, gin.H{"message": "This email is already subscribed."})
			return
		}

		reactivate := initializers.DB.Update("email_subscriber").
			Set(goqu.Record{
				"is_active":       true,
				"datetime_update": goqu.L("NOW()"),
			}).
			Where(goqu.C("email_subscriber_id").Eq(existing.Email_Subscriber_ID)).
			Executor()

		if _, err := reactivate.Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reactivate subscription", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Subscription reactivated."})
		return
	}

	newSubscriber := models.EmailSubscriber{
		Email:             email,
		Subscriber_Name:   body.Subscriber_Name,
		Is_Active:         true,
		Unsubscribe_Token: uuid.NewString(),
	}

	insert := initializers.DB.Insert("email_subscriber").Rows(newSubscriber).Executor()
	if _, err := insert.Exec(); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscribed successfully."})
}

// Unsubscribe deactivates the subscriber behind a tokenized link. Served
// from email footers, so it is a GET with no body.
func Unsubscribe(c *gin.Context) {
	token := c.Param("token")

	update := initializers.DB.Update("email_subscriber").
		Set(goqu.Record{
			"is_active":       false,
			"datetime_update": goqu.L("NOW()"),
		}).
		Where(goqu.C("unsubscribe_token").Eq(token), goqu.C("is_active").IsTrue())

	result, err := update.Executor().Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe", "details": err.Error()})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unsubscribe link is invalid or already used"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "You have been unsubscribed."})
}

func GetSubscribers(c *gin.Context) {
	var subscribers []models.EmailSubscriber
	err := initializers.DB.From("email_subscriber").
		Select("*").
		Order(goqu.C("email").Asc()).
		ScanStructs(&subscribers)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscribers", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscribers": subscribers})
}

// CreateSubscriber is the admin version of Subscribe; same semantics.
func CreateSubscriber(c *gin.Context) {
	Subscribe(c)
}

func DeleteSubscriber(c *gin.Context) {
	subscriberID, err := strconv.Atoi(c.Param("email_subscriber_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscriber ID", "details": err.Error()})
		return
	}

	result, err := initializers.DB.Delete("email_subscriber").
		Where(goqu.C("email_subscriber_id").Eq(subscriberID)).
		Executor().Exec()

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subscriber", "details": err.Error()})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscriber not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscriber deleted successfully."})
}

// ImportSubscribersCSV bulk-loads subscribers from an uploaded CSV with
// an `email,name` header row. Malformed and duplicate rows are skipped
// and reported; the import itself keeps going.
func ImportSubscribersCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file upload is required", "details": err.Error()})
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read CSV header", "details": err.Error()})
		return
	}

	if len(header) < 1 || !strings.EqualFold(strings.TrimSpace(header[0]), "email") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV must start with an 'email,name' header row"})
		return
	}

	imported := 0
	skipped := 0
	var rowErrors []string

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			skipped++
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: missing email", line))
			continue
		}

		email := strings.ToLower(strings.TrimSpace(record[0]))
		if _, err := mail.ParseAddress(email); err != nil {
			skipped++
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: invalid email %q", line, email))
			continue
		}

		name := ""
		if len(record) > 1 {
			name = strings.TrimSpace(record[1])
		}

		var count int
		_, err = initializers.DB.From("email_subscriber").
			Select(goqu.COUNT("*")).
			Where(goqu.C("email").Eq(email)).
			ScanVal(&count)
		if err != nil {
			skipped++
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: lookup failed: %v", line, err))
			continue
		}

		if count > 0 {
			skipped++
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %s already subscribed", line, email))
			continue
		}

		newSubscriber := models.EmailSubscriber{
			Email:             email,
			Subscriber_Name:   name,
			Is_Active:         true,
			Unsubscribe_Token: uuid.NewString(),
		}

		insert := initializers.DB.Insert("email_subscriber").Rows(newSubscriber).Executor()
		if _, err := insert.Exec(); err != nil {
			skipped++
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: insert failed: %v", line, err))
			continue
		}

		imported++
	}

	log.Printf("Subscriber CSV import: %d imported, %d skipped", imported, skipped)

	c.JSON(http.StatusOK, gin.H{
		"message":  "CSV import finished.",
		"imported": imported,
		"skipped":  skipped,
		"errors":   rowErrors,
	})
}
