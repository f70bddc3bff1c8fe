package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PrayerWall/services"
)

type bulkEmailRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// SendBulkEmail queues an announcement to every active subscriber.
// Delivery happens in the background; the response reports how many
// recipients were queued.
func SendBulkEmail(c *gin.Context) {
	var body bulkEmailRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subject and body are required", "details": err.Error()})
		return
	}

	queued, err := services.QueueBulkAnnouncement(body.Subject, body.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue announcement", "details": err.Error()})
		return
	}

	if queued == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No active subscribers to notify.", "queued": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Announcement queued for delivery.", "queued": queued})
}
