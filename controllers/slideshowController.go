package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/models"
	"github.com/PrayerWall/services"
	"github.com/doug-martin/goqu/v9"
)

const (
	desktopSlideCount = 10
	mobileSlideCount  = 5
)

type slideshowSlide struct {
	Request      models.PublicPrayerRequest `json:"request"`
	LatestUpdate *models.PublicPrayerUpdate `json:"latestUpdate"`
}

// GetSlideshow returns the rotation feed for presentation screens. Desktop
// displays get 10 slides, mobile gets 5, newest approvals first. Each slide
// carries the most recent approved update for its request, if any.
func GetSlideshow(c *gin.Context) {
	mode := c.DefaultQuery("mode", "desktop")
	if mode != "desktop" && mode != "mobile" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mode must be 'desktop' or 'mobile'"})
		return
	}

	limit := desktopSlideCount
	if mode == "mobile" {
		limit = mobileSlideCount
	}

	var requests []models.PublicPrayerRequest
	err := initializers.DB.From("prayer_request").
		Select("prayer_request_id", "requester_name", "title", "request_description",
			"category", "is_anonymous", "prayer_status", "datetime_create").
		Where(
			goqu.C("status").Eq(models.StatusApproved),
			goqu.C("prayer_status").Eq(models.PrayerStatusActive),
			goqu.C("deleted").IsFalse(),
		).
		Order(goqu.C("datetime_approved").Desc()).
		Limit(uint(limit)).
		ScanStructs(&requests)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch slideshow", "details": err.Error()})
		return
	}

	slides := make([]slideshowSlide, 0, len(requests))
	for i := range requests {
		if requests[i].Is_Anonymous {
			requests[i].Requester_Name = anonymousDisplayName
		}

		slide := slideshowSlide{Request: requests[i]}

		var latest models.PublicPrayerUpdate
		found, err := initializers.DB.From("prayer_update").
			Select("prayer_update_id", "prayer_request_id", "update_description", "datetime_create").
			Where(
				goqu.C("prayer_request_id").Eq(requests[i].Prayer_Request_ID),
				goqu.C("status").Eq(models.StatusApproved),
				goqu.C("deleted").IsFalse(),
			).
			Order(goqu.C("datetime_approved").Desc()).
			Limit(1).
			ScanStruct(&latest)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch slideshow updates", "details": err.Error()})
			return
		}
		if found {
			slide.LatestUpdate = &latest
		}

		slides = append(slides, slide)
	}

	c.JSON(http.StatusOK, gin.H{"mode": mode, "slides": slides})
}

var slideshowUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The slideshow feed is public read-only data, so any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SlideshowSocket upgrades the connection and registers it with the
// broadcast hub so presentation views refresh the moment moderation
// decisions land.
func SlideshowSocket(c *gin.Context) {
	conn, err := slideshowUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("Slideshow websocket upgrade failed:", err)
		return
	}

	hub := services.GetBroadcastService()
	if hub == nil {
		conn.Close()
		return
	}

	hub.Register(conn)

	// Drain reads until the client goes away. Clients never send
	// meaningful frames; this just keeps ping/pong handling alive.
	go func() {
		defer func() {
			hub.Unregister(conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
