package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PrayerWall/controllers"
	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/middlewares"
	"github.com/PrayerWall/services"
)

func init() {
	initializers.LoadEnv()
	initializers.ConnectDB()
	services.InitEmailService()
	services.InitBroadcastService()
	services.StartScheduler()
}

func main() {
	router := gin.Default()

	getKey := func(c *gin.Context) string {
		if gin.Mode() == gin.DebugMode {
			return c.FullPath()
		}
		return c.ClientIP()
	}

	router.GET("/ping", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.Ping)

	// public submission and browsing
	router.POST("/requests", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.SubmitPrayerRequest)
	router.GET("/requests", middlewares.RateLimitMiddleware(10, 10, getKey), controllers.GetApprovedRequests)
	router.GET("/requests/:prayer_request_id", middlewares.RateLimitMiddleware(10, 10, getKey), controllers.GetApprovedRequest)
	router.POST("/requests/:prayer_request_id/updates", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.SubmitPrayerUpdate)
	router.GET("/requests/:prayer_request_id/updates", middlewares.RateLimitMiddleware(10, 10, getKey), controllers.GetApprovedUpdates)

	// email ownership verification for self-service changes
	router.POST("/verification/send", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.SendVerificationCode)
	router.POST("/verification/check", middlewares.RateLimitMiddleware(5, 5, getKey), controllers.CheckVerificationCode)

	// requester self-service (requires a verification token in the body)
	router.POST("/requests/:prayer_request_id/deletion-requests", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.SubmitDeletionRequest)
	router.POST("/requests/:prayer_request_id/status-changes", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.SubmitStatusChangeRequest)
	router.POST("/requests/:prayer_request_id/preference-changes", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.SubmitPreferenceChange)

	// subscriber self-service
	router.POST("/subscribers", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.Subscribe)
	router.GET("/unsubscribe/:token", middlewares.RateLimitMiddleware(5, 5, getKey), controllers.Unsubscribe)

	// presentation views
	router.GET("/slideshow", middlewares.RateLimitMiddleware(10, 10, getKey), controllers.GetSlideshow)
	router.GET("/slideshow/ws", controllers.SlideshowSocket)

	// one-click moderation links from admin notification emails
	router.GET("/approvals/:token", middlewares.RateLimitMiddleware(5, 5, getKey), controllers.GetApprovalItem)
	router.POST("/approvals/:token", middlewares.RateLimitMiddleware(5, 5, getKey), controllers.ActOnApprovalLink)

	// admin portal login
	router.POST("/admin/login", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.AdminLogin)

	admin := router.Group("/admin")
	admin.Use(middlewares.CheckAuth)
	admin.Use(middlewares.RateLimitMiddleware(10, 10, getKey))
	{
		admin.GET("/me", controllers.GetAdminProfile)
		admin.PATCH("/me/password", controllers.ChangeAdminPassword)

		// moderation queues
		admin.GET("/pending-counts", controllers.GetPendingCounts)

		admin.GET("/requests", controllers.GetRequests)
		admin.POST("/requests/:prayer_request_id/approve", controllers.ApprovePrayerRequest)
		admin.POST("/requests/:prayer_request_id/deny", controllers.DenyPrayerRequest)

		admin.GET("/updates", controllers.GetUpdates)
		admin.POST("/updates/:prayer_update_id/approve", controllers.ApprovePrayerUpdate)
		admin.POST("/updates/:prayer_update_id/deny", controllers.DenyPrayerUpdate)

		admin.GET("/deletion-requests", controllers.GetDeletionRequests)
		admin.POST("/deletion-requests/:deletion_request_id/approve", controllers.ApproveDeletionRequest)
		admin.POST("/deletion-requests/:deletion_request_id/deny", controllers.DenyDeletionRequest)

		admin.GET("/status-changes", controllers.GetStatusChangeRequests)
		admin.POST("/status-changes/:status_change_request_id/approve", controllers.ApproveStatusChangeRequest)
		admin.POST("/status-changes/:status_change_request_id/deny", controllers.DenyStatusChangeRequest)

		admin.GET("/preference-changes", controllers.GetPreferenceChanges)
		admin.POST("/preference-changes/:preference_change_id/approve", controllers.ApprovePreferenceChange)
		admin.POST("/preference-changes/:preference_change_id/deny", controllers.DenyPreferenceChange)

		// subscriber management
		admin.GET("/subscribers", controllers.GetSubscribers)
		admin.POST("/subscribers", controllers.CreateSubscriber)
		admin.DELETE("/subscribers/:email_subscriber_id", controllers.DeleteSubscriber)
		admin.POST("/subscribers/import", controllers.ImportSubscribersCSV)

		// email templates
		admin.GET("/templates", controllers.GetEmailTemplates)
		admin.GET("/templates/:template_key", controllers.GetEmailTemplate)
		admin.PUT("/templates/:template_key", controllers.UpdateEmailTemplate)
		admin.GET("/templates/:template_key/preview", controllers.PreviewEmailTemplate)

		// backups
		admin.GET("/backups", controllers.GetBackupLogs)
		admin.POST("/backups", controllers.RunBackup)

		// bulk announcements
		admin.POST("/notifications/send", controllers.SendBulkEmail)

		// super admin only
		super := admin.Group("/")
		super.Use(middlewares.CheckSuperAdmin)
		{
			super.GET("/users", controllers.GetAdminUsers)
			super.POST("/users", controllers.AdminSignup)
			super.DELETE("/users/:admin_user_id", controllers.DeleteAdminUser)
		}
	}

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	server := &http.Server{Addr: addr, Handler: router}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	services.StopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
