package controllers

import (
	"time"

	"github.com/PrayerWall/models"
	"golang.org/x/crypto/bcrypt"
)

// Test fixture data for use in tests

// MockAdmin creates a sample admin user for testing
func MockAdmin() models.AdminUser {
	return models.AdminUser{
		Admin_User_ID:   1,
		Username:        "testadmin",
		Email:           "admin@example.com",
		First_Name:      "Test",
		Last_Name:       "Admin",
		Is_Super_Admin:  false,
		Created_By:      1,
		Updated_By:      1,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

// MockAdminWithPassword creates a sample admin with a bcrypt hashed password
// Password is "password123" - use this in tests
func MockAdminWithPassword() models.AdminUser {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	admin := MockAdmin()
	admin.Password = string(hashedPassword)
	return admin
}

// MockSuperAdmin creates a sample super admin for testing
func MockSuperAdmin() models.AdminUser {
	return models.AdminUser{
		Admin_User_ID:   2,
		Username:        "superadmin",
		Email:           "super@example.com",
		First_Name:      "Super",
		Last_Name:       "Admin",
		Is_Super_Admin:  true,
		Created_By:      1,
		Updated_By:      1,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

// MockPrayerRequest creates a sample pending prayer request for testing
func MockPrayerRequest() models.PrayerRequest {
	return models.PrayerRequest{
		Prayer_Request_ID:   1,
		Requester_Name:      "Jane Member",
		Requester_Email:     "jane@example.com",
		Title:               "Healing for my mother",
		Request_Description: "Please pray for my mother's recovery after surgery.",
		Category:            "health",
		Is_Anonymous:        false,
		Email_Updates:       true,
		Status:              models.StatusPending,
		Prayer_Status:       models.PrayerStatusActive,
		Datetime_Create:     time.Now(),
		Datetime_Update:     time.Now(),
	}
}

// MockApprovedPrayerRequest creates a sample approved prayer request
func MockApprovedPrayerRequest() models.PrayerRequest {
	request := MockPrayerRequest()
	approvedBy := 1
	approvedAt := time.Now()
	request.Status = models.StatusApproved
	request.Approved_By = &approvedBy
	request.Datetime_Approved = &approvedAt
	return request
}

// MockEmailSubscriber creates a sample active subscriber for testing
func MockEmailSubscriber() models.EmailSubscriber {
	return models.EmailSubscriber{
		Email_Subscriber_ID: 1,
		Email:               "subscriber@example.com",
		Subscriber_Name:     "Sam Subscriber",
		Is_Active:           true,
		Unsubscribe_Token:   "11111111-2222-3333-4444-555555555555",
		Datetime_Subscribed: time.Now(),
		Datetime_Update:     time.Now(),
	}
}
