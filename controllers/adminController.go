package controllers

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/models"
	"github.com/doug-martin/goqu/v9"
	"golang.org/x/crypto/bcrypt"
)

func AdminLogin(c *gin.Context) {
	var login models.AdminLogin

	if err := c.ShouldBindJSON(&login); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var admin models.AdminUser
	found, err := initializers.DB.From("admin_user").
		Select("*").
		Where(goqu.C("username").Eq(login.Username), goqu.C("deleted").Eq(false)).
		ScanStruct(&admin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(login.Password))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	role := "admin"
	if admin.Is_Super_Admin {
		role = "super_admin"
	}

	generateToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   admin.Admin_User_ID,
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
		"role": role,
	})

	token, err := generateToken.SignedString([]byte(os.Getenv("SECRET")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(200, gin.H{
		"message": "Admin logged in successfully.",
		"token":   token,
		"admin":   admin,
	})
}

func GetAdminProfile(c *gin.Context) {
	admin, _ := c.Get("currentAdmin")

	c.JSON(200, gin.H{
		"admin":      admin,
		"superAdmin": c.MustGet("superAdmin"),
	})
}

func ChangeAdminPassword(c *gin.Context) {
	admin := c.MustGet("currentAdmin").(models.AdminUser)

	var req models.AdminChangePassword
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Old_Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.New_Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	update := initializers.DB.Update("admin_user").
		Set(goqu.Record{
			"password":        string(passwordHash),
			"updated_by":      admin.Admin_User_ID,
			"datetime_update": goqu.L("NOW()"),
		}).
		Where(goqu.C("admin_user_id").Eq(admin.Admin_User_ID)).
		Executor()

	if _, err := update.Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully."})
}

// AdminSignup creates a new admin account. Super-admin only (enforced by
// the CheckSuperAdmin middleware on the route).
func AdminSignup(c *gin.Context) {
	currentAdmin := c.MustGet("currentAdmin").(models.AdminUser)

	var signup models.AdminSignup
	if err := c.ShouldBindJSON(&signup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminCount, err := initializers.DB.From("admin_user").
		Select("username").
		Where(goqu.C("username").Eq(signup.Username)).
		Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if adminCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists."})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newAdmin := models.AdminUser{
		Username:       signup.Username,
		Password:       string(passwordHash),
		Email:          signup.Email,
		First_Name:     signup.First_Name,
		Last_Name:      signup.Last_Name,
		Is_Super_Admin: signup.Is_Super_Admin,
		Created_By:     currentAdmin.Admin_User_ID,
		Updated_By:     currentAdmin.Admin_User_ID,
	}

	insert := initializers.DB.Insert("admin_user").Rows(newAdmin).Executor()
	if _, err := insert.Exec(); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"message": "Admin created successfully.",
		"admin":   gin.H{"username": signup.Username, "email": signup.Email},
	})
}

func GetAdminUsers(c *gin.Context) {
	var admins []models.AdminUser
	err := initializers.DB.From("admin_user").
		Select("*").
		Where(goqu.C("deleted").Eq(false)).
		Order(goqu.C("admin_user_id").Asc()).
		ScanStructs(&admins)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admin users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

func DeleteAdminUser(c *gin.Context) {
	currentAdmin := c.MustGet("currentAdmin").(models.AdminUser)

	adminID, err := strconv.Atoi(c.Param("admin_user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid admin user ID", "details": err.Error()})
		return
	}

	if adminID == currentAdmin.Admin_User_ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	update := initializers.DB.Update("admin_user").
		Set(goqu.Record{
			"deleted":         true,
			"updated_by":      currentAdmin.Admin_User_ID,
			"datetime_update": goqu.L("NOW()"),
		}).
		Where(goqu.C("admin_user_id").Eq(adminID), goqu.C("deleted").Eq(false))

	result, err := update.Executor().Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete admin user", "details": err.Error()})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin user deleted successfully."})
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
