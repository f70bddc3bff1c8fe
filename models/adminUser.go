package models

import "time"

type AdminUser struct {
	Admin_User_ID   int       `json:"adminUserId" db:"admin_user_id" goqu:"skipinsert"`
	Username        string    `json:"username" db:"username"`
	Password        string    `json:"-" db:"password"`
	Email           string    `json:"email" db:"email"`
	First_Name      string    `json:"firstName" db:"first_name"`
	Last_Name       string    `json:"lastName" db:"last_name"`
	Is_Super_Admin  bool      `json:"isSuperAdmin" db:"is_super_admin"`
	Created_By      int       `json:"createdBy" db:"created_by"`
	Datetime_Create time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	Updated_By      int       `json:"updatedBy" db:"updated_by"`
	Datetime_Update time.Time `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
	Deleted         bool      `json:"deleted" db:"deleted" goqu:"skipinsert"`
}

type AdminLogin struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminSignup struct {
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required,min=8"`
	Email          string `json:"email" binding:"required,email"`
	First_Name     string `json:"firstName"`
	Last_Name      string `json:"lastName"`
	Is_Super_Admin bool   `json:"isSuperAdmin"`
}

type AdminChangePassword struct {
	Old_Password string `json:"oldPassword" binding:"required"`
	New_Password string `json:"newPassword" binding:"required,min=8"`
}
