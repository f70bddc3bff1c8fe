package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func CheckSuperAdmin(c *gin.Context) {
	isSuperAdmin := c.MustGet("superAdmin").(bool)

	if !isSuperAdmin {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
}
