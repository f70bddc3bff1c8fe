package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/models"
	"github.com/PrayerWall/services"
	"github.com/doug-martin/goqu/v9"
)

var knownTemplateKeys = map[string]bool{
	models.TemplateRequestApproved: true,
	models.TemplateRequestDenied:   true,
	models.TemplateUpdateApproved:  true,
	models.TemplateNewForApproval:  true,
	models.TemplateBulkAnnounce:    true,
}

func GetEmailTemplates(c *gin.Context) {
	var templates []models.EmailTemplate
	err := initializers.DB.From("email_template").
		Select("*").
		Order(goqu.C("template_key").Asc()).
		ScanStructs(&templates)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch email templates", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func GetEmailTemplate(c *gin.Context) {
	key := c.Param("template_key")
	if !knownTemplateKeys[key] {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown template key"})
		return
	}

	var template models.EmailTemplate
	found, err := initializers.DB.From("email_template").
		Select("*").
		Where(goqu.C("template_key").Eq(key)).
		ScanStruct(&template)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch email template", "details": err.Error()})
		return
	}

	if !found {
		c.JSON(http.StatusOK, gin.H{"template": nil, "message": "No custom template saved; the built-in body is in use."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": template})
}

// UpdateEmailTemplate upserts the custom body for a template key. The
// email service picks up the new row on its next send.
func UpdateEmailTemplate(c *gin.Context) {
	key := c.Param("template_key")
	if !knownTemplateKeys[key] {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown template key"})
		return
	}

	var body models.EmailTemplateUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subject and HTML body are required", "details": err.Error()})
		return
	}

	admin := c.MustGet("currentAdmin").(models.AdminUser)

	var existingID int
	found, err := initializers.DB.From("email_template").
		Select("email_template_id").
		Where(goqu.C("template_key").Eq(key)).
		ScanVal(&existingID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing template", "details": err.Error()})
		return
	}

	if found {
		update := initializers.DB.Update("email_template").
			Set(goqu.Record{
				"subject":         body.Subject,
				"html_body":       body.HTML_Body,
				"text_body":       body.Text_Body,
				"updated_by":      admin.Admin_User_ID,
				"datetime_update": goqu.L("NOW()"),
			}).
			Where(goqu.C("email_template_id").Eq(existingID)).
			Executor()

		if _, err := update.Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update email template", "details": err.Error()})
			return
		}
	} else {
		newTemplate := models.EmailTemplate{
			Template_Key: key,
			Subject:      body.Subject,
			HTML_Body:    body.HTML_Body,
			Text_Body:    body.Text_Body,
			Updated_By:   admin.Admin_User_ID,
		}

		insert := initializers.DB.Insert("email_template").Rows(newTemplate).Executor()
		if _, err := insert.Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save email template", "details": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email template saved successfully."})
}

// PreviewEmailTemplate renders the template with sample data so admins
// can see the result before anything is sent.
func PreviewEmailTemplate(c *gin.Context) {
	key := c.Param("template_key")
	if !knownTemplateKeys[key] {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown template key"})
		return
	}

	subject, html, text, ok := services.RenderTemplatePreview(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No custom template saved for this key; nothing to preview"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subject": subject,
		"html":    html,
		"text":    text,
	})
}
