package models

import "time"

// Template keys known to the email service. Templates are editable
// through the admin portal; missing rows fall back to built-in bodies.
const (
	TemplateRequestApproved = "request_approved"
	TemplateRequestDenied   = "request_denied"
	TemplateUpdateApproved  = "update_approved"
	TemplateNewForApproval  = "new_for_approval"
	TemplateBulkAnnounce    = "bulk_announcement"
)

type EmailTemplate struct {
	Email_Template_ID int       `json:"emailTemplateId" db:"email_template_id" goqu:"skipinsert"`
	Template_Key      string    `json:"templateKey" db:"template_key"`
	Subject           string    `json:"subject" db:"subject"`
	HTML_Body         string    `json:"htmlBody" db:"html_body"`
	Text_Body         string    `json:"textBody" db:"text_body"`
	Updated_By        int       `json:"updatedBy" db:"updated_by"`
	Datetime_Create   time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	Datetime_Update   time.Time `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
}

type EmailTemplateUpdate struct {
	Subject   string `json:"subject" binding:"required"`
	HTML_Body string `json:"htmlBody" binding:"required"`
	Text_Body string `json:"textBody"`
}
