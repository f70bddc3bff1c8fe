package services

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strings"
	"text/template"

	"github.com/doug-martin/goqu/v9"
	"github.com/resend/resend-go/v2"

	"github.com/PrayerWall/initializers"
	"github.com/PrayerWall/models"
)

type EmailService struct {
	client *resend.Client
	from   string
}

var emailService *EmailService

// InitEmailService initializes the email service with Resend API
func InitEmailService() {
	apiKey := os.Getenv("RESEND_API_KEY")

	if apiKey == "" {
		log.Println("WARNING: RESEND_API_KEY not set. Email service will not be available.")
		return
	}

	emailService = &EmailService{
		client: resend.NewClient(apiKey),
		from:   os.Getenv("RESEND_FROM_EMAIL"),
	}

	log.Println("Email service initialized successfully with Resend")
}

// GetEmailService returns the singleton email service instance
func GetEmailService() *EmailService {
	return emailService
}

// TemplateData carries the substitution values available to admin-edited
// email templates.
type TemplateData struct {
	Name            string
	Title           string
	Code            string
	Link            string
	Reason          string
	Body            string
	UnsubscribeLink string
}

const emailStyle = `
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            text-align: center;
            padding: 20px 0;
            border-bottom: 2px solid #7a9cc6;
        }
        .header h1 {
            color: #7a9cc6;
            margin: 0;
        }
        .content {
            padding: 30px 0;
        }
        .code-container {
            background-color: #f5f5f5;
            border: 2px solid #7a9cc6;
            border-radius: 8px;
            padding: 20px;
            text-align: center;
            margin: 20px 0;
        }
        .code {
            font-size: 32px;
            font-weight: bold;
            letter-spacing: 8px;
            color: #7a9cc6;
            font-family: monospace;
        }
        .button {
            display: inline-block;
            background-color: #7a9cc6;
            color: #fff;
            padding: 12px 24px;
            border-radius: 6px;
            text-decoration: none;
            margin: 8px 4px;
        }
        .footer {
            text-align: center;
            padding: 20px 0;
            border-top: 1px solid #ddd;
            font-size: 12px;
            color: #666;
        }
`

func wrapHTML(heading string, inner string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>%s</style>
</head>
<body>
    <div class="header">
        <h1>Prayer Wall</h1>
    </div>

    <div class="content">
        <h2>%s</h2>
%s
    </div>

    <div class="footer">
        <p>&copy; 2026 Prayer Wall. All rights reserved.</p>
        <p>This is an automated message, please do not reply directly to this email.</p>
    </div>
</body>
</html>
`, emailStyle, heading, inner)
}

// renderTemplate loads an admin-edited template by key and substitutes
// the data values. Returns ok=false when no row exists so callers can
// fall back to the built-in body.
func renderTemplate(key string, data TemplateData) (subject string, html string, text string, ok bool) {
	var row models.EmailTemplate
	found, err := initializers.DB.From("email_template").
		Select("*").
		Where(goqu.C("template_key").Eq(key)).
		ScanStruct(&row)

	if err != nil || !found {
		return "", "", "", false
	}

	render := func(body string) (string, bool) {
		tmpl, err := template.New(key).Parse(body)
		if err != nil {
			log.Printf("Bad email template %s: %v", key, err)
			return "", false
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			log.Printf("Failed to render email template %s: %v", key, err)
			return "", false
		}
		return buf.String(), true
	}

	subject, sok := render(row.Subject)
	html, hok := render(row.HTML_Body)
	text, tok := render(row.Text_Body)
	if !sok || !hok || !tok {
		return "", "", "", false
	}
	return subject, html, text, true
}

// RenderTemplatePreview renders a stored template with sample data for
// the admin portal preview endpoint.
func RenderTemplatePreview(key string) (subject string, html string, text string, ok bool) {
	sample := TemplateData{
		Name:            "Jane",
		Title:           "Healing for my mother",
		Code:            "123456",
		Link:            "https://example.org/approvals/sample-token",
		Reason:          "Please resubmit without full names.",
		Body:            "This is a sample announcement body.",
		UnsubscribeLink: "https://example.org/unsubscribe/sample-token",
	}
	return renderTemplate(key, sample)
}

func (s *EmailService) send(to []string, subject string, htmlBody string, textBody string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("email service not initialized")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    htmlBody,
		Text:    textBody,
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		log.Printf("Failed to send email to %s: %v", strings.Join(to, ", "), err)
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.Printf("Successfully sent email %q to %s. Email ID: %s", subject, strings.Join(to, ", "), sent.Id)
	return nil
}

// SendVerificationCodeEmail sends the 6-digit identity code used before
// member-initiated moderation requests.
func (s *EmailService) SendVerificationCodeEmail(toEmail string, code string) error {
	inner := fmt.Sprintf(`
        <p>Use the verification code below to confirm your email address:</p>

        <div class="code-container">
            <div class="code">%s</div>
        </div>

        <p><strong>This code will expire in 15 minutes.</strong></p>

        <p>If you didn't request a code, you can safely ignore this email.</p>
`, code)

	textBody := fmt.Sprintf(`
Verify Your Email

Use the verification code below to confirm your email address:

Your verification code: %s

This code will expire in 15 minutes.

If you didn't request a code, you can safely ignore this email.
`, code)

	data := TemplateData{Code: code}
	if subject, html, text, ok := renderTemplate("verification_code", data); ok {
		return s.send([]string{toEmail}, subject, html, text)
	}

	return s.send([]string{toEmail}, "Your Prayer Wall verification code", wrapHTML("Verify Your Email", inner), textBody)
}

// SendApprovalRequestEmail notifies administrators that a new item is
// waiting in the moderation queue, with a direct approval link.
func (s *EmailService) SendApprovalRequestEmail(adminEmails []string, kind string, summary string, link string) error {
	inner := fmt.Sprintf(`
        <p>A new <strong>%s</strong> is waiting for review:</p>

        <blockquote>%s</blockquote>

        <p>
            <a class="button" href="%s">Review and approve</a>
        </p>

        <p>This link expires in 72 hours. You can also act on it from the admin portal.</p>
`, kind, summary, link)

	textBody := fmt.Sprintf(`
New Item for Approval

A new %s is waiting for review:

  %s

Review it here (expires in 72 hours): %s

You can also act on it from the admin portal.
`, kind, summary, link)

	data := TemplateData{Title: summary, Link: link}
	if subject, html, text, ok := renderTemplate(models.TemplateNewForApproval, data); ok {
		return s.send(adminEmails, subject, html, text)
	}

	return s.send(adminEmails, fmt.Sprintf("New %s waiting for approval", kind), wrapHTML("New Item for Approval", inner), textBody)
}

// SendRequestApprovedEmail tells the requester their prayer request is live.
func (s *EmailService) SendRequestApprovedEmail(toEmail string, name string, title string) error {
	inner := fmt.Sprintf(`
        <p>Hi %s,</p>

        <p>Your prayer request <strong>"%s"</strong> has been approved and is now shared with the congregation.</p>

        <p>Our church family is praying with you.</p>
`, name, title)

	textBody := fmt.Sprintf(`
Prayer Request Approved

Hi %s,

Your prayer request "%s" has been approved and is now shared with the congregation.

Our church family is praying with you.
`, name, title)

	data := TemplateData{Name: name, Title: title}
	if subject, html, text, ok := renderTemplate(models.TemplateRequestApproved, data); ok {
		return s.send([]string{toEmail}, subject, html, text)
	}

	return s.send([]string{toEmail}, "Your prayer request has been approved", wrapHTML("Prayer Request Approved", inner), textBody)
}

// SendRequestDeniedEmail tells the requester their submission was not
// approved, including the reviewer's reason when one was given.
func (s *EmailService) SendRequestDeniedEmail(toEmail string, name string, title string, reason string) error {
	reasonBlock := ""
	reasonText := ""
	if reason != "" {
		reasonBlock = fmt.Sprintf("<p>Reason: %s</p>", reason)
		reasonText = fmt.Sprintf("Reason: %s\n", reason)
	}

	inner := fmt.Sprintf(`
        <p>Hi %s,</p>

        <p>Your prayer request <strong>"%s"</strong> was not approved for the public prayer wall.</p>
        %s
        <p>You are welcome to revise and submit it again, or contact the church office with any questions.</p>
`, name, title, reasonBlock)

	textBody := fmt.Sprintf(`
Prayer Request Not Approved

Hi %s,

Your prayer request "%s" was not approved for the public prayer wall.
%s
You are welcome to revise and submit it again, or contact the church office with any questions.
`, name, title, reasonText)

	data := TemplateData{Name: name, Title: title, Reason: reason}
	if subject, html, text, ok := renderTemplate(models.TemplateRequestDenied, data); ok {
		return s.send([]string{toEmail}, subject, html, text)
	}

	return s.send([]string{toEmail}, "About your prayer request", wrapHTML("Prayer Request Not Approved", inner), textBody)
}

// SendUpdateApprovedEmail tells the update submitter their update is live.
func (s *EmailService) SendUpdateApprovedEmail(toEmail string, title string) error {
	inner := fmt.Sprintf(`
        <p>Your update to the prayer request <strong>"%s"</strong> has been approved and is now visible.</p>

        <p>Thank you for keeping the congregation in the loop.</p>
`, title)

	textBody := fmt.Sprintf(`
Update Approved

Your update to the prayer request "%s" has been approved and is now visible.

Thank you for keeping the congregation in the loop.
`, title)

	data := TemplateData{Title: title}
	if subject, html, text, ok := renderTemplate(models.TemplateUpdateApproved, data); ok {
		return s.send([]string{toEmail}, subject, html, text)
	}

	return s.send([]string{toEmail}, "Your prayer update has been approved", wrapHTML("Update Approved", inner), textBody)
}

// SendPendingDigestEmail summarizes the moderation queues for admins.
func (s *EmailService) SendPendingDigestEmail(adminEmails []string, requests int, updates int, deletions int, statusChanges int, preferences int) error {
	total := requests + updates + deletions + statusChanges + preferences
	if total == 0 {
		return nil
	}

	inner := fmt.Sprintf(`
        <p>Items currently waiting for review:</p>
        <ul>
            <li>Prayer requests: %d</li>
            <li>Updates: %d</li>
            <li>Deletion requests: %d</li>
            <li>Status changes: %d</li>
            <li>Preference changes: %d</li>
        </ul>
`, requests, updates, deletions, statusChanges, preferences)

	textBody := fmt.Sprintf(`
Pending Moderation Digest

Items currently waiting for review:

  Prayer requests:    %d
  Updates:            %d
  Deletion requests:  %d
  Status changes:     %d
  Preference changes: %d
`, requests, updates, deletions, statusChanges, preferences)

	return s.send(adminEmails, fmt.Sprintf("%d items waiting for review", total), wrapHTML("Pending Moderation Digest", inner), textBody)
}
