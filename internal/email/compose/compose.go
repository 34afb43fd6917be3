// Package compose builds the HTML and plain-text bodies of outgoing review
// notifications.
package compose

import (
	"fmt"
	"html"
	"strings"
	"time"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/port"
)

// Branding is the sender-side information rendered into every message.
type Branding struct {
	Conference   string
	Committee    string
	ContactEmail string
	ContactURL   string
}

// StatusData is the per-recipient content of a status notification.
type StatusData struct {
	To           string
	Name         string
	Title        string
	SubmissionID string
	Category     string
	Institution  string
	Status       domain.AbstractStatus
	Comments     string
	ReviewedAt   time.Time
}

func statusIcon(s domain.AbstractStatus) string {
	switch s {
	case domain.StatusApproved:
		return "🎉"
	case domain.StatusPending:
		return "⏳"
	default:
		return "❌"
	}
}

func statusColor(s domain.AbstractStatus) string {
	switch s {
	case domain.StatusApproved:
		return "#10B981"
	case domain.StatusPending:
		return "#F59E0B"
	default:
		return "#EF4444"
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Subject returns the subject line of a status notification.
func Subject(b Branding, d StatusData) string {
	return fmt.Sprintf("%s Abstract Review %s: %s | %s",
		statusIcon(d.Status), strings.ToUpper(string(d.Status)), d.SubmissionID, b.Conference)
}

// StatusUpdate composes the notification for one presenter.
func StatusUpdate(b Branding, d StatusData) port.EmailMessage {
	return port.EmailMessage{
		To:      d.To,
		Subject: Subject(b, d),
		HTML:    statusHTML(b, d),
		Text:    statusText(b, d),
	}
}

func nextSteps(s domain.AbstractStatus) (heading string, items []string) {
	switch s {
	case domain.StatusApproved:
		return "Congratulations! Your abstract has been APPROVED", []string{
			"Complete your conference registration (mandatory for participation)",
			"Upload your final presentation from the delegate dashboard",
			"Prepare for 6 minutes presentation plus 2 minutes discussion",
			"Report 30 minutes before your session for technical setup",
		}
	case domain.StatusPending:
		return "Your abstract has been returned to review", []string{
			"No action is needed from you at this time",
			"You will be notified again once a decision is made",
		}
	default:
		return "Abstract review result: NOT ACCEPTED", []string{
			"Consider the reviewer comments for future submissions",
			"You are welcome to attend the conference as a participant",
		}
	}
}

func statusHTML(b Branding, d StatusData) string {
	e := html.EscapeString
	statusText := strings.ToUpper(string(d.Status))
	heading, steps := nextSteps(d.Status)

	var list strings.Builder
	for _, s := range steps {
		fmt.Fprintf(&list, "      <li>%s</li>\n", e(s))
	}

	comments := ""
	if strings.TrimSpace(d.Comments) != "" {
		comments = fmt.Sprintf(`  <div style="background: #fff3cd; padding: 15px; border-radius: 6px; margin: 20px 0;">
    <h3 style="color: #856404; margin-top: 0;">Reviewer Comments</h3>
    <p>%s</p>
  </div>
`, e(d.Comments))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Abstract Review %s</title></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s Abstract Review Result</h2>
  <p>Dear Dr. %s,</p>
  <p>The review of your abstract submission for <strong>%s</strong> has been completed.</p>
  <table style="width: 100%%; border-collapse: collapse;">
    <tr><td style="color: #666;">Abstract Title</td><td>"%s"</td></tr>
    <tr><td style="color: #666;">Abstract ID</td><td>%s</td></tr>
    <tr><td style="color: #666;">Category</td><td>%s</td></tr>
    <tr><td style="color: #666;">Institution</td><td>%s</td></tr>
    <tr><td style="color: #666;">Review Date</td><td>%s</td></tr>
    <tr><td style="color: #666;">Status</td><td style="color: %s; font-weight: bold;">%s</td></tr>
  </table>
%s  <h3 style="color: #333;">%s</h3>
    <ul>
%s    </ul>
  <p>Questions? Contact %s or visit %s.</p>
  <p>Best regards,<br><strong>%s</strong><br>%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">This is an automated notification. Please do not reply directly to this email.</p>
</body>
</html>`,
		statusText,
		statusIcon(d.Status),
		e(orDefault(d.Name, "Presenter")),
		e(b.Conference),
		e(d.Title),
		e(d.SubmissionID),
		e(orDefault(d.Category, "General")),
		e(orDefault(d.Institution, "N/A")),
		d.ReviewedAt.Format("2 January 2006"),
		statusColor(d.Status), statusText,
		comments,
		e(heading),
		list.String(),
		e(b.ContactEmail), e(b.ContactURL),
		e(b.Committee), e(b.Conference),
	)
}

func statusText(b Branding, d StatusData) string {
	var sb strings.Builder
	heading, steps := nextSteps(d.Status)
	statusText := strings.ToUpper(string(d.Status))

	fmt.Fprintf(&sb, "%s - Abstract Review Result\n\n", b.Conference)
	fmt.Fprintf(&sb, "Dear Dr. %s,\n\n", orDefault(d.Name, "Presenter"))
	fmt.Fprintf(&sb, "Your abstract \"%s\" has been %s.\n\n", d.Title, statusText)
	sb.WriteString("Submission Details:\n")
	fmt.Fprintf(&sb, "- Abstract ID: %s\n", d.SubmissionID)
	fmt.Fprintf(&sb, "- Category: %s\n", orDefault(d.Category, "General"))
	fmt.Fprintf(&sb, "- Institution: %s\n", orDefault(d.Institution, "N/A"))
	fmt.Fprintf(&sb, "- Review Date: %s\n", d.ReviewedAt.Format("2 January 2006"))
	fmt.Fprintf(&sb, "- Status: %s\n\n", statusText)
	if strings.TrimSpace(d.Comments) != "" {
		fmt.Fprintf(&sb, "Reviewer Comments: %s\n\n", d.Comments)
	}
	fmt.Fprintf(&sb, "%s:\n", heading)
	for _, s := range steps {
		fmt.Fprintf(&sb, "- %s\n", s)
	}
	fmt.Fprintf(&sb, "\nContact: %s | %s\n\nBest regards,\n%s\n%s\n",
		b.ContactEmail, b.ContactURL, b.Committee, b.Conference)
	return sb.String()
}

// Test composes the delivery check message sent by the test email type.
func Test(b Branding, to string, at time.Time) port.EmailMessage {
	e := html.EscapeString
	ts := at.UTC().Format(time.RFC3339)
	return port.EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("✅ %s Email System Test - Success!", b.Conference),
		HTML: fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #155724;">Email System Working</h2>
  <p>This test message was sent to %s at %s.</p>
  <p style="color: #999; font-size: 12px;">%s</p>
</body>
</html>`, e(to), ts, e(b.Conference)),
		Text: fmt.Sprintf("Email System Working\n\nThis test message was sent to %s at %s.\n\n%s\n", to, ts, b.Conference),
	}
}
