package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"crimetracker/internal/model"
)

// Mailer sends notification emails over SMTP. All sends are best-effort:
// failures are logged and swallowed, never surfaced to the caller. A Mailer
// with missing credentials is valid and turns every send into a logged no-op.
type Mailer struct {
	host       string
	port       string
	from       string
	password   string
	adminEmail string
}

// NewMailer builds a mailer from SMTP settings.
func NewMailer(host, port, from, password, adminEmail string) *Mailer {
	if host == "" || from == "" || password == "" {
		log.Println("mailer: SMTP credentials not configured, email notifications disabled")
	}
	return &Mailer{
		host:       host,
		port:       port,
		from:       from,
		password:   password,
		adminEmail: adminEmail,
	}
}

func (m *Mailer) enabled() bool {
	return m != nil && m.host != "" && m.from != "" && m.password != ""
}

// ReportCreated notifies the admin address that a new report was submitted.
// Intended to run on its own goroutine; the creating request never waits on it.
func (m *Mailer) ReportCreated(report *model.Report, reporterName string) {
	if !m.enabled() {
		return
	}
	if m.adminEmail == "" {
		log.Println("mailer: ADMIN_EMAIL not configured, admin notification skipped")
		return
	}

	subject := fmt.Sprintf("Crime report alert: %s at %s", report.Category, report.Location)
	body := strings.Join([]string{
		"A new crime report was submitted.",
		"",
		"Title: " + report.Title,
		"Category: " + report.Category,
		"Location: " + report.Location,
		"Description: " + report.Description,
		"",
		fmt.Sprintf("Report ID: %d", report.ID),
		fmt.Sprintf("Reporter: %s (id %d)", reporterName, report.ReporterID),
		"Status: " + report.Status,
		"Submitted at: " + report.CreatedAt.Format("2006-01-02 15:04:05"),
	}, "\r\n")

	if err := m.send(m.adminEmail, subject, body); err != nil {
		log.Printf("mailer: admin notification for report %d failed: %v", report.ID, err)
		return
	}
	log.Printf("mailer: admin notification sent for report %d", report.ID)
}

// PasswordReset delivers a reset token to the user's email address.
func (m *Mailer) PasswordReset(user *model.User, token string) {
	if !m.enabled() {
		return
	}

	subject := "Crime Tracker password reset"
	body := strings.Join([]string{
		fmt.Sprintf("Hello %s,", user.Username),
		"",
		"A password reset was requested for your account. Use the token below",
		"to set a new password. The token expires and can be used only once.",
		"",
		token,
		"",
		"If you did not request this, you can ignore this email.",
	}, "\r\n")

	if err := m.send(user.Email, subject, body); err != nil {
		log.Printf("mailer: reset email for user %d failed: %v", user.ID, err)
		return
	}
	log.Printf("mailer: reset email sent for user %d", user.ID)
}

func (m *Mailer) send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}
