package notify

import (
	"fmt"
	"net/smtp"

	"internportal/logutils"
	"internportal/middleware"
	"internportal/model"

	"github.com/jordan-wright/email"
)

// SendApplicationDecision mails the decision to the intern. Best-effort:
// callers log the returned error and move on, the review itself has already
// committed.
func SendApplicationDecision(toEmail, internName string, status model.ApplicationStatus, notes string) error {
	from := middleware.GetEnv("EMAIL_ADDRESS")
	password := middleware.GetEnv("EMAIL_PASSWORD")
	host := middleware.GetEnvDefault("SMTP_HOST", "smtp.gmail.com")
	port := middleware.GetEnvDefault("SMTP_PORT", "587")

	if from == "" || password == "" {
		return fmt.Errorf("email credentials not configured")
	}

	var subject, body string
	switch status {
	case model.ApplicationApproved:
		subject = "Internship Application Approved"
		body = fmt.Sprintf("Dear %s,\n\nYour internship application has been approved. "+
			"You will be assigned a mentor shortly.\n", internName)
	case model.ApplicationRejected:
		subject = "Internship Application Update"
		body = fmt.Sprintf("Dear %s,\n\nWe regret to inform you that your internship "+
			"application was not approved.\n", internName)
	default:
		subject = "Internship Application Update"
		body = fmt.Sprintf("Dear %s,\n\nYour internship application is now %s.\n",
			internName, status)
	}
	if notes != "" {
		body += "\nReviewer notes: " + notes + "\n"
	}

	e := email.NewEmail()
	e.From = from
	e.To = []string{toEmail}
	e.Subject = subject
	e.Text = []byte(body)

	if err := e.Send(host+":"+port, smtp.PlainAuth("", from, password, host)); err != nil {
		logutils.Log.WithError(err).Warn("Failed to send decision email")
		return err
	}
	return nil
}
