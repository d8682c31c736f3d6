package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"creatorlens/internal/config"
)

// Sender delivers exported reports to the configured recipient over SMTP.
type Sender struct {
	config *config.EmailConfig
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{config: cfg}
}

// Enabled reports whether SMTP delivery is configured at all.
func (s *Sender) Enabled() bool {
	return s.config.SMTPServer != "" && s.config.ToEmail != ""
}

var bodyTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
<h2>{{.Subject}}</h2>
<pre style="font-family: monospace; white-space: pre-wrap;">{{.Body}}</pre>
</body>
</html>`))

// SendReport wraps an already-formatted report body and sends it. The
// body text is emitted verbatim inside the wrapper.
func (s *Sender) SendReport(subject, body string) error {
	if !s.Enabled() {
		return fmt.Errorf("email delivery is not configured")
	}
	if body == "" {
		return fmt.Errorf("report body cannot be empty")
	}

	var html bytes.Buffer
	err := bodyTemplate.Execute(&html, struct {
		Subject string
		Body    string
	}{subject, body})
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.sendViaSMTP(subject, html.String())
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	if err := smtp.SendMail(addr, auth, s.config.FromEmail, to, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
