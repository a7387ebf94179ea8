package email

import (
	"net/smtp"

	"github.com/amanymoammer22/backend/config"
)

// Sender dispatches a plain-text email. Failures are surfaced once to the
// caller and never retried.
type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	cfg *config.Config
}

func NewSMTPSender(cfg *config.Config) Sender { return &smtpSender{cfg: cfg} }

func (s *smtpSender) Send(to, subject, body string) error {
	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	msg := "From: " + s.cfg.SMTPFrom + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body

	return smtp.SendMail(addr, auth, s.cfg.SMTPFrom, []string{to}, []byte(msg))
}
