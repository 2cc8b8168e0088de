package main

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

var ErrMailNotConfigured = errors.New("SMTP credentials not configured")

type Mailer interface {
	Send(msg *ContactMessage) error
}

type smtpMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func newSMTPMailer(cfg SMTPConfig) *smtpMailer {
	return &smtpMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *smtpMailer) Send(msg *ContactMessage) error {
	if !m.cfg.Configured() || m.cfg.To == "" {
		return ErrMailNotConfigured
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.User, []string{m.cfg.To}, composeMail(m.cfg, msg)); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	return nil
}

func composeMail(cfg SMTPConfig, msg *ContactMessage) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe(msg.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Message ID: %s
`, msg.Name, msg.Email, msg.Message, msg.ID)

	return []byte("To: " + cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + cfg.User + "\r\n" +
		"Reply-To: " + headerSafe(msg.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerSafe strips CR/LF so form input cannot inject extra headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
