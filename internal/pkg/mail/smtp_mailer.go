package mail

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"

	"github.com/tacweb/tacweb/internal/pkg/env"
)

// Config carries the outbound mail identity. It is injected into the mailer
// instead of being read from process state at send time, so callers (and
// tests) control exactly which sender a message goes out as.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Sender   string
	// UseSSL selects implicit TLS (port 465) instead of STARTTLS.
	UseSSL bool
}

// ConfigFromEnv builds the mail configuration from the environment.
func ConfigFromEnv() Config {
	sender := env.GetEnv("SMTP_SENDER", "")
	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}
	return Config{
		Host:     env.GetEnv("SMTP_HOST", ""),
		Port:     env.GetEnv("SMTP_PORT", "587"),
		Username: env.GetEnv("SMTP_USERNAME", ""),
		Password: env.GetEnv("SMTP_PASSWORD", ""),
		Sender:   sender,
		UseSSL:   env.GetEnv("SMTP_USE_SSL", "false") == "true",
	}
}

// Mailer sends plain-text emails via SMTP.
type Mailer struct {
	cfg Config
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Sender returns the configured from address.
func (m *Mailer) Sender() string {
	return m.cfg.Sender
}

// Send delivers one message to a single recipient.
func (m *Mailer) Send(to string, subject string, body string) error {
	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	msg := buildMessage(m.cfg.Sender, to, subject, body)

	var err error
	if m.cfg.UseSSL {
		err = m.sendSSL(addr, to, msg)
	} else {
		var auth smtp.Auth
		if m.cfg.Username != "" && m.cfg.Password != "" {
			auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		}
		err = smtp.SendMail(addr, auth, m.cfg.Sender, []string{to}, msg)
	}

	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// sendSSL talks implicit TLS, for providers that only accept port 465.
func (m *Mailer) sendSSL(addr string, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(m.cfg.Sender); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from string, to string, subject string, body string) []byte {
	return []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", from, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=UTF-8\r\n\r\n" +
			body,
	)
}
