package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"
)

var ErrNotConfigured = errors.New("SMTP not configured")

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	FromAddr string
	FromName string
}

// Mailer sends HTML mail over SMTP. Port 465 dials TLS directly, 587 and 25
// upgrade with STARTTLS, anything else stays plain.
type Mailer struct {
	cfg     Config
	timeout time.Duration
}

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg, timeout: 30 * time.Second}
}

func (m *Mailer) Configured() bool {
	return m.cfg.Host != "" && m.cfg.Port != "" && m.cfg.FromAddr != ""
}

func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if !m.Configured() {
		return ErrNotConfigured
	}

	msg := buildMessage(m.from(), to, subject, htmlBody)
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var (
		conn net.Conn
		err  error
	)
	if m.cfg.Port == "465" {
		d := &tls.Dialer{Config: &tls.Config{ServerName: m.cfg.Host}}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		var d net.Dialer
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("SMTP dial failed: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SMTP client failed: %w", err)
	}
	defer client.Close()

	if m.cfg.Port == "587" || m.cfg.Port == "25" {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
				return fmt.Errorf("STARTTLS failed: %w", err)
			}
		}
	}

	if m.cfg.Username != "" && m.cfg.Password != "" {
		if err := client.Auth(smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := client.Mail(m.cfg.FromAddr); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close failed: %w", err)
	}
	return client.Quit()
}

func (m *Mailer) from() string {
	if m.cfg.FromName == "" {
		return m.cfg.FromAddr
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.cfg.FromName), m.cfg.FromAddr)
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
