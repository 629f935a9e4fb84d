package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/jordan-wright/email"
)

const emailName = "email"

// EmailConfig holds SMTP settings. Username may be empty for relays without AUTH.
// Timeout bounds a delivery when the caller's context has no deadline.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Timeout  time.Duration
}

type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// Email sends plain-text messages over SMTP.
type Email struct {
	cfg  EmailConfig
	send sendFunc
}

// NewEmail returns nil unless host, sender and at least one recipient are configured.
func NewEmail(cfg EmailConfig) *Email {
	if cfg.Host == "" || cfg.From == "" || len(cfg.To) == 0 {
		return nil
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Email{
		cfg: cfg,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func (m *Email) Name() string {
	return emailName
}

// Notify sends with PLAIN auth and retries without auth when the server does not offer AUTH.
// The SMTP client has no context support, so cancellation or the deadline
// abandons the send rather than aborting it.
func (m *Email) Notify(ctx context.Context, msg Message) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	mail := email.NewEmail()
	mail.From = m.cfg.From
	mail.To = m.cfg.To
	mail.Subject = msg.Subject
	mail.Text = []byte(msg.Text + "\n")

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	done := make(chan error, 1)
	go func() {
		err := m.send(mail, addr, auth)
		if err != nil && auth != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
			err = m.send(mail, addr, nil)
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", emailName, ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%s: send: %w", emailName, err)
		}
		return nil
	}
}

// ParseRecipients splits a comma separated address list.
func ParseRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
