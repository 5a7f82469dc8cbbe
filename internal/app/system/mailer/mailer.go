// internal/app/system/mailer/mailer.go
//
// Package mailer sends notification email. Delivery is best-effort: handlers
// send from a goroutine and a failed send never fails the request that
// triggered it.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Email is a single outbound message.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string // optional; sent as multipart/alternative when present
}

// Sender delivers email. Implementations must be safe for concurrent use.
type Sender interface {
	Send(e Email) error
}

// SMTPSender delivers mail over plain SMTP with PLAIN auth.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // e.g. "VolunteerHub <noreply@volunteerhub.org>"
	Log      *zap.Logger
}

func (s *SMTPSender) Send(e Email) error {
	if s.Host == "" {
		return fmt.Errorf("smtp not configured")
	}

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	msg := buildMessage(s.From, e)

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	if err := smtp.SendMail(addr, auth, envelopeFrom(s.From), []string{e.To}, msg); err != nil {
		if s.Log != nil {
			s.Log.Warn("email send failed",
				zap.String("to", e.To),
				zap.String("subject", e.Subject),
				zap.Error(err))
		}
		return err
	}
	if s.Log != nil {
		s.Log.Info("email sent",
			zap.String("to", e.To),
			zap.String("subject", e.Subject))
	}
	return nil
}

// envelopeFrom extracts the bare address from a "Name <addr>" From header.
func envelopeFrom(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return from
}

func buildMessage(from string, e Email) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + e.To + "\r\n")
	b.WriteString("Subject: " + e.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if e.HTMLBody == "" {
		b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
		b.WriteString(e.TextBody + "\r\n")
		return []byte(b.String())
	}

	const boundary = "=_volunteerhub_alt"
	b.WriteString("Content-Type: multipart/alternative; boundary=\"" + boundary + "\"\r\n\r\n")
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(e.TextBody + "\r\n")
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(e.HTMLBody + "\r\n")
	b.WriteString("--" + boundary + "--\r\n")
	return []byte(b.String())
}

// Discard drops all mail. Used when SMTP is not configured.
type Discard struct {
	Log *zap.Logger
}

func (d *Discard) Send(e Email) error {
	if d.Log != nil {
		d.Log.Info("email discarded (smtp not configured)",
			zap.String("to", e.To),
			zap.String("subject", e.Subject))
	}
	return nil
}

// Recorder captures sent mail for tests.
type Recorder struct {
	mu   sync.Mutex
	sent []Email
	Err  error // returned from Send when non-nil
}

func (r *Recorder) Send(e Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, e)
	return nil
}

// Sent returns a copy of everything recorded so far.
func (r *Recorder) Sent() []Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Email, len(r.sent))
	copy(out, r.sent)
	return out
}
