package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/modamarket/backend/pkg/config"
	"github.com/modamarket/backend/pkg/logger"
)

// Message is a plain-text mail to a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail through a plain SMTP relay.
type SMTPSender struct {
	addr string
	from string
}

// NewSMTPSender wires an SMTP-backed sender.
func NewSMTPSender(addr, from string) (*SMTPSender, error) {
	if addr == "" {
		return nil, fmt.Errorf("smtp address is required")
	}
	if from == "" {
		return nil, fmt.Errorf("from address is required")
	}
	return &SMTPSender{addr: addr, from: from}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("recipient is required")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(s.addr, nil, s.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender writes mail to the application log instead of delivering
// it. Used in dev where no relay is configured.
type LogSender struct {
	logg *logger.Logger
}

// NewLogSender wires a logging sender.
func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"to": msg.To, "subject": msg.Subject})
		s.logg.Info(ctx, "mail suppressed (log sender)")
	}
	return nil
}

// Retrying decorates a sender with bounded retries and fibonacci
// backoff. Relay hiccups are common enough that a single attempt loses
// real verification mails.
type Retrying struct {
	inner    Sender
	attempts uint64
	backoff  time.Duration
}

// NewRetrying wires the retry decorator from mail config.
func NewRetrying(inner Sender, cfg config.MailConfig) (*Retrying, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner sender is required")
	}
	attempts := cfg.SendAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := cfg.SendBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return &Retrying{inner: inner, attempts: uint64(attempts), backoff: backoff}, nil
}

func (r *Retrying) Send(ctx context.Context, msg Message) error {
	backoff := retry.WithMaxRetries(r.attempts-1, retry.NewFibonacci(r.backoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := r.inner.Send(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
