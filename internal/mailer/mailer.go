// Package mailer abstracts outbound email. Actual SMTP delivery is not wired;
// the log implementation records the verification link so operators can test
// the subscription flow without a mail server.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
)

// Mailer sends subscription verification mail.
type Mailer interface {
	SendVerification(ctx context.Context, email, token string) error
}

// LogMailer writes the verification link to the structured log instead of
// delivering mail.
type LogMailer struct {
	AppURL string
	From   string
}

// NewLogMailer returns a Mailer that only logs.
func NewLogMailer(appURL, from string) *LogMailer {
	return &LogMailer{AppURL: appURL, From: from}
}

// SendVerification logs the verification URL for the given subscriber.
func (m *LogMailer) SendVerification(ctx context.Context, email, token string) error {
	url := fmt.Sprintf("%s/subscribe/verify?token=%s", m.AppURL, token)
	slog.InfoContext(ctx, "verification mail (stub)",
		slog.String("to", email),
		slog.String("from", m.From),
		slog.String("url", url),
	)
	return nil
}
