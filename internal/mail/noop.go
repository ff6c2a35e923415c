package mail

import (
	"context"

	"resume-tailor/internal/shared/telemetry"
)

// NoopMailer logs instead of sending; used in dev when SendGrid is not
// configured.
type NoopMailer struct{}

func (NoopMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	_ = ctx
	telemetry.Info("mail.noop", map[string]any{"to": to, "reset_url": resetURL})
	return nil
}
