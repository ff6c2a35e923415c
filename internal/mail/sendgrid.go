package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultSendURL = "https://api.sendgrid.com/v3/mail/send"

// SendGridMailer delivers transactional mail through the SendGrid v3 API.
type SendGridMailer struct {
	apiKey     string
	from       string
	sendURL    string
	httpClient *http.Client
}

// NewSendGridMailer constructs a mailer. Both the API key and a
// verified from address are required.
func NewSendGridMailer(apiKey, from string) (*SendGridMailer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("MAIL_FROM is required")
	}
	return &SendGridMailer{
		apiKey:  apiKey,
		from:    from,
		sendURL: defaultSendURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type emailAddress struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// SendPasswordReset mails a reset link valid for one hour.
func (m *SendGridMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	html := fmt.Sprintf(`<p>We received a request to reset your password. Use the link below to create a new password:</p>
<p><a href=%q>Reset Password</a></p>
<p>This link will expire in 1 hour. If you did not request a password reset, you can safely ignore this email.</p>
<p>If the link above doesn't work, copy and paste this URL into your browser:<br/>%s</p>`, resetURL, resetURL)

	body := sendRequest{
		Personalizations: []personalization{{To: []emailAddress{{Email: to}}}},
		From:             emailAddress{Email: m.from},
		Subject:          "Reset your password",
		Content:          []content{{Type: "text/html", Value: html}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.sendURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
