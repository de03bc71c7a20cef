package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"kidsweek-go/internal/config"
	"kidsweek-go/internal/domain/invite"
	"kidsweek-go/pkg/logger"
)

// Brevo sends transactional email through the Brevo HTTP API.
type Brevo struct {
	url         string
	apiKey      string
	senderName  string
	senderEmail string
	client      *http.Client
	log         logger.Logger
}

func NewBrevo(cfg config.MailConfig, log logger.Logger) *Brevo {
	return &Brevo{
		url:         cfg.BaseURL,
		apiKey:      cfg.APIKey,
		senderName:  cfg.SenderName,
		senderEmail: cfg.SenderEmail,
		client:      &http.Client{Timeout: cfg.Timeout},
		log:         log,
	}
}

type brevoAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoPayload struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	TextContent string         `json:"textContent"`
}

func (b *Brevo) Send(ctx context.Context, mail invite.Mail) error {
	if b.apiKey == "" {
		return fmt.Errorf("mail api key not configured")
	}

	payload, err := json.Marshal(brevoPayload{
		Sender:      brevoAddress{Name: b.senderName, Email: b.senderEmail},
		To:          []brevoAddress{{Email: mail.To}},
		Subject:     mail.Subject,
		HTMLContent: mail.HTML,
		TextContent: mail.Text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, detail)
	}

	b.log.Info("mail: sent", "to", mail.To, "subject", mail.Subject)
	return nil
}
