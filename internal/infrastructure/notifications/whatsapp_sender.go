package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/reviewrelay/backend/internal/domain/providers"
	"github.com/reviewrelay/backend/pkg/config"
)

// WhatsAppInviteSender delivers review invites via the WhatsApp Cloud API
type WhatsAppInviteSender struct {
	accessToken   string
	phoneNumberID string
	httpClient    *http.Client
	baseURL       string
}

// NewWhatsAppInviteSender creates a new WhatsApp invite sender
func NewWhatsAppInviteSender(cfg *config.WhatsAppConfig) (*WhatsAppInviteSender, error) {
	if cfg.AccessToken == "" || cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("WHATSAPP_ACCESS_TOKEN and WHATSAPP_PHONE_NUMBER_ID must be set")
	}

	return &WhatsAppInviteSender{
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://graph.facebook.com/v18.0",
	}, nil
}

// whatsAppTextMessage is the Cloud API text message payload
type whatsAppTextMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

// whatsAppResponse is the Cloud API response
type whatsAppResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendInvite sends the review invite as a text message and returns the
// provider's message id
func (w *WhatsAppInviteSender) SendInvite(ctx context.Context, invite *providers.ReviewInvite) (string, error) {
	message := whatsAppTextMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               invite.ToPhone,
		Type:             "text",
	}
	message.Text.PreviewURL = true
	message.Text.Body = fmt.Sprintf(
		"Hi %s, thanks for visiting %s! We'd love to hear how we did: %s",
		invite.CustomerName, invite.BusinessName, invite.RatingURL,
	)

	return w.sendMessage(ctx, message)
}

func (w *WhatsAppInviteSender) sendMessage(ctx context.Context, message any) (string, error) {
	url := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneNumberID)

	jsonData, err := json.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+w.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("WhatsApp API error (status %d): %s", resp.StatusCode, string(body))
	}

	var waResp whatsAppResponse
	if err := json.Unmarshal(body, &waResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(waResp.Messages) == 0 {
		return "", fmt.Errorf("no message ID in response")
	}

	return waResp.Messages[0].ID, nil
}
