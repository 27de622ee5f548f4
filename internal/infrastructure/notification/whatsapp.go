package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/erp/installments/internal/infrastructure/config"
)

const maxBridgeResponseSize = 64 << 10

// WhatsAppChannel posts messages to the WhatsApp bridge service
type WhatsAppChannel struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewWhatsAppChannel creates a bridge client from config
func NewWhatsAppChannel(cfg config.WhatsAppConfig) *WhatsAppChannel {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WhatsAppChannel{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns "whatsapp"
func (c *WhatsAppChannel) Name() string {
	return "whatsapp"
}

type bridgeSendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type bridgeSendResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Send posts the message body to the bridge's /send endpoint
func (c *WhatsAppChannel) Send(ctx context.Context, msg Message) error {
	if msg.To.Phone == "" {
		return ErrNoAddress
	}

	body, err := json.Marshal(bridgeSendRequest{Phone: msg.To.Phone, Message: msg.Body})
	if err != nil {
		return fmt.Errorf("whatsapp: failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: whatsapp: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBridgeResponseSize))
	if err != nil {
		return fmt.Errorf("whatsapp: failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: whatsapp: HTTP %d", ErrDeliveryFailed, resp.StatusCode)
	}

	var result bridgeSendResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return fmt.Errorf("whatsapp: failed to parse response: %w", err)
		}
		if !result.Success {
			return fmt.Errorf("%w: whatsapp: %s", ErrDeliveryFailed, result.Error)
		}
	}
	return nil
}

var _ Channel = (*WhatsAppChannel)(nil)
