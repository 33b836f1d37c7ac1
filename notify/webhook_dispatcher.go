package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/eben2468/srcwebsite-sub008/config"
)

// WebhookDispatcher POSTs events to an external notification service when
// CHAT_NOTIFY_WEBHOOK_URL is configured.
type WebhookDispatcher struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewWebhookDispatcher(cfg *config.NotifyConfig) *WebhookDispatcher {
	return &WebhookDispatcher{
		baseURL: cfg.WebhookURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (d *WebhookDispatcher) Notify(ctx context.Context, event Event) {
	if err := d.post(ctx, event); err != nil {
		log.Printf("Failed to deliver %s notification for session %s: %v", event.Type, event.SessionID, err)
	}
}

func (d *WebhookDispatcher) post(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", d.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", d.apiKey)

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notification service returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}
