package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type SlackSender struct {
	delivery *httpDelivery
}

func NewSlackSender(policy DeliveryPolicy) *SlackSender {
	return &SlackSender{delivery: newHTTPDelivery(policy)}
}

// Post sends text to a single incoming-webhook URL.
func (s *SlackSender) Post(ctx context.Context, webhookURL, text string) error {
	if webhookURL == "" {
		return fmt.Errorf("slack webhook_url is required")
	}

	jsonData, err := json.Marshal(map[string]any{"text": text})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.delivery.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(jsonData))
		if err != nil {
			return nil, fmt.Errorf("create slack request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("send slack message: %w", err)
	}

	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}
