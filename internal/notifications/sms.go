package notifications

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MimoJanra/SitePulse/internal/config"
)

// TwilioSender sends SMS through the Twilio Messages REST endpoint.
type TwilioSender struct {
	config   config.TwilioConfig
	delivery *httpDelivery
}

func NewTwilioSender(cfg config.TwilioConfig, policy DeliveryPolicy) *TwilioSender {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.twilio.com"
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")
	return &TwilioSender{config: cfg, delivery: newHTTPDelivery(policy)}
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if to == "" {
		return fmt.Errorf("sms recipient is required")
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.config.APIBase, url.PathEscape(s.config.AccountSID))
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.config.FromNumber)
	form.Set("Body", body)
	encoded := form.Encode()

	resp, err := s.delivery.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encoded))
		if err != nil {
			return nil, fmt.Errorf("create sms request: %w", err)
		}
		req.SetBasicAuth(s.config.AccountSID, s.config.AuthToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}

	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("sms provider returned status %d", resp.StatusCode)
	}
	return nil
}
