package notifications

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

type DeliveryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Timeout    time.Duration
}

func DefaultDeliveryPolicy() DeliveryPolicy {
	return DeliveryPolicy{
		MaxRetries: 2,
		BaseDelay:  250 * time.Millisecond,
		MaxDelay:   2 * time.Second,
		Timeout:    10 * time.Second,
	}
}

func normalizeDeliveryPolicy(p DeliveryPolicy) DeliveryPolicy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 250 * time.Millisecond
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}
	if p.Timeout <= 0 {
		p.Timeout = 10 * time.Second
	}
	return p
}

// Budget is the worst case for one destination: every attempt timing out
// plus the longest backoff between attempts.
func (p DeliveryPolicy) Budget() time.Duration {
	p = normalizeDeliveryPolicy(p)
	attempts := time.Duration(p.MaxRetries + 1)
	return attempts*p.Timeout + (attempts-1)*p.MaxDelay
}

// httpDelivery posts to a provider endpoint, retrying transport errors, 429
// and 5xx. Retries never cross destinations.
type httpDelivery struct {
	client   *http.Client
	executor failsafe.Executor[*http.Response]
}

//nolint:bodyclose // bodies are drained and closed inside do
func newHTTPDelivery(p DeliveryPolicy) *httpDelivery {
	p = normalizeDeliveryPolicy(p)
	policy := retrypolicy.NewBuilder[*http.Response]().
		HandleIf(shouldRetryDelivery).
		WithBackoff(p.BaseDelay, p.MaxDelay).
		WithMaxRetries(p.MaxRetries).
		ReturnLastFailure().
		Build()

	return &httpDelivery{
		client:   &http.Client{Timeout: p.Timeout},
		executor: failsafe.With[*http.Response](policy),
	}
}

func shouldRetryDelivery(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}

// do runs newReq through the retry policy. The returned response body is
// already drained and closed; only status and headers are meaningful.
func (d *httpDelivery) do(ctx context.Context, newReq func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	return d.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := newReq(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := d.client.Do(req)
		if err != nil {
			return nil, err
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		_ = resp.Body.Close()
		return resp, nil
	})
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode <= 299
}
