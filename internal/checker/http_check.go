package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/MimoJanra/SitePulse/internal/models"
)

const (
	DefaultProbeTimeout = 30 * time.Second

	// ErrConnectionTimeout is the error text recorded for probes that hit the timeout.
	ErrConnectionTimeout = "Connection timeout"

	maxDrainBytes = 64 * 1024
)

type CheckResult struct {
	Status     models.CheckStatus
	StatusCode *int
	Error      *string
	DurationMS int
}

type HTTPProber struct {
	client  *http.Client
	timeout time.Duration
}

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HTTPProber{
		client:  &http.Client{},
		timeout: timeout,
	}
}

// Probe issues one GET against url. Transport failures are reported as a
// failure result; the returned error is non-nil only when ctx itself was
// cancelled before the probe could settle.
func (p *HTTPProber) Probe(ctx context.Context, url string) (CheckResult, error) {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		return createErrorResult(err.Error(), 0), nil
	}

	resp, err := p.client.Do(req)
	duration := int(time.Since(start).Milliseconds())

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return CheckResult{}, ctxErr
		}
		return handleRequestError(err, duration), nil
	}

	defer closeResponseBody(resp.Body)
	return createResponseResult(resp.StatusCode, duration), nil
}

func createErrorResult(errorMsg string, duration int) CheckResult {
	return CheckResult{
		Status:     models.CheckFailure,
		Error:      &errorMsg,
		DurationMS: duration,
	}
}

func handleRequestError(err error, duration int) CheckResult {
	if isTimeoutError(err) {
		return createErrorResult(ErrConnectionTimeout, duration)
	}
	return createErrorResult(err.Error(), duration)
}

func createResponseResult(statusCode int, duration int) CheckResult {
	code := statusCode
	if isOK(statusCode) {
		return CheckResult{
			Status:     models.CheckSuccess,
			StatusCode: &code,
			DurationMS: duration,
		}
	}
	msg := fmt.Sprintf("HTTP %d", statusCode)
	return CheckResult{
		Status:     models.CheckFailure,
		StatusCode: &code,
		Error:      &msg,
		DurationMS: duration,
	}
}

func isOK(statusCode int) bool {
	return statusCode >= 200 && statusCode <= 299
}

func closeResponseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDrainBytes))
	_ = body.Close()
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
