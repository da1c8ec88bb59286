// Package fetch retrieves roster and profile pages over HTTP.
// It centralizes timeout handling, rate limiting and failure containment:
// a failed fetch is reported as unavailability, never as a panic or an
// error that escapes the pipeline.
package fetch

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/leavex/mepscan/internal/config"
)

// Error represents a failed page retrieval.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Fetcher retrieves page content with a bounded timeout, an identifying
// User-Agent and a fixed post-request delay. One instance is shared by the
// whole run; the throttle is paid per request even when fetches overlap.
type Fetcher struct {
	client     *resty.Client
	throttle   *Throttle
	useBrowser bool
	log        *zap.SugaredLogger
}

// New creates a Fetcher from the run configuration.
func New(cfg *config.Config, log *zap.SugaredLogger) *Fetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout()).
		SetHeader("User-Agent", cfg.UserAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	return &Fetcher{
		client:     client,
		throttle:   NewThrottle(cfg.RequestDelay()),
		useBrowser: cfg.UseBrowser,
		log:        log,
	}
}

// Get retrieves the page at addr. The second return value is false when the
// page is unavailable for any reason (timeout, connection error,
// non-success status); the failure is logged and contained here. The
// configured delay is paid after every attempt, successful or not.
func (f *Fetcher) Get(ctx context.Context, addr string) (string, bool) {
	defer f.throttle.Pay(ctx)

	body, err := f.fetchOnce(ctx, addr)
	if err != nil {
		f.log.Warnw("failed to fetch page", "url", addr, "err", err)
		return "", false
	}

	if f.useBrowser && ShouldRender(body) {
		rendered, rerr := Render(ctx, addr, f.client.GetClient().Timeout)
		if rerr != nil {
			f.log.Debugw("browser render failed, keeping plain fetch", "url", addr, "err", rerr)
		} else {
			body = rendered
		}
	}

	return body, true
}

func (f *Fetcher) fetchOnce(ctx context.Context, addr string) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(addr)
	if err != nil {
		return "", &Error{URL: addr, Message: "request failed", Cause: err}
	}
	if !resp.IsSuccess() {
		return "", &Error{URL: addr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode())}
	}
	return resp.String(), nil
}
