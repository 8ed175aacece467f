package telemetry

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/gamercart/pkg/config"
)

const filtered = "[filtered]"

// sensitiveHeaders never leave the process: they carry the session.
var sensitiveHeaders = []string{"Cookie", "Authorization", "Set-Cookie"}

// SetupSentry initializes the Sentry SDK. No-ops if DSN is empty.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		TracesSampleRate: productionSampleRatio,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return scrubEvent(event)
		},
	}); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// scrubEvent drops the session cookie and masks password fields of the
// login, register and admin forms before the event is sent.
func scrubEvent(event *sentry.Event) *sentry.Event {
	if event == nil || event.Request == nil {
		return event
	}
	req := event.Request
	req.Cookies = ""
	for _, h := range sensitiveHeaders {
		if _, ok := req.Headers[h]; ok {
			req.Headers[h] = filtered
		}
	}
	req.Data = scrubForm(req.Data)
	return event
}

func scrubForm(data string) string {
	if data == "" {
		return data
	}
	values, err := url.ParseQuery(data)
	if err != nil {
		if strings.Contains(strings.ToLower(data), "password") {
			return filtered
		}
		return data
	}
	for key := range values {
		if strings.Contains(strings.ToLower(key), "password") {
			values.Set(key, filtered)
		}
	}
	return values.Encode()
}

// SentryFlush flushes buffered events before process exit.
func SentryFlush() {
	sentry.Flush(2 * time.Second)
}

// SentryMiddleware returns a net/http middleware that captures panics and errors.
// Repanic: true so the outer Recovery middleware still renders the 500 page.
func SentryMiddleware() func(http.Handler) http.Handler {
	h := sentryhttp.New(sentryhttp.Options{Repanic: true, Timeout: 2 * time.Second})
	return h.Handle
}
