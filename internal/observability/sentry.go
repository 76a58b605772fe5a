package observability

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/lingua-labs/lingua-api/internal/config"
)

const sentryFlushTimeout = 2 * time.Second

// InitSentry configures the global Sentry client. It returns a flush function
// to call on shutdown; with an empty DSN reporting is disabled and the
// function does nothing.
func InitSentry(cfg config.ObservabilityConfig, environment string) (func(), error) {
	if cfg.SentryDSN == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: environment,
		Release:     cfg.Release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(sentryFlushTimeout) }, nil
}

// SentryMiddleware gives every request its own hub and reports panics before
// re-raising them for the recoverer further up the chain.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{
		Repanic: true,
		Timeout: sentryFlushTimeout,
	}).Handle
}
