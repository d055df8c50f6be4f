package logger

import (
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the process-wide logger, also installed as the slog default.
var Log *slog.Logger

// Init builds the logger for the environment: debug-level text output in
// development, info-level JSON in production. When a Sentry DSN is
// configured, error records additionally fan out to Sentry.
func Init(isDev bool, sentryDSN string) {
	var base slog.Handler
	if isDev {
		base = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		base = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	handler := base
	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			slog.Warn("sentry init failed, logging to stdout only", "error", err)
		} else {
			handler = slogmulti.Fanout(base, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}
