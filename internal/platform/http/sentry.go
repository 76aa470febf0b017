package http

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// SentryMiddleware reports panics and captured errors to Sentry, tagged
// with the request ID set by RequestIDMiddleware. Call sentry.Init with the
// configured DSN before wiring this; an empty DSN leaves Sentry's client a
// no-op, so this middleware is always safe to mount.
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}
