// Package metrics also carries the gin middleware pair every HTTP
// surface in this module wires in: structured request logging and
// prometheus recording. Both run after the handler (c.Next() first) so
// they can see the response status and, for the frame-decode route, the
// authenticated client name the handler stashed in the gin context.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger logs one structured event per request. If a downstream
// handler recorded which authenticated client made the call (see
// internal/debugserver's requireAuth), the event carries that identity
// alongside the usual method/path/status fields.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}

		event = event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("bytes", c.Writer.Size())
		if client, ok := c.Get("client"); ok {
			event = event.Str("client", client.(string))
		}
		event.Msg("http_request")
	}
}

// RequestMetricsMiddleware records one prometheus observation per
// request, labeled by service (which route tree the request hit —
// "debugserver" today, room for more as this module grows other HTTP
// surfaces).
func RequestMetricsMiddleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		RecordHTTPRequest(service, c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
