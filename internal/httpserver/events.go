package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zizi-storefront/internal/storefront"
)

const heartbeatInterval = 30 * time.Second

// eventsHandler streams the visitor's state changes as server-sent events,
// starting with the current page.
func eventsHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		app := appFrom(c)
		ctx := c.Request.Context()

		page, err := app.Page(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
			return
		}

		events := make(chan storefront.Event, 32)
		stop := app.Subscribe(func(ev storefront.Event) {
			select {
			case events <- ev:
			default:
				logger.Warn("sse: dropping event for slow client", zap.String("visitor_id", app.VisitorID), zap.String("type", ev.Type))
			}
		})
		defer stop()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		c.SSEvent("page", page)
		c.Writer.Flush()
		logger.Debug("sse: connected", zap.String("visitor_id", app.VisitorID))

		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Debug("sse: client disconnected", zap.String("visitor_id", app.VisitorID))
				return
			case ev := <-events:
				c.SSEvent(ev.Type, ev.Data)
				c.Writer.Flush()
			case <-ticker.C:
				c.SSEvent("heartbeat", gin.H{"timestamp": time.Now().UTC().Format(time.RFC3339)})
				c.Writer.Flush()
			}
		}
	}
}
