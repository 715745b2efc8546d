package handlers

import (
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/daftarapp/daftar-api/internal/middleware"
	"github.com/daftarapp/daftar-api/internal/realtime"
	"github.com/daftarapp/daftar-api/pkg/logger"
)

type EventsHandler struct {
	bus realtime.Bus
}

func NewEventsHandler(bus realtime.Bus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

// @Summary Change Events
// @Description Server-sent event stream of table change notifications
// @Tags Events
// @Produce text/event-stream
// @Param tables query string false "Comma-separated table filter (customers,transactions,payments)"
// @Success 200 {string} string
// @Security BearerAuth
// @Router /events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	// Empty filter means every table.
	filter := map[string]bool{}
	if tables := c.Query("tables"); tables != "" {
		for _, t := range strings.Split(tables, ",") {
			filter[strings.TrimSpace(t)] = true
		}
	}

	events, cancel := h.bus.Subscribe()
	defer cancel()

	// Streams stay open for a long time; note who holds them.
	logger.Info("Event stream opened", "email", middleware.GetUserEmail(c))

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			if len(filter) > 0 && !filter[event.Table] {
				return true
			}
			c.SSEvent("change", event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
