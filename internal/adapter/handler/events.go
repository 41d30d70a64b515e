package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/internal/realtime"
)

// Events streams review state to browser surfaces
type Events struct {
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *realtime.Hub, logger *zap.Logger) *Events {
	return &Events{hub: hub, logger: logger}
}

// Stream handles GET /events?channels=comments,timeline. With no channels
// the client receives every channel.
// @Summary      Stream review events
// @Tags         Events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        channels  query     string  false  "Comma separated channels (session, comments, timeline, viewer)"
// @Success      200  {string}  string  "Server-sent events"
// @Router       /events [get]
func (h *Events) Stream(c echo.Context) error {
	channels := realtime.Channels
	if raw := strings.TrimSpace(c.QueryParam("channels")); raw != "" {
		channels = strings.Split(raw, ",")
	}

	client := h.hub.NewClient()
	for _, ch := range channels {
		h.hub.AddChannel(client, ch)
	}
	defer h.hub.CloseClient(client)

	if h.logger != nil {
		h.logger.Info("sse.client.connected",
			zap.String("request_id", getRequestID(c)),
			zap.String("client_id", client.ID.String()),
			zap.Strings("channels", channels),
		)
	}
	h.hub.ServeHTTP(c.Response(), c.Request(), client)
	return nil
}
