package realtime

import (
	"context"

	"github.com/johnquangdev/media-review/internal/eventbus"
	"github.com/johnquangdev/media-review/internal/usecase/bridge"
)

// route maps a bus topic to the SSE channel its events are pushed on
var route = map[eventbus.Topic]string{
	eventbus.TopicAssetChanged:         ChannelSession,
	eventbus.TopicNavigateRequested:    ChannelSession,
	eventbus.TopicCommentsUpdated:      ChannelComments,
	eventbus.TopicLiveStatusChanged:    ChannelComments,
	eventbus.TopicSnapshotCaptured:     ChannelComments,
	eventbus.TopicPageSynced:           ChannelTimeline,
	eventbus.TopicActiveCommentChanged: ChannelTimeline,
	eventbus.TopicScrollRequested:      ChannelTimeline,
	eventbus.TopicSeekRequested:        ChannelTimeline,
	eventbus.TopicCaptionChanged:       ChannelTimeline,
}

// Forwarder republishes bus events to the hub. It is also the viewer port of
// the bridge: host-to-viewer commands go out on the viewer channel.
type Forwarder struct {
	hub *Hub
}

// NewForwarder creates a forwarder over hub
func NewForwarder(hub *Hub) *Forwarder {
	return &Forwarder{hub: hub}
}

// Attach subscribes to every routed topic
func (f *Forwarder) Attach(bus *eventbus.Bus) func() {
	offs := make([]func(), 0, len(route))
	for topic, channel := range route {
		channel := channel
		offs = append(offs, bus.Subscribe(topic, func(ev eventbus.Event) {
			f.hub.Broadcast(Message{Channel: channel, Event: string(ev.Topic()), Data: ev})
		}))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// PostToViewer sends a command to the embedded viewer
func (f *Forwarder) PostToViewer(_ context.Context, msg bridge.Message) error {
	f.hub.Broadcast(Message{Channel: ChannelViewer, Event: msg.Type, Data: msg})
	return nil
}
