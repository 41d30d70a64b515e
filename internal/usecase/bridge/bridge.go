// Package bridge is the host side of the message channel to the embedded
// document viewer. One owner receives every inbound envelope, demultiplexes
// it by type and republishes the result on the event bus.
package bridge

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/eventbus"
)

// Message types. Viewers may prefix inbound types with "PDF_".
const (
	TypePageSync        = "PAGE_SYNC"
	TypeCommentSnapshot = "COMMENT_SNAPSHOT"
	TypeJumpToPage      = "JUMP_TO_PAGE"

	legacyPrefix = "PDF_"

	// ProtocolVersion is the newest envelope version this host understands
	ProtocolVersion = 1
)

var slideHash = regexp.MustCompile(`^#slide-(\d+)$`)

// Message is a host-to-viewer envelope
type Message struct {
	Type string `json:"type"`
	Page int    `json:"page"`
}

// ViewerPort delivers messages to the viewer frame. Delivery is
// fire-and-forget.
type ViewerPort interface {
	PostToViewer(ctx context.Context, msg Message) error
}

// HandlerFunc processes one inbound envelope
type HandlerFunc func(ctx context.Context, raw json.RawMessage) error

// Snapshot is a region capture waiting to be attached to a comment
type Snapshot struct {
	Page  int    `json:"page"`
	Image string `json:"image"`
}

// PageState is the viewer position last reported
type PageState struct {
	Page       int  `json:"page"`
	TotalPages *int `json:"total_pages,omitempty"`
}

type envelope struct {
	Type    string `json:"type"`
	Version int    `json:"version,omitempty"`
}

// Bridge is the single owner of the viewer channel
type Bridge struct {
	port       ViewerPort
	bus        *eventbus.Bus
	logger     *zap.Logger
	viewerPath string

	mu       sync.Mutex
	handlers map[string]HandlerFunc
	active   bool
	asset    entities.Asset
	page     PageState
	snapshot *Snapshot
}

// New creates a bridge. viewerPath is where the viewer page is served.
func New(port ViewerPort, bus *eventbus.Bus, logger *zap.Logger, viewerPath string) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	if viewerPath == "" {
		viewerPath = "/pdf-viewer/viewer.html"
	}
	b := &Bridge{
		port:       port,
		bus:        bus,
		logger:     logger.With(zap.String("component", "bridge")),
		viewerPath: viewerPath,
		handlers:   make(map[string]HandlerFunc),
	}
	b.handlers[TypePageSync] = b.handlePageSync
	b.handlers[TypeCommentSnapshot] = b.handleSnapshot
	return b
}

// Attach follows identity changes
func (b *Bridge) Attach(bus *eventbus.Bus) func() {
	return bus.Subscribe(eventbus.TopicAssetChanged, func(ev eventbus.Event) {
		b.SetAsset(ev.(eventbus.AssetChanged).Asset)
	})
}

// SetAsset activates the bridge for storyboards only and resets viewer state
func (b *Bridge) SetAsset(asset entities.Asset) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if asset == b.asset {
		return
	}
	b.asset = asset
	b.active = asset.MediaType.UsesViewerBridge()
	b.page = PageState{}
	b.snapshot = nil
}

// Active reports whether a viewer frame is expected
func (b *Bridge) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Handle registers fn for an inbound type, replacing any previous handler
func (b *Bridge) Handle(msgType string, fn HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[normalize(msgType)] = fn
}

// Dispatch routes one inbound envelope. Unknown types and envelopes that
// arrive while no viewer is active are ignored.
func (b *Bridge) Dispatch(ctx context.Context, raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		b.logger.Warn("bridge.message.malformed", zap.Error(err))
		return errors.ErrInvalidArgument("viewer message is not a JSON object")
	}
	msgType := normalize(env.Type)

	b.mu.Lock()
	fn, known := b.handlers[msgType]
	active := b.active
	b.mu.Unlock()

	if !known {
		b.logger.Debug("bridge.message.ignored", zap.String("type", env.Type))
		return nil
	}
	if !active {
		b.logger.Debug("bridge.message.inactive", zap.String("type", env.Type))
		return nil
	}
	if env.Version > ProtocolVersion {
		b.logger.Debug("bridge.message.newer_version", zap.String("type", env.Type), zap.Int("version", env.Version))
	}
	return fn(ctx, raw)
}

func normalize(msgType string) string {
	return strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(msgType)), legacyPrefix)
}

func (b *Bridge) handlePageSync(_ context.Context, raw json.RawMessage) error {
	var msg struct {
		Page       int  `json:"page"`
		TotalPages *int `json:"totalPages"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return errors.ErrInvalidArgument("page sync payload is invalid")
	}
	if msg.Page < 1 {
		b.logger.Debug("bridge.page_sync.ignored", zap.Int("page", msg.Page))
		return nil
	}

	b.mu.Lock()
	b.page.Page = msg.Page
	if msg.TotalPages != nil && *msg.TotalPages > 0 {
		total := *msg.TotalPages
		b.page.TotalPages = &total
	}
	state := b.page
	b.mu.Unlock()

	b.publish(eventbus.PageSynced{Page: state.Page, TotalPages: state.TotalPages})
	return nil
}

func (b *Bridge) handleSnapshot(_ context.Context, raw json.RawMessage) error {
	var msg Snapshot
	if err := json.Unmarshal(raw, &msg); err != nil {
		return errors.ErrInvalidArgument("snapshot payload is invalid")
	}
	if msg.Image == "" {
		return errors.ErrInvalidArgument("snapshot image is empty")
	}

	b.mu.Lock()
	b.snapshot = &msg
	b.mu.Unlock()

	b.logger.Info("bridge.snapshot.captured", zap.Int("page", msg.Page), zap.Int("bytes", len(msg.Image)))
	b.publish(eventbus.SnapshotCaptured{Page: msg.Page, Image: msg.Image})
	return nil
}

// HandleHash applies a "#slide-N" deep link. It reports the page it jumped
// to, or false when hash is not a slide link.
func (b *Bridge) HandleHash(ctx context.Context, hash string) (int, bool) {
	m := slideHash.FindStringSubmatch(strings.TrimSpace(hash))
	if m == nil {
		return 0, false
	}
	page, err := strconv.Atoi(m[1])
	if err != nil || page < 1 {
		return 0, false
	}
	if err := b.JumpToPage(ctx, page); err != nil {
		return 0, false
	}
	return page, true
}

// JumpToPage asks the viewer to show page. Nothing is sent while no viewer
// is active. Delivery failures are logged and not retried.
func (b *Bridge) JumpToPage(ctx context.Context, page int) error {
	if page < 1 {
		return errors.ErrInvalidArgument("page must be positive")
	}
	if !b.Active() {
		b.logger.Debug("bridge.jump.inactive", zap.Int("page", page))
		return nil
	}
	if b.port == nil {
		return nil
	}
	if err := b.port.PostToViewer(ctx, Message{Type: TypeJumpToPage, Page: page}); err != nil {
		b.logger.Warn("bridge.jump.undelivered", zap.Int("page", page), zap.Error(err))
	}
	return nil
}

// CurrentPage returns the position last reported by the viewer
func (b *Bridge) CurrentPage() PageState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

// PendingSnapshot returns the capture waiting for the next comment
func (b *Bridge) PendingSnapshot() (Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.snapshot == nil {
		return Snapshot{}, false
	}
	return *b.snapshot, true
}

// ClearSnapshot drops the pending capture
func (b *Bridge) ClearSnapshot() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshot = nil
}

// ViewerURL addresses the viewer frame for a document
func (b *Bridge) ViewerURL(documentURL string) string {
	return b.viewerPath + "?file=" + encodeURIComponent(documentURL)
}

// encodeURIComponent matches the browser function: spaces become %20
func encodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	for _, keep := range []string{"!", "'", "(", ")", "*"} {
		escaped = strings.ReplaceAll(escaped, url.QueryEscape(keep), keep)
	}
	return escaped
}

func (b *Bridge) publish(ev eventbus.Event) {
	if b.bus != nil {
		b.bus.Publish(ev)
	}
}
