package timeline

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/eventbus"
)

// Tracker follows the playback position of the active asset and keeps the
// active comment in sync with it
type Tracker struct {
	bus         *eventbus.Bus
	logger      *zap.Logger
	window      float64
	scrollDelay time.Duration

	mu       sync.Mutex
	asset    entities.Asset
	comments []entities.Comment
	// listFor is the asset the comment list was fetched for
	listFor  string
	ready    bool
	position float64
	page     int
	active   int64
	scroll   *time.Timer
}

// NewTracker creates a tracker
func NewTracker(bus *eventbus.Bus, logger *zap.Logger, window float64, scrollDelay time.Duration) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		bus:         bus,
		logger:      logger.With(zap.String("component", "timeline")),
		window:      window,
		scrollDelay: scrollDelay,
	}
}

// Attach follows identity, comment and viewer page updates
func (t *Tracker) Attach(bus *eventbus.Bus) func() {
	offs := []func(){
		bus.Subscribe(eventbus.TopicAssetChanged, func(ev eventbus.Event) {
			t.SetAsset(ev.(eventbus.AssetChanged).Asset)
		}),
		bus.Subscribe(eventbus.TopicCommentsUpdated, func(ev eventbus.Event) {
			updated := ev.(eventbus.CommentsUpdated)
			t.SetComments(updated.AssetID, updated.Comments)
		}),
		bus.Subscribe(eventbus.TopicPageSynced, func(ev eventbus.Event) {
			t.SetPage(ev.(eventbus.PageSynced).Page)
		}),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// SetAsset resets playback state for a new asset
func (t *Tracker) SetAsset(asset entities.Asset) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if asset == t.asset {
		return
	}
	t.asset = asset
	// the list may already have arrived for this asset
	if t.listFor != asset.ID {
		t.comments = nil
		t.listFor = ""
	}
	t.ready = false
	t.position = 0
	t.page = 0
	t.active = 0
	t.stopScroll()
}

// SetComments replaces the comment list used for correlation. The list is
// tagged with assetID and only used while that asset is active.
func (t *Tracker) SetComments(assetID string, comments []entities.Comment) {
	t.mu.Lock()
	t.comments = comments
	t.listFor = assetID
	t.mu.Unlock()
	t.recompute()
}

// current returns the comment list of the active asset; caller holds mu
func (t *Tracker) current() []entities.Comment {
	if t.listFor != t.asset.ID {
		return nil
	}
	return t.comments
}

// SetReady records whether the player can report a position
func (t *Tracker) SetReady(ready bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ready = ready
}

// SetPage records the page shown in the document viewer
func (t *Tracker) SetPage(page int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.page = page
}

// Page returns the page last shown in the document viewer
func (t *Tracker) Page() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}

// UpdatePosition records the playback position reported by the player
func (t *Tracker) UpdatePosition(position float64) {
	t.mu.Lock()
	t.position = position
	t.ready = true
	t.mu.Unlock()
	t.recompute()
}

// Position returns the last reported position
func (t *Tracker) Position() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// CurrentTimestamp returns the whole-second position used for new comments.
// Before the player is ready it returns zero and an UnreadyMedia error.
func (t *Tracker) CurrentTimestamp() (float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ready {
		return 0, errors.ErrUnreadyMedia()
	}
	return entities.FloorSeconds(t.position), nil
}

// Seek asks the player to move and treats position as current
func (t *Tracker) Seek(position float64) {
	if position < 0 {
		position = 0
	}
	t.mu.Lock()
	t.position = position
	t.mu.Unlock()

	t.publish(eventbus.SeekRequested{Position: position})
	t.recompute()
}

// Active returns the id of the active comment, zero when none
func (t *Tracker) Active() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Clusters returns the scrub-bar markers for the current comments
func (t *Tracker) Clusters() []Cluster {
	t.mu.Lock()
	comments := t.current()
	t.mu.Unlock()
	return ClusterComments(comments, t.window)
}

// Pages returns the page markers for the current comments
func (t *Tracker) Pages() []PageCluster {
	t.mu.Lock()
	comments := t.current()
	t.mu.Unlock()
	return ClusterPages(comments)
}

func (t *Tracker) recompute() {
	t.mu.Lock()
	if t.asset.MediaType.Axis() != entities.AxisTime {
		t.mu.Unlock()
		return
	}
	c, ok := ActiveComment(t.current(), t.position, t.window)
	var next int64
	if ok {
		next = c.ID
	}
	if next == t.active {
		t.mu.Unlock()
		return
	}
	t.active = next
	if ok {
		t.scheduleScroll(next)
	} else {
		t.stopScroll()
	}
	t.mu.Unlock()

	t.publish(eventbus.ActiveCommentChanged{CommentID: next, Active: ok})
}

// scheduleScroll defers the scroll request until the list has settled; a
// newer active comment cancels the pending one. Caller holds mu.
func (t *Tracker) scheduleScroll(id int64) {
	t.stopScroll()
	t.scroll = time.AfterFunc(t.scrollDelay, func() {
		t.mu.Lock()
		current := t.active
		t.mu.Unlock()
		if current == id {
			t.publish(eventbus.ScrollRequested{CommentID: id})
		}
	})
}

func (t *Tracker) stopScroll() {
	if t.scroll != nil {
		t.scroll.Stop()
		t.scroll = nil
	}
}

func (t *Tracker) publish(ev eventbus.Event) {
	if t.bus != nil {
		t.bus.Publish(ev)
	}
}
