// Package comments keeps the local comment list an authoritative mirror of
// the review backend: mutations go to the server, and every mutation and
// every poll is followed by a full re-fetch and re-sort.
package comments

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/domain/repositories"
	"github.com/johnquangdev/media-review/internal/eventbus"
	"github.com/johnquangdev/media-review/pkg/sessionctx"
)

// Validator checks drafts before they are submitted
type Validator interface {
	Validate(i interface{}) error
}

// Options configures an Engine
type Options struct {
	PollInterval time.Duration
	QuietAfter   int           // unchanged polls before the feed is reported quiet
	FetchTimeout time.Duration // bound on event-triggered refreshes
}

// LiveStatus is the live indicator state
type LiveStatus struct {
	Live  bool `json:"live"`
	Quiet bool `json:"quiet"`
	Count int  `json:"count"`
}

// Engine owns the comment list of the active asset
type Engine struct {
	repo      repositories.CommentRepository
	bus       *eventbus.Bus
	validator Validator
	logger    *zap.Logger
	opts      Options

	mu        sync.Mutex
	asset     entities.Asset
	comments  []entities.Comment
	issued    uint64 // last fetch sequence handed out
	applied   uint64 // last fetch sequence written to comments
	baseline  int    // count seen by the previous poll, -1 before the first
	unchanged int
	status    LiveStatus
	onPoll    []func(LiveStatus)
}

// NewEngine creates an engine with no active asset
func NewEngine(repo repositories.CommentRepository, bus *eventbus.Bus, v Validator, logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 3 * time.Second
	}
	if opts.QuietAfter <= 0 {
		opts.QuietAfter = 5
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 15 * time.Second
	}
	return &Engine{
		repo:      repo,
		bus:       bus,
		validator: v,
		logger:    logger.With(zap.String("component", "comments")),
		opts:      opts,
		baseline:  -1,
	}
}

// Attach subscribes the engine to identity changes and to the comments
// changed signal. The returned func detaches it.
func (e *Engine) Attach(bus *eventbus.Bus) func() {
	offAsset := bus.Subscribe(eventbus.TopicAssetChanged, func(ev eventbus.Event) {
		changed := ev.(eventbus.AssetChanged)
		if e.SetAsset(changed.Asset) {
			e.refresh(changed.Asset.ID)
		}
	})
	offChanged := bus.Subscribe(eventbus.TopicCommentsChanged, func(ev eventbus.Event) {
		e.refresh(ev.(eventbus.CommentsChanged).AssetID)
	})
	return func() {
		offAsset()
		offChanged()
	}
}

func (e *Engine) refresh(assetID string) {
	if assetID == "" || assetID != e.Asset().ID {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.opts.FetchTimeout)
	defer cancel()
	_, _ = e.List(ctx)
}

// SetAsset switches the engine to asset and drops the old list. It reports
// whether the asset changed.
func (e *Engine) SetAsset(asset entities.Asset) bool {
	e.mu.Lock()
	if asset == e.asset {
		e.mu.Unlock()
		return false
	}
	e.asset = asset
	e.comments = nil
	// fetches in flight now belong to the old asset
	e.applied = e.issued
	e.baseline = -1
	e.unchanged = 0
	e.status = LiveStatus{}
	e.mu.Unlock()

	e.publish(eventbus.CommentsUpdated{AssetID: asset.ID, Comments: []entities.Comment{}})
	return true
}

// Asset returns the asset the engine is following
func (e *Engine) Asset() entities.Asset {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.asset
}

// List fetches and sorts the comments of the active asset. On failure the
// previous list is kept and the error returned.
func (e *Engine) List(ctx context.Context) ([]entities.Comment, error) {
	comments, _, err := e.fetch(ctx, false)
	return comments, err
}

func (e *Engine) fetch(ctx context.Context, fromPoll bool) ([]entities.Comment, bool, error) {
	e.mu.Lock()
	asset := e.asset
	if asset.IsZero() {
		e.mu.Unlock()
		return nil, false, errors.ErrNoActiveAsset()
	}
	e.issued++
	seq := e.issued
	e.mu.Unlock()

	fetched, err := e.repo.List(ctx, asset.ID)
	if err != nil {
		e.logger.Error("comments.list.failed",
			zap.String("asset_id", asset.ID),
			zap.Uint64("seq", seq),
			zap.Error(err),
		)
		return e.Comments(), false, err
	}
	sorted := SortComments(fetched, asset.MediaType)

	e.mu.Lock()
	if asset != e.asset || seq <= e.applied {
		current := e.snapshot()
		e.mu.Unlock()
		e.logger.Debug("comments.list.stale",
			zap.String("asset_id", asset.ID),
			zap.Uint64("seq", seq),
		)
		return current, false, nil
	}
	e.applied = seq
	e.comments = sorted
	statusChanged := false
	if fromPoll {
		statusChanged = e.track(len(sorted))
	}
	status := e.status
	callbacks := append([]func(LiveStatus){}, e.onPoll...)
	e.mu.Unlock()

	e.publish(eventbus.CommentsUpdated{AssetID: asset.ID, Seq: seq, Comments: sorted})
	if statusChanged {
		e.publish(eventbus.LiveStatusChanged{Live: status.Live, Quiet: status.Quiet})
	}
	if fromPoll {
		for _, cb := range callbacks {
			cb(status)
		}
	}
	return sorted, statusChanged, nil
}

// track updates the live indicator from a poll result; caller holds mu
func (e *Engine) track(count int) bool {
	prev := e.status
	e.status.Count = count
	switch {
	case e.baseline < 0:
		// first poll only sets the baseline
	case count != e.baseline:
		e.unchanged = 0
		e.status.Live = true
		e.status.Quiet = false
	default:
		e.unchanged++
		if e.unchanged >= e.opts.QuietAfter {
			e.status.Live = false
			e.status.Quiet = true
		}
	}
	e.baseline = count
	return prev.Live != e.status.Live || prev.Quiet != e.status.Quiet
}

// Create submits a draft. The local list is not touched; the comments
// changed signal triggers the re-fetch.
func (e *Engine) Create(ctx context.Context, draft entities.CommentDraft) error {
	asset := e.Asset()
	if draft.AssetID == "" {
		if asset.IsZero() {
			return errors.ErrNoActiveAsset()
		}
		draft.AssetID = asset.ID
	}
	draft.Text = strings.TrimSpace(draft.Text)
	draft.Timestamp = entities.FloorSeconds(draft.Timestamp)
	if e.validator != nil {
		if err := e.validator.Validate(draft); err != nil {
			return err
		}
	}

	if err := e.repo.Create(ctx, draft); err != nil {
		e.logger.Error("comments.create.failed", append(sessionctx.Fields(ctx),
			zap.String("asset_id", draft.AssetID),
			zap.Error(err),
		)...)
		return err
	}
	e.logger.Info("comments.created", append(sessionctx.Fields(ctx), zap.String("asset_id", draft.AssetID))...)
	e.publish(eventbus.CommentsChanged{AssetID: draft.AssetID})
	return nil
}

// Edit replaces the full text of a comment
func (e *Engine) Edit(ctx context.Context, ref entities.CommentRef, text string) error {
	id, err := resolveRef(ref)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.ErrInvalidArgument("comment text is required")
	}
	if err := e.repo.Replace(ctx, id, text); err != nil {
		e.logger.Error("comments.edit.failed", zap.Int64("comment_id", id), zap.Error(err))
		return err
	}
	e.changed()
	return nil
}

// AppendThread adds a threaded reply below an existing comment
func (e *Engine) AppendThread(ctx context.Context, ref entities.CommentRef, authorLine, text string) error {
	id, err := resolveRef(ref)
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.ErrInvalidArgument("reply text is required")
	}
	existing, ok := e.find(id)
	if !ok {
		return errors.ErrNotFound("comment").WithDetail("ref", string(ref))
	}

	updated := entities.FormatAddition(existing.Text, authorLine, text)
	if err := e.repo.Replace(ctx, id, updated); err != nil {
		e.logger.Error("comments.thread.failed", zap.Int64("comment_id", id), zap.Error(err))
		return err
	}
	e.changed()
	return nil
}

// React sends a +1 for symbol. The backend deduplicates per user, currently
// by toggling an existing reaction off.
func (e *Engine) React(ctx context.Context, ref entities.CommentRef, symbol string) error {
	id, err := resolveRef(ref)
	if err != nil {
		return err
	}
	if strings.TrimSpace(symbol) == "" {
		return errors.ErrInvalidArgument("reaction symbol is required")
	}
	if err := e.repo.React(ctx, id, symbol); err != nil {
		e.logger.Error("comments.react.failed", zap.Int64("comment_id", id), zap.String("symbol", symbol), zap.Error(err))
		return err
	}
	e.changed()
	return nil
}

// Remove deletes a comment once confirm agrees. It reports whether the
// delete was sent.
func (e *Engine) Remove(ctx context.Context, ref entities.CommentRef, confirm func() bool) (bool, error) {
	id, err := resolveRef(ref)
	if err != nil {
		return false, err
	}
	if confirm != nil && !confirm() {
		return false, nil
	}
	if err := e.repo.Delete(ctx, id); err != nil {
		e.logger.Error("comments.delete.failed", zap.Int64("comment_id", id), zap.Error(err))
		return false, err
	}
	e.logger.Info("comments.deleted", append(sessionctx.Fields(ctx), zap.Int64("comment_id", id))...)
	e.changed()
	return true, nil
}

// Comments returns a copy of the current list
func (e *Engine) Comments() []entities.Comment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() []entities.Comment {
	out := make([]entities.Comment, len(e.comments))
	copy(out, e.comments)
	return out
}

// Find returns the comment with id from the current list
func (e *Engine) Find(id int64) (entities.Comment, bool) {
	return e.find(id)
}

func (e *Engine) find(id int64) (entities.Comment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.comments {
		if c.ID == id {
			return c, true
		}
	}
	return entities.Comment{}, false
}

// Live returns the live indicator
func (e *Engine) Live() LiveStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// OnPoll registers cb to run after every applied poll
func (e *Engine) OnPoll(cb func(LiveStatus)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onPoll = append(e.onPoll, cb)
}

// Poll runs one polling cycle
func (e *Engine) Poll(ctx context.Context) {
	if e.Asset().IsZero() {
		return
	}
	if _, _, err := e.fetch(ctx, true); err != nil {
		// next tick is the retry
		e.logger.Warn("comments.poll.failed", zap.Error(err))
	}
}

// Run polls at the configured interval until ctx is done. Polling never
// stops on its own; a quiet feed only changes the indicator.
func (e *Engine) Run(ctx context.Context) {
	ticker := backoff.NewTicker(backoff.NewConstantBackOff(e.opts.PollInterval))
	defer ticker.Stop()

	e.logger.Info("comments.poll.started", zap.Duration("interval", e.opts.PollInterval))
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("comments.poll.stopped")
			return
		case <-ticker.C:
			pollCtx, cancel := context.WithTimeout(ctx, e.opts.FetchTimeout)
			e.Poll(pollCtx)
			cancel()
		}
	}
}

func (e *Engine) changed() {
	e.publish(eventbus.CommentsChanged{AssetID: e.Asset().ID})
}

func (e *Engine) publish(ev eventbus.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

// resolveRef rejects placeholder references before any network call
func resolveRef(ref entities.CommentRef) (int64, error) {
	id, err := entities.ParseCommentRef(ref)
	if err != nil {
		return 0, errors.ErrInvalidIdentifier(string(ref))
	}
	return id, nil
}
