// Package identity maintains which asset is under review. Route changes,
// catalog listings and explicit selections are inputs to one state machine
// whose output is the active asset identity.
package identity

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/domain/repositories"
	"github.com/johnquangdev/media-review/internal/eventbus"
)

const (
	keyAssetID    = "asset_id"
	keyDisplayURL = "display_url"
	keyMediaType  = "media_type"
)

// Options configures a Resolver
type Options struct {
	Profile      string // namespaces durable keys per reviewer
	MediaBaseURL string // root of guessed asset URLs
}

// Resolver owns the active asset identity
type Resolver struct {
	store   repositories.StateStore
	catalog repositories.MediaCatalog
	bus     *eventbus.Bus
	logger  *zap.Logger
	opts    Options

	mu        sync.Mutex
	current   entities.Asset
	mediaType entities.MediaType // catalog category shown in the picker
	pathParam string
	pending   bool
}

// NewResolver creates a resolver with no active asset
func NewResolver(store repositories.StateStore, catalog repositories.MediaCatalog, bus *eventbus.Bus, logger *zap.Logger, opts Options) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Profile == "" {
		opts.Profile = "default"
	}
	return &Resolver{
		store:     store,
		catalog:   catalog,
		bus:       bus,
		logger:    logger.With(zap.String("component", "identity")),
		opts:      opts,
		mediaType: entities.MediaTypeVideo,
	}
}

func (r *Resolver) key(name string) string {
	return "review:" + r.opts.Profile + ":" + name
}

// Restore loads the persisted selection, if any
func (r *Resolver) Restore(ctx context.Context) (entities.Asset, error) {
	storedURL, ok, err := r.store.Get(ctx, r.key(keyDisplayURL))
	if err != nil {
		return entities.Asset{}, errors.ErrStoreFailed("restore", err)
	}

	r.mu.Lock()
	if t, found, _ := r.store.Get(ctx, r.key(keyMediaType)); found {
		if parsed, valid := entities.ParseMediaType(t); valid {
			r.mediaType = parsed
		}
	}
	if ok && storedURL != "" {
		r.current = entities.NewAsset(storedURL)
	}
	asset := r.current
	r.mu.Unlock()

	if !asset.IsZero() {
		r.logger.Info("identity.restored", zap.String("asset_id", asset.ID), zap.String("media_type", asset.MediaType.String()))
		r.publish(eventbus.AssetChanged{Asset: asset})
	}
	return asset, nil
}

// Route applies the path parameter of the review address. It runs on the
// initial load and on every address change.
func (r *Resolver) Route(ctx context.Context, pathParam string) (entities.Asset, error) {
	pathParam = strings.TrimSpace(pathParam)

	r.mu.Lock()
	if pathParam == "" || (pathParam == r.pathParam && !r.current.IsZero()) {
		r.pathParam = pathParam
		asset := r.current
		r.mu.Unlock()
		return asset, nil
	}
	r.pathParam = pathParam
	r.mediaType = entities.ClassifyMediaType(pathParam)
	r.persist(ctx, keyMediaType, r.mediaType.String())

	storedURL, ok, err := r.store.Get(ctx, r.key(keyDisplayURL))
	if err != nil {
		r.logger.Warn("identity.store.read_failed", zap.Error(err))
	}

	switch {
	case ok && strings.Contains(storedURL, pathParam):
		r.current = entities.NewAsset(storedURL)
		r.pending = false
	default:
		if ok {
			// stale selection from another asset
			r.remove(ctx, keyDisplayURL)
		}
		guessed := entities.GuessAssetURL(r.opts.MediaBaseURL, r.mediaType, pathParam)
		r.current = entities.NewAsset(guessed)
		r.pending = true
	}
	r.persist(ctx, keyAssetID, r.current.ID)
	asset, pending := r.current, r.pending
	r.mu.Unlock()

	r.logger.Info("identity.routed",
		zap.String("path_param", pathParam),
		zap.String("asset_id", asset.ID),
		zap.String("display_url", asset.DisplayURL),
		zap.Bool("pending", pending),
	)
	r.publish(eventbus.AssetChanged{Asset: asset, Pending: pending})

	if pending {
		if _, err := r.RefreshCatalog(ctx); err != nil {
			r.logger.Warn("identity.catalog.unconfirmed", zap.Error(err))
		}
	}
	return r.Current(), nil
}

// RefreshCatalog lists the current category and applies the result
func (r *Resolver) RefreshCatalog(ctx context.Context) ([]entities.MediaFile, error) {
	mediaType := r.MediaType()
	files, err := r.catalog.List(ctx, mediaType)
	if err != nil {
		r.logger.Error("identity.catalog.failed", zap.String("category", mediaType.Category()), zap.Error(err))
		if errors.Code(err) == errors.ErrorCode_CATALOG_FAILED {
			return nil, err
		}
		return nil, errors.ErrCatalogFailed(err)
	}
	r.ApplyCatalog(ctx, mediaType, files)
	return files, nil
}

// ApplyCatalog confirms or replaces the selection from a catalog listing.
// A listed URL containing the path parameter wins, else the first entry.
// A settled selection of the same category is left alone.
func (r *Resolver) ApplyCatalog(ctx context.Context, mediaType entities.MediaType, files []entities.MediaFile) {
	if len(files) == 0 {
		return
	}

	r.mu.Lock()
	if mediaType != r.mediaType {
		// listing for a category the picker already left
		r.mu.Unlock()
		return
	}
	settled := !r.pending && !r.current.IsZero() && r.current.MediaType == mediaType
	pathParam := r.pathParam
	r.mu.Unlock()
	if settled {
		return
	}

	choice := files[0].URL
	if pathParam != "" {
		for _, f := range files {
			if strings.Contains(f.URL, pathParam) {
				choice = f.URL
				break
			}
		}
	}
	if _, err := r.Select(ctx, choice); err != nil {
		r.logger.Warn("identity.catalog.select_failed", zap.String("url", choice), zap.Error(err))
	}
}

// Select makes url the active asset. When its id differs from the path
// parameter a NavigateRequested is published; the follow-up Route with the
// new id is a no-op.
func (r *Resolver) Select(ctx context.Context, displayURL string) (entities.Asset, error) {
	asset := entities.NewAsset(displayURL)
	if asset.ID == "" {
		return entities.Asset{}, errors.ErrInvalidArgument("asset url has no file name").WithDetail("url", displayURL)
	}

	r.mu.Lock()
	changed := asset != r.current
	r.current = asset
	r.pending = false
	r.mediaType = asset.MediaType
	r.persist(ctx, keyAssetID, asset.ID)
	r.persist(ctx, keyDisplayURL, asset.DisplayURL)
	r.persist(ctx, keyMediaType, asset.MediaType.String())
	navigate := asset.ID != r.pathParam
	if navigate {
		r.pathParam = asset.ID
	}
	r.mu.Unlock()

	if changed {
		r.logger.Info("identity.selected", zap.String("asset_id", asset.ID), zap.String("media_type", asset.MediaType.String()))
		r.publish(eventbus.AssetChanged{Asset: asset})
	}
	if navigate {
		r.publish(eventbus.NavigateRequested{AssetID: asset.ID, Path: "/review/" + asset.ID})
	}
	return asset, nil
}

// Override selects an uploaded file by name or URL
func (r *Resolver) Override(ctx context.Context, filenameOrURL string) (entities.Asset, error) {
	filenameOrURL = strings.TrimSpace(filenameOrURL)
	if filenameOrURL == "" {
		return entities.Asset{}, errors.ErrInvalidArgument("file name is required")
	}
	return r.Select(ctx, filenameOrURL)
}

// SwitchMediaType changes the picker category and reloads the catalog
func (r *Resolver) SwitchMediaType(ctx context.Context, mediaType entities.MediaType) ([]entities.MediaFile, error) {
	r.mu.Lock()
	r.mediaType = mediaType
	r.persist(ctx, keyMediaType, mediaType.String())
	r.mu.Unlock()

	return r.RefreshCatalog(ctx)
}

// Current returns the active asset; zero when none is selected
func (r *Resolver) Current() entities.Asset {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// PathParam returns the last routed path parameter
func (r *Resolver) PathParam() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pathParam
}

// Pending reports whether the active URL is a guess awaiting the catalog
func (r *Resolver) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// MediaType returns the picker category
func (r *Resolver) MediaType() entities.MediaType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mediaType
}

func (r *Resolver) persist(ctx context.Context, name, value string) {
	if err := r.store.Set(ctx, r.key(name), value); err != nil {
		r.logger.Warn("identity.store.write_failed", zap.String("key", name), zap.Error(err))
	}
}

func (r *Resolver) remove(ctx context.Context, name string) {
	if err := r.store.Delete(ctx, r.key(name)); err != nil {
		r.logger.Warn("identity.store.delete_failed", zap.String("key", name), zap.Error(err))
	}
}

func (r *Resolver) publish(event eventbus.Event) {
	if r.bus != nil {
		r.bus.Publish(event)
	}
}
