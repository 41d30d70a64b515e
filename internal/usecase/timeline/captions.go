package timeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/domain/repositories"
	"github.com/johnquangdev/media-review/internal/eventbus"
)

// Captions samples the transcript line under the playback position
type Captions struct {
	repo   repositories.TranscriptRepository
	bus    *eventbus.Bus
	logger *zap.Logger
	rate   time.Duration

	mu      sync.Mutex
	assetID string
	lines   []entities.TranscriptLine
	current string
}

// NewCaptions creates a sampler; rate defaults to 200ms
func NewCaptions(repo repositories.TranscriptRepository, bus *eventbus.Bus, logger *zap.Logger, rate time.Duration) *Captions {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rate <= 0 {
		rate = 200 * time.Millisecond
	}
	return &Captions{
		repo:   repo,
		bus:    bus,
		logger: logger.With(zap.String("component", "captions")),
		rate:   rate,
	}
}

// Attach loads the transcript in the background whenever a time-axis asset
// becomes active
func (c *Captions) Attach(bus *eventbus.Bus, timeout time.Duration) func() {
	return bus.Subscribe(eventbus.TopicAssetChanged, func(ev eventbus.Event) {
		asset := ev.(eventbus.AssetChanged).Asset
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			_ = c.Load(ctx, asset)
		}()
	})
}

// Load fetches the transcript of asset. Page-axis assets have none.
func (c *Captions) Load(ctx context.Context, asset entities.Asset) error {
	c.mu.Lock()
	if asset.ID == c.assetID {
		c.mu.Unlock()
		return nil
	}
	c.assetID = asset.ID
	c.lines = nil
	c.mu.Unlock()
	c.update("")

	if asset.IsZero() || asset.MediaType.Axis() != entities.AxisTime || c.repo == nil {
		return nil
	}
	lines, err := c.repo.Lines(ctx, asset.ID)
	if err != nil {
		c.logger.Warn("captions.load.failed", zap.String("asset_id", asset.ID), zap.Error(err))
		c.mu.Lock()
		if c.assetID == asset.ID {
			// next Load for this asset tries again
			c.assetID = ""
		}
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.assetID != asset.ID {
		return nil
	}
	c.lines = lines
	c.logger.Info("captions.loaded", zap.String("asset_id", asset.ID), zap.Int("lines", len(lines)))
	return nil
}

// SetLines replaces the transcript
func (c *Captions) SetLines(lines []entities.TranscriptLine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = lines
}

// Sample returns the text of the line containing position. When lines
// overlap the last match wins.
func (c *Captions) Sample(position float64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, found := "", false
	for _, l := range c.lines {
		if l.Contains(position) {
			text, found = l.Text, true
		}
	}
	return text, found
}

// Current returns the caption shown now
func (c *Captions) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Tick samples once and publishes a change
func (c *Captions) Tick(position float64) {
	text, _ := c.Sample(position)
	c.update(text)
}

func (c *Captions) update(text string) {
	c.mu.Lock()
	if text == c.current {
		c.mu.Unlock()
		return
	}
	c.current = text
	c.mu.Unlock()

	if c.bus != nil {
		c.bus.Publish(eventbus.CaptionChanged{Text: text})
	}
}

// Run samples position at the configured rate until ctx is done
func (c *Captions) Run(ctx context.Context, position func() float64) {
	ticker := time.NewTicker(c.rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick(position())
		}
	}
}
