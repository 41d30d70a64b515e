package identity

import (
	"context"
	stdErrors "errors"
	"testing"

	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/eventbus"
	"github.com/johnquangdev/media-review/internal/infrastructure/cache"
)

const base = "https://naveon-video-storage.s3.amazonaws.com"

type fakeCatalog struct {
	files map[entities.MediaType][]entities.MediaFile
	err   error
	calls []entities.MediaType
}

func (f *fakeCatalog) List(_ context.Context, t entities.MediaType) ([]entities.MediaFile, error) {
	f.calls = append(f.calls, t)
	if f.err != nil {
		return nil, f.err
	}
	return f.files[t], nil
}

type recorder struct {
	assets    []eventbus.AssetChanged
	navigates []eventbus.NavigateRequested
}

func newHarness(t *testing.T, catalog *fakeCatalog) (*Resolver, *cache.MemoryStore, *recorder) {
	t.Helper()
	store := cache.NewMemoryStore(0)
	t.Cleanup(func() { store.Close() })
	bus := eventbus.New(zap.NewNop())
	rec := &recorder{}
	bus.Subscribe(eventbus.TopicAssetChanged, func(e eventbus.Event) {
		rec.assets = append(rec.assets, e.(eventbus.AssetChanged))
	})
	bus.Subscribe(eventbus.TopicNavigateRequested, func(e eventbus.Event) {
		rec.navigates = append(rec.navigates, e.(eventbus.NavigateRequested))
	})
	r := NewResolver(store, catalog, bus, zap.NewNop(), Options{Profile: "alice", MediaBaseURL: base})
	return r, store, rec
}

func TestRoute_GuessesStoryboardURL(t *testing.T) {
	r, _, rec := newHarness(t, &fakeCatalog{err: stdErrors.New("offline")})

	asset, err := r.Route(context.Background(), "intro-storyboard.pdf")
	if err != nil {
		t.Fatalf("route failed: %v", err)
	}
	if asset.MediaType != entities.MediaTypeStoryboard {
		t.Fatalf("want storyboard got %s", asset.MediaType)
	}
	if want := base + "/storyboards/intro-storyboard.pdf"; asset.DisplayURL != want {
		t.Fatalf("want %s got %s", want, asset.DisplayURL)
	}
	if asset.ID != "intro-storyboard" {
		t.Fatalf("want id intro-storyboard got %s", asset.ID)
	}
	if !r.Pending() {
		t.Fatalf("guessed url should be pending confirmation")
	}
	if len(rec.assets) != 1 || !rec.assets[0].Pending {
		t.Fatalf("want one pending asset event got %+v", rec.assets)
	}
}

func TestRoute_CatalogConfirmationConverges(t *testing.T) {
	listed := base + "/storyboards/intro-storyboard.pdf"
	catalog := &fakeCatalog{files: map[entities.MediaType][]entities.MediaFile{
		entities.MediaTypeStoryboard: {
			{Filename: "other.pdf", URL: base + "/storyboards/other.pdf"},
			{Filename: "intro-storyboard.pdf", URL: listed},
		},
	}}
	r, store, rec := newHarness(t, catalog)
	ctx := context.Background()

	if _, err := r.Route(ctx, "intro-storyboard.pdf"); err != nil {
		t.Fatalf("route failed: %v", err)
	}
	if r.Pending() {
		t.Fatalf("catalog should confirm the guess")
	}
	if got := r.Current().DisplayURL; got != listed {
		t.Fatalf("want listed url got %s", got)
	}
	if len(rec.navigates) != 1 || rec.navigates[0].Path != "/review/intro-storyboard" {
		t.Fatalf("want one navigation to /review/intro-storyboard got %+v", rec.navigates)
	}

	// the surface follows the navigation; nothing else should happen
	events := len(rec.assets)
	if _, err := r.Route(ctx, "intro-storyboard"); err != nil {
		t.Fatalf("second route failed: %v", err)
	}
	if len(rec.assets) != events || len(rec.navigates) != 1 {
		t.Fatalf("round trip did not converge: assets=%d navigates=%d", len(rec.assets), len(rec.navigates))
	}

	stored, ok, _ := store.Get(ctx, "review:alice:display_url")
	if !ok || stored != listed {
		t.Fatalf("want persisted url %s got %q", listed, stored)
	}
}

func TestRoute_StoredURLKeptWhenItMatches(t *testing.T) {
	r, store, _ := newHarness(t, &fakeCatalog{})
	ctx := context.Background()
	url := base + "/videos/launch.mp4"
	store.Set(ctx, "review:alice:display_url", url)

	asset, _ := r.Route(ctx, "launch")
	if asset.DisplayURL != url || r.Pending() {
		t.Fatalf("want stored url kept got %+v pending=%v", asset, r.Pending())
	}
}

func TestRoute_StoredURLDiscardedWhenStale(t *testing.T) {
	r, store, _ := newHarness(t, &fakeCatalog{err: stdErrors.New("offline")})
	ctx := context.Background()
	store.Set(ctx, "review:alice:display_url", base+"/videos/launch.mp4")

	asset, _ := r.Route(ctx, "teaser")
	if asset.DisplayURL != base+"/videos/teaser" {
		t.Fatalf("want guessed url got %s", asset.DisplayURL)
	}
	if _, ok, _ := store.Get(ctx, "review:alice:display_url"); ok {
		t.Fatalf("stale url should be removed")
	}
}

func TestSelect_RecomputesIdentityAndNavigates(t *testing.T) {
	r, store, rec := newHarness(t, &fakeCatalog{})
	ctx := context.Background()

	asset, err := r.Select(ctx, base+"/voiceovers/narration_voice.mp3")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if asset.ID != "narration_voice" || asset.MediaType != entities.MediaTypeVoiceover {
		t.Fatalf("unexpected asset %+v", asset)
	}
	if r.MediaType() != entities.MediaTypeVoiceover {
		t.Fatalf("picker should follow selection got %s", r.MediaType())
	}
	if len(rec.navigates) != 1 || rec.navigates[0].AssetID != "narration_voice" {
		t.Fatalf("unexpected navigations %+v", rec.navigates)
	}
	if v, _, _ := store.Get(ctx, "review:alice:media_type"); v != "voiceover" {
		t.Fatalf("want persisted media type voiceover got %q", v)
	}

	if _, err := r.Select(ctx, ""); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestSwitchMediaType_SelectsFirstListed(t *testing.T) {
	catalog := &fakeCatalog{files: map[entities.MediaType][]entities.MediaFile{
		entities.MediaTypeDocument: {{Filename: "brief.docx", URL: base + "/documents/brief.docx"}},
	}}
	r, _, _ := newHarness(t, catalog)
	ctx := context.Background()
	r.Select(ctx, base+"/videos/launch.mp4")

	files, err := r.SwitchMediaType(ctx, entities.MediaTypeDocument)
	if err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("want one file got %d", len(files))
	}
	if got := r.Current(); got.ID != "brief" || got.MediaType != entities.MediaTypeDocument {
		t.Fatalf("want brief document got %+v", got)
	}
}

func TestRestore_LoadsPersistedSelection(t *testing.T) {
	r, store, rec := newHarness(t, &fakeCatalog{})
	ctx := context.Background()
	store.Set(ctx, "review:alice:display_url", base+"/storyboards/ep1_storyboard.pdf")

	asset, err := r.Restore(ctx)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if asset.ID != "ep1_storyboard" || asset.MediaType != entities.MediaTypeStoryboard {
		t.Fatalf("unexpected asset %+v", asset)
	}
	if len(rec.assets) != 1 {
		t.Fatalf("want one asset event got %d", len(rec.assets))
	}
}

func TestMediaType_SameForEveryTrigger(t *testing.T) {
	cases := []struct {
		name string
		want entities.MediaType
	}{
		{"deck-storyboard.pdf", entities.MediaTypeStoryboard},
		{"voiceover_storyboard.pdf", entities.MediaTypeStoryboard},
		{"brief.docx", entities.MediaTypeDocument},
		{"launch.mp4", entities.MediaTypeVideo},
	}
	ctx := context.Background()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			routed, _, _ := newHarness(t, &fakeCatalog{err: stdErrors.New("offline")})
			asset, err := routed.Route(ctx, tc.name)
			if err != nil || asset.MediaType != tc.want {
				t.Fatalf("route: want %s got %s err=%v", tc.want, asset.MediaType, err)
			}

			listed := &fakeCatalog{files: map[entities.MediaType][]entities.MediaFile{
				tc.want: {{Filename: tc.name, URL: base + "/uploads/" + tc.name}},
			}}
			picked, _, _ := newHarness(t, listed)
			if _, err := picked.SwitchMediaType(ctx, tc.want); err != nil {
				t.Fatalf("catalog: %v", err)
			}
			if got := picked.Current().MediaType; got != tc.want {
				t.Fatalf("catalog: want %s got %s", tc.want, got)
			}

			overridden, _, _ := newHarness(t, &fakeCatalog{})
			asset, err = overridden.Override(ctx, "  "+tc.name+" ")
			if err != nil || asset.MediaType != tc.want {
				t.Fatalf("override: want %s got %s err=%v", tc.want, asset.MediaType, err)
			}
		})
	}
}

func TestOverride_RequiresName(t *testing.T) {
	r, _, rec := newHarness(t, &fakeCatalog{})
	if _, err := r.Override(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if len(rec.assets) != 0 {
		t.Fatalf("blank override must not change the asset")
	}
}
