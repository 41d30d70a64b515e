package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/internal/adapter/presenter"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/domain/repositories"
	"github.com/johnquangdev/media-review/internal/eventbus"
	"github.com/johnquangdev/media-review/internal/infrastructure/cache"
	"github.com/johnquangdev/media-review/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/media-review/internal/realtime"
	"github.com/johnquangdev/media-review/internal/usecase/assistant"
	"github.com/johnquangdev/media-review/internal/usecase/bridge"
	"github.com/johnquangdev/media-review/internal/usecase/comments"
	"github.com/johnquangdev/media-review/internal/usecase/identity"
	"github.com/johnquangdev/media-review/internal/usecase/timeline"
	"github.com/johnquangdev/media-review/pkg/config"
	"github.com/johnquangdev/media-review/pkg/validator"
)

// backend fakes every collaborator the handlers reach
type backend struct {
	mu       sync.Mutex
	nextID   int64
	comments map[string][]entities.Comment
	drafts   []entities.CommentDraft
	deletes  int
	files    []entities.MediaFile
}

func (b *backend) List(_ context.Context, assetID string) ([]entities.Comment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entities.Comment, len(b.comments[assetID]))
	copy(out, b.comments[assetID])
	return out, nil
}

func (b *backend) Create(_ context.Context, d entities.CommentDraft) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	ts := d.Timestamp
	b.drafts = append(b.drafts, d)
	b.comments[d.AssetID] = append(b.comments[d.AssetID], entities.Comment{
		ID: b.nextID, AssetID: d.AssetID, Timestamp: &ts, Page: d.Page, Text: d.Text, User: "reviewer", Image: d.Image,
	})
	return nil
}

func (b *backend) Replace(context.Context, int64, string) error   { return nil }
func (b *backend) React(context.Context, int64, string) error     { return nil }
func (b *backend) ListAssetIDs(context.Context) ([]string, error) { return []string{"cut"}, nil }

func (b *backend) Delete(context.Context, int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes++
	return nil
}

func (b *backend) Lines(context.Context, string) ([]entities.TranscriptLine, error) {
	return nil, nil
}

func (b *backend) media(context.Context, entities.MediaType) ([]entities.MediaFile, error) {
	return b.files, nil
}

type catalogFunc func(context.Context, entities.MediaType) ([]entities.MediaFile, error)

func (f catalogFunc) List(ctx context.Context, t entities.MediaType) ([]entities.MediaFile, error) {
	return f(ctx, t)
}

type silentGateway struct{}

func (silentGateway) Review(context.Context, string, repositories.ReviewRequest) (map[string]any, error) {
	return map[string]any{"status": "queued"}, nil
}
func (silentGateway) Chat(context.Context, repositories.ChatRequest) (string, error) {
	return "ok", nil
}
func (silentGateway) NotifyTeam(context.Context, repositories.TeamNotification) error {
	return nil
}
func (silentGateway) NotifyComment(context.Context, repositories.CommentNotification) error {
	return nil
}

func newServer(t *testing.T) (*echo.Echo, *backend) {
	t.Helper()
	logger := zap.NewNop()
	be := &backend{comments: map[string][]entities.Comment{}}
	bus := eventbus.New(logger)
	store := cache.NewMemoryStore(0)
	t.Cleanup(func() { store.Close() })
	v := validator.New()

	hub := realtime.NewHub(logger)
	fwd := realtime.NewForwarder(hub)
	fwd.Attach(bus)

	resolver := identity.NewResolver(store, catalogFunc(be.media), bus, logger, identity.Options{Profile: "test", MediaBaseURL: "https://cdn.example"})
	engine := comments.NewEngine(be, bus, v, logger, comments.Options{PollInterval: time.Hour, QuietAfter: 5, FetchTimeout: time.Second})
	engine.Attach(bus)
	br := bridge.New(fwd, bus, logger, "/viewer.html")
	br.Attach(bus)
	tracker := timeline.NewTracker(bus, logger, timeline.DefaultWindow, time.Millisecond)
	tracker.Attach(bus)
	captions := timeline.NewCaptions(be, bus, logger, 200*time.Millisecond)
	captions.Attach(bus, time.Second)
	svc := assistant.NewService(silentGateway{}, silentGateway{}, v, logger, "https://review.example")

	cfg := &config.Config{}
	links := presenter.Links{PublicOrigin: "https://review.example", ViewerURL: br.ViewerURL}
	rt := NewRouter(cfg,
		NewSessionHandler(resolver, links, nil, logger),
		NewCommentsHandler(engine, comments.NewHistory(be, logger), tracker, br, logger),
		NewViewerHandler(br, logger),
		NewTimelineHandler(tracker, captions, engine, logger),
		NewAssistantHandler(svc, engine, logger),
		NewEventsHandler(hub, logger),
	)

	e := echo.New()
	e.Validator = v
	e.Use(middleware.Session("reviewer", logger))
	rt.Setup(e)
	return e, be
}

type envelope struct {
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestSelectThenCommentAtPlaybackSecond(t *testing.T) {
	e, be := newServer(t)

	code, env := do(t, e, http.MethodPost, "/v1/session/select", `{"url":"https://cdn.example/videos/cut.mp4"}`)
	if code != http.StatusOK {
		t.Fatalf("select: want 200 got %d", code)
	}
	var session struct {
		ShareLink string `json:"share_link"`
		Viewer    struct {
			Kind string `json:"kind"`
		} `json:"viewer"`
	}
	json.Unmarshal(env.Data, &session)
	if session.ShareLink != "https://review.example/review/cut" || session.Viewer.Kind != "video" {
		t.Fatalf("unexpected session %s", env.Data)
	}

	if code, _ := do(t, e, http.MethodPost, "/v1/timeline/position", `{"position":12.7}`); code != http.StatusOK {
		t.Fatalf("position: want 200 got %d", code)
	}
	code, env = do(t, e, http.MethodPost, "/v1/comments", `{"comment":"  too loud  "}`)
	if code != http.StatusOK {
		t.Fatalf("create: want 200 got %d (%s)", code, env.Data)
	}
	if len(be.drafts) != 1 || be.drafts[0].Timestamp != 12 || be.drafts[0].Text != "too loud" || be.drafts[0].AssetID != "cut" {
		t.Fatalf("unexpected draft %+v", be.drafts)
	}

	var list struct {
		Comments []struct {
			Label string `json:"label"`
			Ref   string `json:"ref"`
		} `json:"comments"`
	}
	json.Unmarshal(env.Data, &list)
	if len(list.Comments) != 1 || list.Comments[0].Label != "0:12" {
		t.Fatalf("unexpected list %s", env.Data)
	}

	code, env = do(t, e, http.MethodDelete, "/v1/comments/"+list.Comments[0].Ref, "")
	if code != http.StatusOK || string(env.Data) != `{"deleted":false}` || be.deletes != 0 {
		t.Fatalf("unconfirmed delete: %d %s deletes=%d", code, env.Data, be.deletes)
	}
	code, _ = do(t, e, http.MethodDelete, "/v1/comments/"+list.Comments[0].Ref+"?confirm=true", "")
	if code != http.StatusOK || be.deletes != 1 {
		t.Fatalf("confirmed delete: %d deletes=%d", code, be.deletes)
	}
}

func TestCommentBeforeReadyAnchorsAtZero(t *testing.T) {
	e, be := newServer(t)
	do(t, e, http.MethodPost, "/v1/session/select", `{"url":"https://cdn.example/voiceovers/take1.mp3"}`)

	if code, _ := do(t, e, http.MethodPost, "/v1/comments", `{"comment":"intro"}`); code != http.StatusOK {
		t.Fatalf("create: want 200 got %d", code)
	}
	if be.drafts[0].Timestamp != 0 {
		t.Fatalf("want timestamp 0 got %v", be.drafts[0].Timestamp)
	}
}

func TestMutationWithPlaceholderRef(t *testing.T) {
	e, _ := newServer(t)
	do(t, e, http.MethodPost, "/v1/session/select", `{"url":"https://cdn.example/videos/cut.mp4"}`)

	code, env := do(t, e, http.MethodPut, "/v1/comments/12-too%20loud", `{"comment":"x"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("want 400 got %d", code)
	}
	if env.Message == "" {
		t.Fatalf("expected error message")
	}
}

func TestCreateWithoutAsset(t *testing.T) {
	e, _ := newServer(t)
	code, _ := do(t, e, http.MethodPost, "/v1/comments", `{"comment":"hello"}`)
	if code != http.StatusConflict {
		t.Fatalf("want 409 got %d", code)
	}
}

func TestValidationFailure(t *testing.T) {
	e, _ := newServer(t)
	code, _ := do(t, e, http.MethodPost, "/v1/session/media-type", `{"media_type":"podcast"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("want 400 got %d", code)
	}
}

func TestStoryboardCommentUsesViewerPageAndSnapshot(t *testing.T) {
	e, be := newServer(t)
	do(t, e, http.MethodPost, "/v1/session/select", `{"url":"https://cdn.example/storyboards/board.pdf"}`)

	do(t, e, http.MethodPost, "/v1/viewer/messages", `{"type":"PDF_PAGE_SYNC","page":4,"totalPages":9}`)
	do(t, e, http.MethodPost, "/v1/viewer/messages", `{"type":"PDF_COMMENT_SNAPSHOT","page":4,"image":"data:image/png;base64,AAA"}`)

	if code, _ := do(t, e, http.MethodPost, "/v1/comments", `{"comment":"crop this"}`); code != http.StatusOK {
		t.Fatalf("create: want 200 got %d", code)
	}
	d := be.drafts[0]
	if d.Page == nil || *d.Page != 4 {
		t.Fatalf("want page 4 got %+v", d.Page)
	}
	if d.Image == nil || *d.Image != "data:image/png;base64,AAA" {
		t.Fatalf("snapshot not attached: %+v", d.Image)
	}

	do(t, e, http.MethodPost, "/v1/comments", `{"comment":"second"}`)
	if be.drafts[1].Image != nil {
		t.Fatalf("snapshot should be consumed by the first comment")
	}
}

func TestStoryboardCommentKeepsSnapshotPage(t *testing.T) {
	e, be := newServer(t)
	do(t, e, http.MethodPost, "/v1/session/select", `{"url":"https://cdn.example/storyboards/board.pdf"}`)

	do(t, e, http.MethodPost, "/v1/viewer/messages", `{"type":"PAGE_SYNC","page":2,"totalPages":9}`)
	do(t, e, http.MethodPost, "/v1/viewer/messages", `{"type":"COMMENT_SNAPSHOT","page":2,"image":"data:image/png;base64,BBB"}`)
	// reviewer pages away before submitting
	do(t, e, http.MethodPost, "/v1/viewer/messages", `{"type":"PAGE_SYNC","page":7,"totalPages":9}`)

	if code, _ := do(t, e, http.MethodPost, "/v1/comments", `{"comment":"on the capture"}`); code != http.StatusOK {
		t.Fatalf("create: want 200 got %d", code)
	}
	if d := be.drafts[0]; d.Page == nil || *d.Page != 2 {
		t.Fatalf("want snapshot page 2 got %+v", d.Page)
	}

	do(t, e, http.MethodPost, "/v1/comments", `{"comment":"plain"}`)
	if d := be.drafts[1]; d.Page == nil || *d.Page != 7 || d.Image != nil {
		t.Fatalf("want page 7 without image got page=%+v image=%+v", d.Page, d.Image)
	}
}

func TestHealth(t *testing.T) {
	e, _ := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", rec.Code)
	}
}
