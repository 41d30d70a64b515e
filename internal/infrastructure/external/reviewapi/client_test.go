package reviewapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/domain/repositories"
	"github.com/johnquangdev/media-review/pkg/config"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewClient(config.ReviewAPIConfig{BaseURL: ts.URL + "/", Token: "tok-123"}, zap.NewNop())
}

func TestListComments_DecodesLooseFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("expected GET got %s", r.Method)
		}
		if r.URL.Path != "/comments/intro" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Fatalf("list should not send token, got %q", got)
		}
		w.Write([]byte(`[
			{"id": 1, "timestamp": "00", "comment": "a", "user": "alice", "reactions": "{\"👍\": [\"bob\"]}", "page": null},
			{"id": 2, "timestamp": 12.5, "comment": "b", "user": "bob", "reactions": {"❤️": "carol"}, "page": "3"}
		]`))
	})

	comments, err := c.ListComments(context.Background(), "intro")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("want 2 comments got %d", len(comments))
	}
	if comments[0].Seconds() != 0 || comments[0].Page != nil {
		t.Fatalf("unexpected first comment %+v", comments[0])
	}
	if comments[0].Reactions.Count("👍") != 1 {
		t.Fatalf("want 1 thumbs up got %d", comments[0].Reactions.Count("👍"))
	}
	if comments[1].PageNumber() != 3 || comments[1].Seconds() != 12.5 {
		t.Fatalf("unexpected second comment %+v", comments[1])
	}
	if users := comments[1].Reactions.Users("❤️"); len(users) != 1 || users[0] != "carol" {
		t.Fatalf("unexpected heart users %v", users)
	}
	if comments[1].AssetID != "intro" {
		t.Fatalf("asset id not backfilled: %q", comments[1].AssetID)
	}
}

func TestReactToComment_SendsSymbolAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/comments/42/reactions" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "tok-123" {
			t.Fatalf("want raw token got %q", got)
		}
		var body map[string]int
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if body["👍"] != 1 || len(body) != 1 {
			t.Fatalf("unexpected body %v", body)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := c.ReactToComment(context.Background(), 42, "👍"); err != nil {
		t.Fatalf("react failed: %v", err)
	}
}

func TestDo_NonSuccessIsNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := c.DeleteComment(context.Background(), 7)
	if !errors.IsNetwork(err) {
		t.Fatalf("want network error got %v", err)
	}
}

func TestDo_TransportFailureIsNetworkError(t *testing.T) {
	c := NewClient(config.ReviewAPIConfig{BaseURL: "http://127.0.0.1:1"}, nil)
	_, err := c.ListMedia(context.Background(), entities.MediaTypeVideo)
	if !errors.IsNetwork(err) {
		t.Fatalf("want network error got %v", err)
	}
}

func TestListMedia_QueriesPluralCategory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "storyboards" {
			t.Fatalf("want storyboards got %q", got)
		}
		json.NewEncoder(w).Encode([]entities.MediaFile{{Filename: "a.pdf", URL: "https://x/storyboards/a.pdf"}})
	})

	files, err := c.ListMedia(context.Background(), entities.MediaTypeStoryboard)
	if err != nil {
		t.Fatalf("list media failed: %v", err)
	}
	if len(files) != 1 || files[0].Filename != "a.pdf" {
		t.Fatalf("unexpected files %v", files)
	}
}

func TestChat_ReturnsResponseField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/silas/chat" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"response": "looks fine"})
	})

	reply, err := c.Chat(context.Background(), repositories.ChatRequest{Message: "ok?", AssetID: "intro"})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if reply != "looks fine" {
		t.Fatalf("unexpected reply %q", reply)
	}
}
