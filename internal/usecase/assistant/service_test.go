package assistant

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/domain/repositories"
	"github.com/johnquangdev/media-review/pkg/validator"
)

type fakeGateway struct {
	endpoint string
	review   repositories.ReviewRequest
	team     []repositories.TeamNotification
	comment  []repositories.CommentNotification
}

func (f *fakeGateway) Review(_ context.Context, endpoint string, req repositories.ReviewRequest) (map[string]any, error) {
	f.endpoint, f.review = endpoint, req
	return map[string]any{"status": "started"}, nil
}

func (f *fakeGateway) Chat(_ context.Context, req repositories.ChatRequest) (string, error) {
	return "re: " + req.Message, nil
}

func (f *fakeGateway) NotifyTeam(_ context.Context, n repositories.TeamNotification) error {
	f.team = append(f.team, n)
	return nil
}

func (f *fakeGateway) NotifyComment(_ context.Context, n repositories.CommentNotification) error {
	f.comment = append(f.comment, n)
	return nil
}

func TestReviewEndpoint(t *testing.T) {
	cases := map[string]string{
		"https://x/storyboards/ep1.pdf":  EndpointDocumentAsync,
		"https://x/documents/brief.docx": EndpointDocumentSync,
		"https://x/videos/cut.mp4":       EndpointVideoAsync,
		"https://x/voiceovers/vo.mp3":    EndpointVideoAsync,
	}
	for url, want := range cases {
		if got := ReviewEndpoint(url); got != want {
			t.Fatalf("%s: want %s got %s", url, want, got)
		}
	}
}

func TestReview_SendsCategory(t *testing.T) {
	gw := &fakeGateway{}
	s := NewService(gw, gw, validator.New(), zap.NewNop(), "https://review.example")

	res, err := s.Review(context.Background(), entities.NewAsset("https://x/storyboards/ep1.pdf"))
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if res.Endpoint != EndpointDocumentAsync || gw.review.MediaType != "storyboards" || gw.review.AssetID != "ep1" {
		t.Fatalf("unexpected request %+v endpoint=%s", gw.review, res.Endpoint)
	}

	if _, err := s.Review(context.Background(), entities.Asset{}); errors.Code(err) != errors.ErrorCode_NO_ACTIVE_ASSET {
		t.Fatalf("want no active asset got %v", err)
	}
}

func TestNotifyTeam_MergesRecipients(t *testing.T) {
	gw := &fakeGateway{}
	s := NewService(gw, gw, validator.New(), zap.NewNop(), "https://review.example/")
	asset := entities.NewAsset("https://x/videos/cut.mp4")

	err := s.NotifyTeam(context.Background(), asset, "alice", "please look", []string{"a@x.com"}, " b@x.com, A@x.com ,")
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	n := gw.team[0]
	if len(n.To) != 2 || n.To[1] != "b@x.com" {
		t.Fatalf("unexpected recipients %v", n.To)
	}
	if n.AssetURL != "https://review.example/review/cut" {
		t.Fatalf("unexpected share link %s", n.AssetURL)
	}

	if err := s.NotifyTeam(context.Background(), asset, "alice", "", nil, ""); errors.Code(err) != errors.ErrorCode_INVALID_ARGUMENT {
		t.Fatalf("want invalid argument got %v", err)
	}
	if err := s.NotifyTeam(context.Background(), asset, "alice", "", []string{"not-an-email"}, ""); errors.Code(err) != errors.ErrorCode_INVALID_ARGUMENT {
		t.Fatalf("want validation error got %v", err)
	}
}

func TestChat_RequiresMessage(t *testing.T) {
	gw := &fakeGateway{}
	s := NewService(gw, gw, nil, zap.NewNop(), "")
	asset := entities.NewAsset("https://x/videos/cut.mp4")

	if _, err := s.Chat(context.Background(), asset, "  "); err == nil {
		t.Fatalf("expected error for empty message")
	}
	reply, err := s.Chat(context.Background(), asset, "pacing?")
	if err != nil || reply != "re: pacing?" {
		t.Fatalf("unexpected reply %q err=%v", reply, err)
	}
}
