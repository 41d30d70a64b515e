// Package assistant triggers the automated reviewer and sends review
// notifications. Both are request/response calls to the backend; the
// reviewer's comments arrive through the normal comment polling.
package assistant

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/domain/repositories"
	"github.com/johnquangdev/media-review/pkg/sessionctx"
)

// Review endpoints by asset kind
const (
	EndpointDocumentAsync = "/silas/review_async"
	EndpointDocumentSync  = "/silas/review"
	EndpointVideoAsync    = "/silas/review_video_async"
)

// Validator checks outgoing requests
type Validator interface {
	Validate(i interface{}) error
}

// ReviewResult is the backend answer to a review trigger
type ReviewResult struct {
	Endpoint string         `json:"endpoint"`
	Response map[string]any `json:"response,omitempty"`
}

// Service wraps the automated reviewer and notifications
type Service struct {
	gateway      repositories.AssistantGateway
	notifier     repositories.Notifier
	validator    Validator
	logger       *zap.Logger
	publicOrigin string
}

// NewService creates the assistant service
func NewService(gateway repositories.AssistantGateway, notifier repositories.Notifier, v Validator, logger *zap.Logger, publicOrigin string) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gateway:      gateway,
		notifier:     notifier,
		validator:    v,
		logger:       logger.With(zap.String("component", "assistant")),
		publicOrigin: publicOrigin,
	}
}

// ReviewEndpoint picks the review route for an asset URL
func ReviewEndpoint(displayURL string) string {
	lower := strings.ToLower(displayURL)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return EndpointDocumentAsync
	case strings.HasSuffix(lower, ".docx"):
		return EndpointDocumentSync
	default:
		return EndpointVideoAsync
	}
}

// Review asks the automated reviewer to review asset
func (s *Service) Review(ctx context.Context, asset entities.Asset) (ReviewResult, error) {
	if asset.IsZero() {
		return ReviewResult{}, errors.ErrNoActiveAsset()
	}
	endpoint := ReviewEndpoint(asset.DisplayURL)
	resp, err := s.gateway.Review(ctx, endpoint, repositories.ReviewRequest{
		FileURL:   asset.DisplayURL,
		MediaType: asset.MediaType.Category(),
		AssetID:   asset.ID,
	})
	if err != nil {
		s.logger.Error("assistant.review.failed", append(sessionctx.Fields(ctx),
			zap.String("asset_id", asset.ID),
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)...)
		return ReviewResult{}, err
	}
	s.logger.Info("assistant.review.started", append(sessionctx.Fields(ctx),
		zap.String("asset_id", asset.ID),
		zap.String("endpoint", endpoint),
	)...)
	return ReviewResult{Endpoint: endpoint, Response: resp}, nil
}

// Chat sends one message about asset and returns the reply
func (s *Service) Chat(ctx context.Context, asset entities.Asset, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.ErrInvalidArgument("message is required")
	}
	if asset.IsZero() {
		return "", errors.ErrNoActiveAsset()
	}
	reply, err := s.gateway.Chat(ctx, repositories.ChatRequest{
		Message:   message,
		FileURL:   asset.DisplayURL,
		MediaType: asset.MediaType.Category(),
		AssetID:   asset.ID,
	})
	if err != nil {
		s.logger.Error("assistant.chat.failed", zap.String("asset_id", asset.ID), zap.Error(err))
		return "", err
	}
	return reply, nil
}

// NotifyTeam emails recipients a link to the review of asset. extra is a
// comma-separated list merged into to.
func (s *Service) NotifyTeam(ctx context.Context, asset entities.Asset, reviewer, message string, to []string, extra string) error {
	if asset.IsZero() {
		return errors.ErrNoActiveAsset()
	}
	recipients := mergeRecipients(to, extra)
	if len(recipients) == 0 {
		return errors.ErrInvalidArgument("at least one recipient is required")
	}
	if reviewer == "" {
		reviewer = "Reviewer"
	}
	n := repositories.TeamNotification{
		AssetID:  asset.ID,
		Reviewer: reviewer,
		AssetURL: entities.ShareLink(s.publicOrigin, asset.ID),
		Message:  message,
		To:       recipients,
	}
	if err := s.validate(n); err != nil {
		return err
	}
	if err := s.notifier.NotifyTeam(ctx, n); err != nil {
		s.logger.Error("assistant.notify_team.failed", zap.String("asset_id", asset.ID), zap.Error(err))
		return err
	}
	s.logger.Info("assistant.notify_team.sent", zap.String("asset_id", asset.ID), zap.Int("recipients", len(recipients)))
	return nil
}

// NotifyComment emails one teammate about a comment
func (s *Service) NotifyComment(ctx context.Context, asset entities.Asset, reviewer string, comment entities.Comment, to string) error {
	if asset.IsZero() {
		return errors.ErrNoActiveAsset()
	}
	n := repositories.CommentNotification{
		AssetID:     asset.ID,
		Page:        comment.Page,
		CommentText: comment.Text,
		Reviewer:    reviewer,
		To:          strings.TrimSpace(to),
		AssetURL:    entities.ShareLink(s.publicOrigin, asset.ID),
	}
	if err := s.validate(n); err != nil {
		return err
	}
	if err := s.notifier.NotifyComment(ctx, n); err != nil {
		s.logger.Error("assistant.notify_comment.failed", zap.Int64("comment_id", comment.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) validate(v interface{}) error {
	if s.validator == nil {
		return nil
	}
	return s.validator.Validate(v)
}

func mergeRecipients(to []string, extra string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		if addr == "" || seen[strings.ToLower(addr)] {
			return
		}
		seen[strings.ToLower(addr)] = true
		out = append(out, addr)
	}
	for _, addr := range to {
		add(addr)
	}
	for _, addr := range strings.Split(extra, ",") {
		add(addr)
	}
	return out
}
