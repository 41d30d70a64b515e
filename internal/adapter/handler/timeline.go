package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/internal/adapter/dto/review"
	"github.com/johnquangdev/media-review/internal/adapter/presenter"
	"github.com/johnquangdev/media-review/internal/usecase/comments"
	"github.com/johnquangdev/media-review/internal/usecase/timeline"
)

// Timeline handles playback position, markers, and captions
type Timeline struct {
	tracker  *timeline.Tracker
	captions *timeline.Captions
	engine   *comments.Engine
	logger   *zap.Logger
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(tracker *timeline.Tracker, captions *timeline.Captions, engine *comments.Engine, logger *zap.Logger) *Timeline {
	return &Timeline{tracker: tracker, captions: captions, engine: engine, logger: logger}
}

func (h *Timeline) state() review.PositionResponse {
	pos := h.tracker.Position()
	return review.PositionResponse{
		Position:        pos,
		Label:           presenter.FormatTime(pos),
		ActiveCommentID: h.tracker.Active(),
		Caption:         h.captions.Current(),
	}
}

// Ready handles POST /timeline/ready
// @Summary      Report player readiness
// @Tags         Timeline
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.ReadyRequest  true  "Readiness"
// @Success      200  {object}  review.PositionResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Router       /timeline/ready [post]
func (h *Timeline) Ready(c echo.Context) error {
	var req review.ReadyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	h.tracker.SetReady(req.Ready)
	return HandleSuccess(h.logger, c, h.state())
}

// Position handles POST /timeline/position, the player's time update
// @Summary      Report playback position
// @Tags         Timeline
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.PositionRequest  true  "Playback position in seconds"
// @Success      200  {object}  review.PositionResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Router       /timeline/position [post]
func (h *Timeline) Position(c echo.Context) error {
	var req review.PositionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	h.tracker.UpdatePosition(req.Position)
	return HandleSuccess(h.logger, c, h.state())
}

// Current handles GET /timeline/position
// @Summary      Get playback position
// @Tags         Timeline
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  review.PositionResponse
// @Router       /timeline/position [get]
func (h *Timeline) Current(c echo.Context) error {
	return HandleSuccess(h.logger, c, h.state())
}

// Seek handles POST /timeline/seek, used by marker and comment clicks
// @Summary      Seek the player
// @Tags         Timeline
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.PositionRequest  true  "Target position in seconds"
// @Success      200  {object}  review.PositionResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Router       /timeline/seek [post]
func (h *Timeline) Seek(c echo.Context) error {
	var req review.PositionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	h.tracker.Seek(req.Position)
	return HandleSuccess(h.logger, c, h.state())
}

// Clusters handles GET /timeline/clusters
// @Summary      Get timeline markers
// @Tags         Timeline
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  review.TimelineResponse
// @Router       /timeline/clusters [get]
func (h *Timeline) Clusters(c echo.Context) error {
	mediaType := h.engine.Asset().MediaType
	return HandleSuccess(h.logger, c, presenter.ToTimelineResponse(mediaType, h.tracker.Clusters(), h.tracker.Pages()))
}
