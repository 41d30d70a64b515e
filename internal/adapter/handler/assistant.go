package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/adapter/dto/review"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/media-review/internal/usecase/assistant"
	"github.com/johnquangdev/media-review/internal/usecase/comments"
)

// Assistant handles automated review and notification requests
type Assistant struct {
	service *assistant.Service
	engine  *comments.Engine
	logger  *zap.Logger
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(service *assistant.Service, engine *comments.Engine, logger *zap.Logger) *Assistant {
	return &Assistant{service: service, engine: engine, logger: logger}
}

// Review handles POST /assistant/review
// @Summary      Request an automated review
// @Tags         Assistant
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}  "Review result"
// @Failure      409  {object}  map[string]interface{}  "No active asset"
// @Failure      502  {object}  map[string]interface{}  "Review API unreachable"
// @Router       /assistant/review [post]
func (h *Assistant) Review(c echo.Context) error {
	result, err := h.service.Review(c.Request().Context(), h.engine.Asset())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, result)
}

// Chat handles POST /assistant/chat
// @Summary      Ask the assistant
// @Tags         Assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.ChatRequest  true  "Question"
// @Success      200  {object}  review.ChatResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      502  {object}  map[string]interface{}  "Review API unreachable"
// @Router       /assistant/chat [post]
func (h *Assistant) Chat(c echo.Context) error {
	var req review.ChatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	answer, err := h.service.Chat(c.Request().Context(), h.engine.Asset(), req.Message)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, review.ChatResponse{Response: answer})
}

// NotifyTeam handles POST /assistant/notify/team
// @Summary      Notify the team
// @Tags         Assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.NotifyTeamRequest  true  "Notification"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      502  {object}  map[string]interface{}  "Review API unreachable"
// @Router       /assistant/notify/team [post]
func (h *Assistant) NotifyTeam(c echo.Context) error {
	var req review.NotifyTeamRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	err := h.service.NotifyTeam(c.Request().Context(), h.engine.Asset(), middleware.GetReviewer(c), req.Message, req.To, req.Extra)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// NotifyComment handles POST /assistant/notify/comment
// @Summary      Share a comment by email
// @Tags         Assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.NotifyCommentRequest  true  "Comment and recipients"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      404  {object}  map[string]interface{}  "Comment not found"
// @Failure      502  {object}  map[string]interface{}  "Review API unreachable"
// @Router       /assistant/notify/comment [post]
func (h *Assistant) NotifyComment(c echo.Context) error {
	var req review.NotifyCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := entities.ParseCommentRef(entities.CommentRef(req.CommentID))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidIdentifier(req.CommentID))
	}
	comment, ok := h.engine.Find(id)
	if !ok {
		return HandleError(h.logger, c, errors.ErrNotFound("comment").WithDetail("ref", req.CommentID))
	}
	if err := h.service.NotifyComment(c.Request().Context(), h.engine.Asset(), middleware.GetReviewer(c), comment, req.To); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}
