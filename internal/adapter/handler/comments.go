package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/internal/adapter/dto/review"
	"github.com/johnquangdev/media-review/internal/adapter/presenter"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/media-review/internal/usecase/bridge"
	"github.com/johnquangdev/media-review/internal/usecase/comments"
	"github.com/johnquangdev/media-review/internal/usecase/timeline"
)

// Comments handles comment list and mutation requests
type Comments struct {
	engine  *comments.Engine
	history *comments.History
	tracker *timeline.Tracker
	bridge  *bridge.Bridge
	logger  *zap.Logger
	now     func() time.Time
}

// NewCommentsHandler creates a new comments handler
func NewCommentsHandler(engine *comments.Engine, history *comments.History, tracker *timeline.Tracker, br *bridge.Bridge, logger *zap.Logger) *Comments {
	return &Comments{
		engine:  engine,
		history: history,
		tracker: tracker,
		bridge:  br,
		logger:  logger,
		now:     time.Now,
	}
}

// List handles GET /comments
// @Summary      List comments
// @Tags         Comments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  review.CommentListResponse
// @Failure      409  {object}  map[string]interface{}  "No active asset"
// @Failure      502  {object}  map[string]interface{}  "Review API unreachable"
// @Router       /comments [get]
func (h *Comments) List(c echo.Context) error {
	list, err := h.engine.List(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, review.CommentListResponse{
		AssetID:  h.engine.Asset().ID,
		Comments: presenter.ToCommentResponses(list, h.tracker.Active(), middleware.GetReviewer(c)),
		Live:     h.engine.Live(),
	})
}

// Create handles POST /comments. The comment is anchored at the current
// playback second, or at the viewer page for storyboards, and carries the
// pending region capture if there is one. A capture keeps its own page.
// @Summary      Create a comment
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.CreateCommentRequest  true  "Comment text"
// @Success      200  {object}  review.CommentListResponse  "Refreshed comment list"
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      409  {object}  map[string]interface{}  "No active asset"
// @Failure      502  {object}  map[string]interface{}  "Review API unreachable"
// @Router       /comments [post]
func (h *Comments) Create(c echo.Context) error {
	var req review.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	asset := h.engine.Asset()
	draft := entities.CommentDraft{AssetID: asset.ID, Text: req.Text}
	if ts, err := h.tracker.CurrentTimestamp(); err == nil {
		draft.Timestamp = ts
	}
	snap, hasSnap := h.bridge.PendingSnapshot()
	if asset.MediaType.UsesViewerBridge() {
		// a capture is anchored on the page it was taken from
		page := snap.Page
		if !hasSnap || page <= 0 {
			page = h.bridge.CurrentPage().Page
		}
		if page > 0 {
			draft.Page = &page
		}
	}
	if hasSnap {
		image := snap.Image
		draft.Image = &image
	}

	if err := h.engine.Create(c.Request().Context(), draft); err != nil {
		return HandleError(h.logger, c, err)
	}
	if hasSnap {
		h.bridge.ClearSnapshot()
	}
	return h.List(c)
}

// Edit handles PUT /comments/:ref
// @Summary      Edit a comment
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ref  path      string  true  "Comment id"
// @Param        request  body      review.EditCommentRequest  true  "Replacement text"
// @Success      200  {object}  review.CommentListResponse  "Refreshed comment list"
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      502  {object}  map[string]interface{}  "Review API unreachable"
// @Router       /comments/{ref} [put]
func (h *Comments) Edit(c echo.Context) error {
	var req review.EditCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.engine.Edit(c.Request().Context(), entities.CommentRef(c.Param("ref")), req.Text); err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.List(c)
}

// Reply handles POST /comments/:ref/thread
// @Summary      Reply in a comment thread
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ref  path      string  true  "Comment id"
// @Param        request  body      review.ThreadReplyRequest  true  "Reply text"
// @Success      200  {object}  review.CommentListResponse  "Refreshed comment list"
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      502  {object}  map[string]interface{}  "Review API unreachable"
// @Router       /comments/{ref}/thread [post]
func (h *Comments) Reply(c echo.Context) error {
	var req review.ThreadReplyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	author := entities.AuthorLine(middleware.GetReviewer(c), h.now())
	if err := h.engine.AppendThread(c.Request().Context(), entities.CommentRef(c.Param("ref")), author, req.Text); err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.List(c)
}

// React handles PATCH /comments/:ref/reactions
// @Summary      React to a comment
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ref  path      string  true  "Comment id"
// @Param        request  body      review.ReactRequest  true  "Reaction symbol"
// @Success      200  {object}  review.CommentListResponse  "Refreshed comment list"
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      502  {object}  map[string]interface{}  "Review API unreachable"
// @Router       /comments/{ref}/reactions [patch]
func (h *Comments) React(c echo.Context) error {
	var req review.ReactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.engine.React(c.Request().Context(), entities.CommentRef(c.Param("ref")), req.Symbol); err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.List(c)
}

// Delete handles DELETE /comments/:ref?confirm=true. Without confirmation
// nothing is sent.
// @Summary      Delete a comment
// @Tags         Comments
// @Produce      json
// @Security     BearerAuth
// @Param        ref  path      string  true  "Comment id"
// @Param        confirm  query     bool    false  "Must be true to delete"
// @Success      200  {object}  review.DeleteCommentResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      502  {object}  map[string]interface{}  "Review API unreachable"
// @Router       /comments/{ref} [delete]
func (h *Comments) Delete(c echo.Context) error {
	confirmed := GetBoolQueryParam(c, "confirm")
	deleted, err := h.engine.Remove(c.Request().Context(), entities.CommentRef(c.Param("ref")), func() bool { return confirmed })
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, review.DeleteCommentResponse{Deleted: deleted})
}

// ReviewedAssets handles GET /history
// @Summary      List reviewed assets
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  review.ReviewedAssetsResponse
// @Failure      502  {object}  map[string]interface{}  "Review API unreachable"
// @Router       /history [get]
func (h *Comments) ReviewedAssets(c echo.Context) error {
	ids, err := h.history.ReviewedAssets(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return HandleSuccess(h.logger, c, review.ReviewedAssetsResponse{AssetIDs: ids})
}

// PreviousComments handles GET /history/:assetId
// @Summary      List comments of another asset
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Param        assetId  path      string  true  "Asset id"
// @Success      200  {array}   review.CommentResponse
// @Failure      502  {object}  map[string]interface{}  "Review API unreachable"
// @Router       /history/{assetId} [get]
func (h *Comments) PreviousComments(c echo.Context) error {
	list, err := h.history.PreviousComments(c.Request().Context(), c.Param("assetId"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToCommentResponses(list, 0, middleware.GetReviewer(c)))
}
