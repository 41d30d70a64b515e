package handler

import (
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/adapter/dto/review"
	"github.com/johnquangdev/media-review/internal/usecase/bridge"
)

const maxViewerMessage = 16 << 20 // snapshots carry a data URL

// Viewer relays messages between the host page and the embedded viewer
type Viewer struct {
	bridge *bridge.Bridge
	logger *zap.Logger
}

// NewViewerHandler creates a new viewer handler
func NewViewerHandler(br *bridge.Bridge, logger *zap.Logger) *Viewer {
	return &Viewer{bridge: br, logger: logger}
}

// Message handles POST /viewer/messages with a raw viewer message body
// @Summary      Deliver a viewer message
// @Tags         Viewer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        message  body      map[string]interface{}  true  "Viewer message with a type tag"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Router       /viewer/messages [post]
func (h *Viewer) Message(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxViewerMessage))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("unreadable viewer message"))
	}
	if err := h.bridge.Dispatch(c.Request().Context(), raw); err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.Page(c)
}

// Hash handles POST /viewer/hash
// @Summary      Apply a location hash
// @Tags         Viewer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.HashRequest  true  "Location hash"
// @Success      200  {object}  review.HashResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Router       /viewer/hash [post]
func (h *Viewer) Hash(c echo.Context) error {
	var req review.HashRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	page, ok := h.bridge.HandleHash(c.Request().Context(), req.Hash)
	return HandleSuccess(h.logger, c, review.HashResponse{Page: page, Matched: ok})
}

// Jump handles POST /viewer/jump
// @Summary      Jump to a page
// @Tags         Viewer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.JumpRequest  true  "Target page"
// @Success      200  {object}  review.PageStateResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      409  {object}  map[string]interface{}  "No active asset"
// @Router       /viewer/jump [post]
func (h *Viewer) Jump(c echo.Context) error {
	var req review.JumpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.bridge.JumpToPage(c.Request().Context(), req.Page); err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.Page(c)
}

// Page handles GET /viewer/page
// @Summary      Get the viewer page
// @Tags         Viewer
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  review.PageStateResponse
// @Router       /viewer/page [get]
func (h *Viewer) Page(c echo.Context) error {
	state := h.bridge.CurrentPage()
	return HandleSuccess(h.logger, c, review.PageStateResponse{
		Active:     h.bridge.Active(),
		Page:       state.Page,
		TotalPages: state.TotalPages,
	})
}
