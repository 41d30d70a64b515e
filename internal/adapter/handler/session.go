package handler

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/adapter/dto/review"
	"github.com/johnquangdev/media-review/internal/adapter/presenter"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/internal/usecase/identity"
)

// BucketInspector reports object-store details for the catalog source
type BucketInspector interface {
	GetBucketInfo(ctx context.Context) (map[string]interface{}, error)
}

// Session handles asset identity and catalog requests
type Session struct {
	resolver *identity.Resolver
	links    presenter.Links
	bucket   BucketInspector
	logger   *zap.Logger
}

// NewSessionHandler creates a new session handler. bucket may be nil when
// the catalog comes from the review API.
func NewSessionHandler(resolver *identity.Resolver, links presenter.Links, bucket BucketInspector, logger *zap.Logger) *Session {
	return &Session{
		resolver: resolver,
		links:    links,
		bucket:   bucket,
		logger:   logger,
	}
}

func (h *Session) snapshot(asset entities.Asset) review.SessionResponse {
	return presenter.ToSessionResponse(asset, h.resolver.PathParam(), h.resolver.Pending(), h.resolver.MediaType(), h.links)
}

// Current handles GET /session
// @Summary      Get review session
// @Tags         Session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  review.SessionResponse  "Active asset"
// @Router       /session [get]
func (h *Session) Current(c echo.Context) error {
	return HandleSuccess(h.logger, c, h.snapshot(h.resolver.Current()))
}

// Open handles GET /review/:id, the shared-link entry point
// @Summary      Open a shared review link
// @Description  Resolves the asset for a path parameter and confirms it against the catalog
// @Tags         Session
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Asset id from the share link"
// @Success      200  {object}  review.SessionResponse  "Resolved asset"
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Router       /review/{id} [get]
func (h *Session) Open(c echo.Context) error {
	asset, err := h.resolver.Route(c.Request().Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, h.snapshot(asset))
}

// Route handles POST /session/route
// @Summary      Route to an asset
// @Tags         Session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.RouteRequest  true  "Path parameter"
// @Success      200  {object}  review.SessionResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Router       /session/route [post]
func (h *Session) Route(c echo.Context) error {
	var req review.RouteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	asset, err := h.resolver.Route(c.Request().Context(), strings.TrimSpace(req.Path))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, h.snapshot(asset))
}

// Select handles POST /session/select
// @Summary      Select an asset
// @Tags         Session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.SelectAssetRequest  true  "Display URL"
// @Success      200  {object}  review.SessionResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Router       /session/select [post]
func (h *Session) Select(c echo.Context) error {
	var req review.SelectAssetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	asset, err := h.resolver.Select(c.Request().Context(), req.URL)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, h.snapshot(asset))
}

// Override handles POST /session/override
// @Summary      Override the asset with an uploaded file
// @Tags         Session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.OverrideAssetRequest  true  "File name or URL"
// @Success      200  {object}  review.SessionResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Router       /session/override [post]
func (h *Session) Override(c echo.Context) error {
	var req review.OverrideAssetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	asset, err := h.resolver.Override(c.Request().Context(), req.File)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, h.snapshot(asset))
}

// SwitchMediaType handles POST /session/media-type
// @Summary      Switch media type
// @Tags         Session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      review.SwitchMediaTypeRequest  true  "Media type"
// @Success      200  {object}  review.CatalogResponse  "Catalog for the new media type"
// @Failure      400  {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      502  {object}  map[string]interface{}  "Catalog unavailable"
// @Router       /session/media-type [post]
func (h *Session) SwitchMediaType(c echo.Context) error {
	var req review.SwitchMediaTypeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	mediaType, ok := entities.ParseMediaType(req.MediaType)
	if !ok {
		return HandleError(h.logger, c, entities.ErrUnknownMediaType)
	}
	files, err := h.resolver.SwitchMediaType(c.Request().Context(), mediaType)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, review.CatalogResponse{MediaType: string(mediaType), Files: nonNilFiles(files)})
}

// Catalog handles GET /catalog. The listing is for the current media type
// and confirms a pending selection.
// @Summary      List the media catalog
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  review.CatalogResponse
// @Failure      502  {object}  map[string]interface{}  "Catalog unavailable"
// @Router       /catalog [get]
func (h *Session) Catalog(c echo.Context) error {
	files, err := h.resolver.RefreshCatalog(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, review.CatalogResponse{MediaType: string(h.resolver.MediaType()), Files: nonNilFiles(files)})
}

// Storage handles GET /catalog/storage
// @Summary      Inspect the catalog bucket
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}  "Bucket details"
// @Failure      404  {object}  map[string]interface{}  "Catalog is not bucket backed"
// @Router       /catalog/storage [get]
func (h *Session) Storage(c echo.Context) error {
	if h.bucket == nil {
		return HandleError(h.logger, c, errors.ErrNotFound("bucket catalog"))
	}
	info, err := h.bucket.GetBucketInfo(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrCatalogFailed(err))
	}
	return HandleSuccess(h.logger, c, info)
}

func nonNilFiles(files []entities.MediaFile) []entities.MediaFile {
	if files == nil {
		return []entities.MediaFile{}
	}
	return files
}
