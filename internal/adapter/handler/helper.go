package handler

import (
	stdErrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/pkg/sessionctx"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID prefers the id attached by the session middleware
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := sessionctx.GetRequestID(c.Request().Context()); id != "" {
		return id
	}
	return c.Request().Header.Get("X-Request-ID")
}

// GetQueryParam is a helper to get query parameter with a default value
func GetQueryParam(c echo.Context, key, defaultValue string) string {
	value := c.QueryParam(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetBoolQueryParam reads a boolean query parameter; anything unparsable is false
func GetBoolQueryParam(c echo.Context, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.QueryParam(key)))
	return err == nil && v
}

// bindAndValidate decodes the request body into req and validates it
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidArgument("invalid request body").WithDetail("bind", err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// translate maps domain sentinels onto application errors
func translate(err error) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return err
	}
	switch {
	case stdErrors.Is(err, entities.ErrPlaceholderRef):
		return errors.ErrInvalidIdentifier("").WithDetail("reason", err.Error())
	case stdErrors.Is(err, entities.ErrCommentNotFound):
		return errors.ErrNotFound("comment")
	case stdErrors.Is(err, entities.ErrEmptyComment):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, entities.ErrNoAsset):
		return errors.ErrNoActiveAsset()
	case stdErrors.Is(err, entities.ErrUnsupportedAsset):
		return errors.ErrUnsupportedAsset(err.Error())
	case stdErrors.Is(err, entities.ErrUnknownMediaType):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, entities.ErrPlayerNotReady):
		return errors.ErrUnreadyMedia()
	}
	return err
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Debug("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)
	err = translate(err)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.String("app_code", appErr.Code.String()),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}
