package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/media-review/pkg/jwt"
	"github.com/johnquangdev/media-review/pkg/sessionctx"
)

const (
	// HeaderRequestID carries the request id in and out
	HeaderRequestID = "X-Request-ID"

	// ReviewerContextKey is the echo context key for the reviewer name
	ReviewerContextKey = "reviewer"
)

// Session attaches a request id and the reviewer name to every request.
// The reviewer is read from the Authorization header or the access_token
// cookie, falling back to the configured name.
func Session(fallbackReviewer string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := req.Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, requestID)

			reviewer := jwt.ReviewerFromToken(extractToken(c), fallbackReviewer)
			c.Set(ReviewerContextKey, reviewer)

			ctx := sessionctx.Begin(req.Context(), requestID, reviewer)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if logger != nil {
				logger.Debug("http.request",
					append(sessionctx.Fields(ctx),
						zap.String("method", req.Method),
						zap.String("path", c.Path()),
						zap.Int("status", c.Response().Status),
					)...,
				)
			}
			return err
		}
	}
}

// GetReviewer returns the reviewer set by Session
func GetReviewer(c echo.Context) string {
	reviewer, _ := c.Get(ReviewerContextKey).(string)
	return reviewer
}

// extractToken accepts both "Bearer <token>" and a raw token, since the
// review backend expects the raw value.
func extractToken(c echo.Context) string {
	if authHeader := strings.TrimSpace(c.Request().Header.Get("Authorization")); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return authHeader
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}
