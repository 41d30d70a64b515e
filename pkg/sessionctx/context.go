package sessionctx

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type KeyContext string

var (
	keyRequestID KeyContext = "request_id"
	keyReviewer  KeyContext = "reviewer"
	keyStartTime KeyContext = "start_time"
)

// Metadata holds the request-scoped reviewer session values
type Metadata struct {
	RequestID string
	Reviewer  string
	StartTime time.Time
}

// Begin attaches request metadata to ctx
func Begin(parent context.Context, requestID, reviewer string) context.Context {
	ctx := context.WithValue(parent, keyRequestID, requestID)
	ctx = context.WithValue(ctx, keyReviewer, reviewer)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())
	return ctx
}

// WithReviewer overrides the reviewer name in ctx
func WithReviewer(ctx context.Context, reviewer string) context.Context {
	return context.WithValue(ctx, keyReviewer, reviewer)
}

// GetRequestID extracts the request id from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// GetReviewer extracts the reviewer name from context
func GetReviewer(ctx context.Context) (string, bool) {
	reviewer, ok := ctx.Value(keyReviewer).(string)
	return reviewer, ok && reviewer != ""
}

// GetStartTime extracts the request start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyStartTime).(time.Time)
	return startTime, ok
}

// GetMetadata extracts all session metadata from context
func GetMetadata(ctx context.Context) *Metadata {
	reviewer, _ := GetReviewer(ctx)
	startTime, _ := GetStartTime(ctx)
	return &Metadata{
		RequestID: GetRequestID(ctx),
		Reviewer:  reviewer,
		StartTime: startTime,
	}
}

// Fields renders the metadata as log fields
func Fields(ctx context.Context) []zap.Field {
	md := GetMetadata(ctx)
	fields := make([]zap.Field, 0, 2)
	if md.RequestID != "" {
		fields = append(fields, zap.String("request_id", md.RequestID))
	}
	if md.Reviewer != "" {
		fields = append(fields, zap.String("reviewer", md.Reviewer))
	}
	return fields
}
