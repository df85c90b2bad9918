package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// requestIDKey is the key used to store the request ID in the Gin context.
const requestIDKey = contextKey("requestID")

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestIDFromContext retrieves the request ID assigned by the logging middleware.
// It returns the ID and a boolean indicating if it was found.
func GetRequestIDFromContext(c *gin.Context) (string, bool) {
	idVal, exists := c.Get(string(requestIDKey))
	if !exists {
		// check in the request context as well
		if id, ok := c.Request.Context().Value(requestIDKey).(string); ok && id != "" {
			return id, true
		}
		return "", false
	}

	id, ok := idVal.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

const runIDKey = contextKey("runID")

// WithRunID returns a copy of ctx carrying the export run id.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// GetRunIDFromCtx returns the export run id stored by WithRunID.
func GetRunIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}
