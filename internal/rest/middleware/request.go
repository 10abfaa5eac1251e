package middleware

import (
	"context"

	"github.com/flexprice/proposals/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderUserID    = "X-User-ID"
)

// RequestIDMiddleware propagates or creates a request id and picks up the
// acting user from X-User-ID
func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)

	userID := c.GetHeader(HeaderUserID)
	if userID == "" {
		userID = types.DefaultUserID
	}
	ctx = context.WithValue(ctx, types.CtxUserID, userID)

	c.Request = c.Request.WithContext(ctx)
	c.Header(HeaderRequestID, requestID)

	c.Next()
}
