package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"merchtable/internal/core/appctx"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace middleware adds request tracing context.
// Extracts or generates correlation IDs so log lines from one request
// can be tied together.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		traceID := c.GetHeader(HeaderTraceID)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		ctx := appctx.WithTrace(c.Request.Context(), appctx.Trace{
			TraceID:   traceID,
			RequestID: requestID,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Set("trace_id", traceID)
		c.Set("request_id", requestID)

		c.Header(HeaderRequestID, requestID)
		c.Header(HeaderTraceID, traceID)

		c.Next()
	}
}
