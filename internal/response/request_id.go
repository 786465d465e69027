package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// maxClientRequestIDLen caps header-supplied IDs so log lines stay sane.
const maxClientRequestIDLen = 64

// RequestIDMiddleware attaches a request ID to every request. A client-supplied
// X-Request-ID is honored when it looks reasonable, otherwise a fresh UUID is
// generated. The ID is echoed back in the response headers.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" || len(reqID) > maxClientRequestIDLen {
			reqID = uuid.NewString()
		}

		c.Set(ContextKeyRequestID, reqID)
		c.Writer.Header().Set("X-Request-ID", reqID)

		c.Next()
	}
}
