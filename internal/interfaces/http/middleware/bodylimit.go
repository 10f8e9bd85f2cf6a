package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timeclock/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose declared body exceeds maxBytes. Clock-in
// and break payloads are tiny, so the limit mainly guards the export and
// report endpoints against accidental large uploads.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			resp := dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				c.GetString("request_id"),
			)
			c.AbortWithStatusJSON(dto.GetHTTPStatus(dto.ErrCodeRequestTooLarge), resp)
			return
		}

		// Chunked requests bypass ContentLength, so cap the reader too
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
