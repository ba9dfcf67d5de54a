package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError logs an error and writes an HTTP error response to the client.
// detail is what the client sees; err stays in the log.
func HttpError(c *gin.Context, log zerolog.Logger, detail interface{}, status int, err error) {
	event := log.Warn()
	if status >= 500 {
		event = log.Error()
	}
	event.Err(err).
		Int("status", status).
		Str("request_id", RequestIDFromContext(c)).
		Msg("request failed")
	c.JSON(status, gin.H{"detail": detail})
}
