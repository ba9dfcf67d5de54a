package middlewares

import (
	"ClaimProcess/utils"
	"bytes"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// LowercaseJSONKeys rewrites JSON request bodies so that every top-level key
// is lower case. Client systems spell field names with inconsistent
// capitalization ("Provider NPI", "provider npi").
func LowercaseJSONKeys() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody || !isJSONRequest(c.Request) {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		c.Request.Body.Close()
		if err != nil {
			c.AbortWithStatusJSON(BodyReadStatus(err), gin.H{"detail": "failed to read request body"})
			return
		}

		body = utils.LowercaseKeys(body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Request.ContentLength = int64(len(body))
		c.Next()
	}
}

func isJSONRequest(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
