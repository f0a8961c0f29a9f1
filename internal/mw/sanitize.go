package mw

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"silant-backend/internal/apperr"
)

// Sanitize strips markup from the top-level string fields of JSON object
// bodies on POST, PUT and PATCH. Entities produced by the policy are
// decoded again so plain text such as "R&D" survives unchanged. Text that
// parses as a tag, like "<A3>", is removed along with real markup.
func Sanitize() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}
		if c.Request.Body == nil {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(apperr.Render(invalidBody("request body could not be read")))
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.UseNumber()
		var body map[string]any
		if err := dec.Decode(&body); err != nil {
			c.AbortWithStatusJSON(apperr.Render(invalidBody("request body must be a JSON object")))
			return
		}

		for k, v := range body {
			if s, ok := v.(string); ok {
				body[k] = html.UnescapeString(policy.Sanitize(s))
			}
		}

		clean, err := json.Marshal(body)
		if err != nil {
			c.AbortWithStatusJSON(apperr.Render(apperr.Internal(err)))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(clean))
		c.Request.ContentLength = int64(len(clean))
		c.Next()
	}
}

func invalidBody(message string) error {
	return apperr.Validation(apperr.FieldError{Field: "body", Code: "invalid_json", Message: message})
}
