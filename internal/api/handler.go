package api

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"silant-backend/internal/apperr"
	"silant-backend/internal/service"
	"silant-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc   *service.Service
	store store.Store
	log   *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *service.Service, s store.Store, log *zap.Logger) *Handler {
	return &Handler{
		svc:   svc,
		store: s,
		log:   log,
	}
}

// respondError writes the error body for err and aborts the chain.
func (h *Handler) respondError(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.Error(err)
	c.AbortWithStatusJSON(apperr.Render(err))
}

// pathID parses the :id parameter. A malformed id cannot name a row, so it
// is reported as NotFound.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound("not found")
	}
	return id, nil
}

// queryID parses an optional numeric query parameter.
func queryID(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{
			Field:   name,
			Code:    "invalid",
			Message: strconv.Quote(raw) + " is not a valid identifier",
		})
	}
	return &id, nil
}

// bindJSON decodes the request body into dst.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return apperr.Validation(apperr.FieldError{
			Field:   typeErr.Field,
			Code:    "invalid",
			Message: "must be a " + typeErr.Type.String(),
		})
	case errors.Is(err, io.EOF):
		return apperr.Validation(apperr.FieldError{Field: "body", Code: "required", Message: "request body is required"})
	default:
		return apperr.Validation(apperr.FieldError{Field: "body", Code: "invalid_json", Message: "request body must be a JSON object"})
	}
}
