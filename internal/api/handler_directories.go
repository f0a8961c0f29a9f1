package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"silant-backend/internal/mw"
	"silant-backend/internal/service"
)

func (h *Handler) ListDirectories(c *gin.Context) {
	rows, err := h.svc.ListDirectories(c.Request.Context(), mw.ActorFrom(c), c.Request.URL.Query())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAll(rows, newDirectoryResponse))
}

func (h *Handler) GetDirectory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	d, err := h.svc.GetDirectory(c.Request.Context(), mw.ActorFrom(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDirectoryResponse(d))
}

func (h *Handler) CreateDirectory(c *gin.Context) {
	var in service.DirectoryInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}
	d, err := h.svc.CreateDirectory(c.Request.Context(), mw.ActorFrom(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newDirectoryResponse(d))
}

func (h *Handler) UpdateDirectory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var in service.DirectoryInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}
	d, err := h.svc.UpdateDirectory(c.Request.Context(), mw.ActorFrom(c), id, in, isPatch(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDirectoryResponse(d))
}

// DeleteDirectory handles DELETE /api/directories/:id. References to the
// entry are cleared, the records themselves remain.
func (h *Handler) DeleteDirectory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.DeleteDirectory(c.Request.Context(), mw.ActorFrom(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
