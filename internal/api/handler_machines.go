package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"silant-backend/internal/mw"
	"silant-backend/internal/service"
)

// ListMachines handles GET /api/machines.
func (h *Handler) ListMachines(c *gin.Context) {
	machines, err := h.svc.ListMachines(c.Request.Context(), mw.ActorFrom(c), c.Request.URL.Query())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAll(machines, newMachineResponse))
}

// GetMachine handles GET /api/machines/:id.
func (h *Handler) GetMachine(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	m, err := h.svc.GetMachine(c.Request.Context(), mw.ActorFrom(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMachineResponse(m))
}

// CreateMachine handles POST /api/machines.
func (h *Handler) CreateMachine(c *gin.Context) {
	var in service.MachineInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}
	m, err := h.svc.CreateMachine(c.Request.Context(), mw.ActorFrom(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newMachineResponse(m))
}

// UpdateMachine handles PUT and PATCH /api/machines/:id.
func (h *Handler) UpdateMachine(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var in service.MachineInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}
	m, err := h.svc.UpdateMachine(c.Request.Context(), mw.ActorFrom(c), id, in, isPatch(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMachineResponse(m))
}

// DeleteMachine handles DELETE /api/machines/:id.
func (h *Handler) DeleteMachine(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.DeleteMachine(c.Request.Context(), mw.ActorFrom(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LookupMachine handles GET /api/public/machines. It needs no credentials
// and returns only the public projection.
func (h *Handler) LookupMachine(c *gin.Context) {
	m, err := h.svc.LookupMachine(c.Request.Context(), c.Query("serial_number"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPublicMachineResponse(m))
}

func isPatch(c *gin.Context) bool {
	return c.Request.Method == http.MethodPatch
}
