package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"silant-backend/internal/mw"
	"silant-backend/internal/service"
)

func (h *Handler) ListMaintenances(c *gin.Context) {
	rows, err := h.svc.ListMaintenances(c.Request.Context(), mw.ActorFrom(c), c.Request.URL.Query())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAll(rows, newMaintenanceResponse))
}

func (h *Handler) GetMaintenance(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	m, err := h.svc.GetMaintenance(c.Request.Context(), mw.ActorFrom(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMaintenanceResponse(m))
}

func (h *Handler) CreateMaintenance(c *gin.Context) {
	var in service.MaintenanceInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}
	m, err := h.svc.CreateMaintenance(c.Request.Context(), mw.ActorFrom(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newMaintenanceResponse(m))
}

func (h *Handler) UpdateMaintenance(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var in service.MaintenanceInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}
	m, err := h.svc.UpdateMaintenance(c.Request.Context(), mw.ActorFrom(c), id, in, isPatch(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMaintenanceResponse(m))
}

func (h *Handler) DeleteMaintenance(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.DeleteMaintenance(c.Request.Context(), mw.ActorFrom(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MaintenanceDefaults handles GET /api/maintenances/defaults?machine=.
func (h *Handler) MaintenanceDefaults(c *gin.Context) {
	machineID, err := queryID(c, "machine")
	if err != nil {
		h.respondError(c, err)
		return
	}
	res, err := h.svc.MaintenanceDefaults(c.Request.Context(), mw.ActorFrom(c), machineID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDefaultsResponse(res))
}
