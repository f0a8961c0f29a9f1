package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"silant-backend/internal/mw"
	"silant-backend/internal/service"
)

func (h *Handler) ListClaims(c *gin.Context) {
	rows, err := h.svc.ListClaims(c.Request.Context(), mw.ActorFrom(c), c.Request.URL.Query())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAll(rows, newClaimResponse))
}

func (h *Handler) GetClaim(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	claim, err := h.svc.GetClaim(c.Request.Context(), mw.ActorFrom(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newClaimResponse(claim))
}

func (h *Handler) CreateClaim(c *gin.Context) {
	var in service.ClaimInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}
	claim, err := h.svc.CreateClaim(c.Request.Context(), mw.ActorFrom(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newClaimResponse(claim))
}

func (h *Handler) UpdateClaim(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var in service.ClaimInput
	if err := bindJSON(c, &in); err != nil {
		h.respondError(c, err)
		return
	}
	claim, err := h.svc.UpdateClaim(c.Request.Context(), mw.ActorFrom(c), id, in, isPatch(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newClaimResponse(claim))
}

func (h *Handler) DeleteClaim(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.DeleteClaim(c.Request.Context(), mw.ActorFrom(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClaimDefaults handles GET /api/claims/defaults?machine=.
func (h *Handler) ClaimDefaults(c *gin.Context) {
	machineID, err := queryID(c, "machine")
	if err != nil {
		h.respondError(c, err)
		return
	}
	res, err := h.svc.ClaimDefaults(c.Request.Context(), mw.ActorFrom(c), machineID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDefaultsResponse(res))
}
