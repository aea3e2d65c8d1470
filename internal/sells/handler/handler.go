package handler

import (
	"net/http"

	"comercial_backend/internal/sells/service"
	"comercial_backend/internal/sells/transport"
	"comercial_backend/platform/httpkit"
	"comercial_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for sells.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const msgInvalidID = "invalid sell id"

// New creates a new sells handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Upsert handles POST /api/v1/tenants/:tenantId/sells
func (h *Handler) Upsert(c *gin.Context) {
	var req transport.UpsertSellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if httpkit.HandleError(c, h.val.Struct(req)) {
		return
	}
	tenantID, _ := httpkit.TenantID(c)

	result, err := h.svc.Upsert(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List handles GET /api/v1/tenants/:tenantId/sells
func (h *Handler) List(c *gin.Context) {
	tenantID, _ := httpkit.TenantID(c)
	result, err := h.svc.List(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get handles GET /api/v1/tenants/:tenantId/sells/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	tenantID, _ := httpkit.TenantID(c)

	result, err := h.svc.GetByID(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete handles DELETE /api/v1/tenants/:tenantId/sells/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	tenantID, _ := httpkit.TenantID(c)

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), tenantID, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}
