package handler

import (
	"net/http"

	"comercial_backend/internal/customers/service"
	"comercial_backend/internal/customers/transport"
	"comercial_backend/platform/httpkit"
	"comercial_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for ComClients.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid comclient id"
)

// New creates a new customers handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create handles POST /api/v1/tenants/:tenantId/comclients
func (h *Handler) Create(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	tenantID, _ := httpkit.TenantID(c)

	result, err := h.svc.Create(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Update handles PUT /api/v1/tenants/:tenantId/comclients/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, ok := h.bind(c)
	if !ok {
		return
	}
	tenantID, _ := httpkit.TenantID(c)

	result, err := h.svc.Update(c.Request.Context(), tenantID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List handles GET /api/v1/tenants/:tenantId/comclients
func (h *Handler) List(c *gin.Context) {
	tenantID, _ := httpkit.TenantID(c)
	result, err := h.svc.List(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get handles GET /api/v1/tenants/:tenantId/comclients/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tenantID, _ := httpkit.TenantID(c)

	client, err := h.svc.GetByID(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, service.ToComClientResponse(client))
}

// Delete handles DELETE /api/v1/tenants/:tenantId/comclients/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tenantID, _ := httpkit.TenantID(c)

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), tenantID, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAll handles DELETE /api/v1/tenants/:tenantId/comclients
func (h *Handler) DeleteAll(c *gin.Context) {
	tenantID, _ := httpkit.TenantID(c)
	httpkit.OK(c, transport.DeleteAllResponse{Deleted: h.svc.DeleteAll(c.Request.Context(), tenantID)})
}

func (h *Handler) bind(c *gin.Context) (transport.ComClientRequest, bool) {
	var req transport.ComClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return req, false
	}
	if httpkit.HandleError(c, h.val.Struct(req)) {
		return req, false
	}
	return req, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
