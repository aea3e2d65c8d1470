package handler

import (
	"net/http"

	"comercial_backend/internal/catalog/service"
	"comercial_backend/internal/catalog/transport"
	"comercial_backend/platform/httpkit"
	"comercial_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid product id"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// UpsertProduct creates or updates a product by external id.
// POST /api/v1/tenants/:tenantId/products
func (h *Handler) UpsertProduct(c *gin.Context) {
	var req transport.UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if httpkit.HandleError(c, h.val.Struct(req)) {
		return
	}
	tenantID, _ := httpkit.TenantID(c)

	result, err := h.svc.UpsertProduct(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListProducts lists the tenant's products.
// GET /api/v1/tenants/:tenantId/products
func (h *Handler) ListProducts(c *gin.Context) {
	tenantID, _ := httpkit.TenantID(c)
	result, err := h.svc.List(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetProduct returns one product.
// GET /api/v1/tenants/:tenantId/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	tenantID, _ := httpkit.TenantID(c)

	product, err := h.svc.GetByID(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, service.ToProductResponse(product))
}

// DeleteProduct removes one product.
// DELETE /api/v1/tenants/:tenantId/products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
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

// DeleteAllProducts removes every product of the tenant.
// DELETE /api/v1/tenants/:tenantId/products
func (h *Handler) DeleteAllProducts(c *gin.Context) {
	tenantID, _ := httpkit.TenantID(c)
	n, err := h.svc.DeleteAll(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.DeleteAllResponse{Deleted: n})
}

// ListCategories lists the tenant's categories.
// GET /api/v1/tenants/:tenantId/categories
func (h *Handler) ListCategories(c *gin.Context) {
	tenantID, _ := httpkit.TenantID(c)
	result, err := h.svc.ListCategories(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
