package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"comercial_backend/internal/functions/dispatcher"
	"comercial_backend/internal/functions/registry"
	"comercial_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Invoker runs one agent function call.
type Invoker interface {
	Invoke(ctx context.Context, tenantID uuid.UUID, name string, args map[string]any) (dispatcher.Response, error)
}

// Handler exposes the function catalog and the dispatcher over HTTP.
type Handler struct {
	invoker Invoker
}

// New creates a new functions handler.
func New(invoker Invoker) *Handler {
	return &Handler{invoker: invoker}
}

// ListDefinitions handles GET /api/v1/functions.
// format=genai and format=openai return the SDK-native declarations.
func (h *Handler) ListDefinitions(c *gin.Context) {
	switch c.Query("format") {
	case "", "wire":
		httpkit.OK(c, registry.Definitions())
	case "genai":
		httpkit.OK(c, registry.GenAIDeclarations())
	case "openai":
		httpkit.OK(c, registry.OpenAITools())
	default:
		httpkit.Error(c, http.StatusBadRequest, "unsupported format", nil)
	}
}

// Invoke handles POST /api/v1/tenants/:tenantId/functions/:name.
// The body is the argument bag; an empty body means no arguments.
func (h *Handler) Invoke(c *gin.Context) {
	var args map[string]any
	if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	tenantID, _ := httpkit.TenantID(c)

	resp, err := h.invoker.Invoke(c.Request.Context(), tenantID, c.Param("name"), args)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
