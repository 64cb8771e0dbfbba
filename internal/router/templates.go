package router

import (
	"github.com/deppfellow/locate-templates/internal/dispatch"
	"github.com/deppfellow/locate-templates/internal/handler"
	"github.com/deppfellow/locate-templates/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerTemplateRoutes registers the dispatcher endpoint and its per-operation aliases.
// All of them share one rate limiter.
func registerTemplateRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	limit := m.RateLimit.Limit()

	r.POST("/api", h.Dispatch.API(), limit)

	r.POST("/saveTemplate", h.Dispatch.Operation(dispatch.OpSubmitTemplate), limit)
	r.GET("/getTemplates", h.Dispatch.Operation(dispatch.OpGetTemplates), limit)
	r.POST("/savePointTemplate", h.Dispatch.Operation(dispatch.OpSubmitPointTemplates), limit)
	r.GET("/getPointTemplates", h.Dispatch.Operation(dispatch.OpGetPointTemplates), limit)
}
