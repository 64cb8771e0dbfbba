// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/deppfellow/locate-templates/internal/handler"
	"github.com/deppfellow/locate-templates/internal/middleware"
	"github.com/deppfellow/locate-templates/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with every global middleware and route.
//
// Middleware order matters:
//   - RequestID runs before the New Relic and context middleware that read it
//   - ContextEnhancer runs after NewRelicMiddleware so trace ids reach the logger
//   - RequestLogger runs after ContextEnhancer so it logs through the request logger
//   - Recover sits innermost so panics still pass through logging and tracing
func NewRouter(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = m.Global.GlobalErrorHandler

	router.Use(
		m.Global.CORS(),
		m.Global.Secure(),
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		m.Global.RequestLogger(),
		m.Global.BodyLimit(),
		m.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerTemplateRoutes(router, h, m)

	return router
}
