package handler

import (
	"github.com/deppfellow/locate-templates/internal/dispatch"
	"github.com/deppfellow/locate-templates/internal/server"
	"github.com/deppfellow/locate-templates/internal/service"
)

// Handlers groups all HTTP handlers so the router receives one value.
type Handlers struct {
	Dispatch *DispatchHandler // Dispatch serves /api and the per-operation aliases.
	Health   *HealthHandler   // Health serves the liveness and dependency status endpoints.
	OpenAPI  *OpenAPIHandler  // OpenAPI serves the embedded API document.
}

// NewHandlers constructs the handler container on top of the business layer.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Dispatch: NewDispatchHandler(s, dispatch.New(services.Templates)),
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
	}
}
