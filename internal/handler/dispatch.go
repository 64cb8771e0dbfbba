package handler

import (
	"net/http"

	"github.com/deppfellow/locate-templates/internal/dispatch"
	"github.com/deppfellow/locate-templates/internal/server"
	"github.com/labstack/echo/v4"
)

// DispatchHandler feeds bound requests to the dispatcher.
type DispatchHandler struct {
	Handler
	dispatcher *dispatch.Dispatcher
}

func NewDispatchHandler(s *server.Server, dispatcher *dispatch.Dispatcher) *DispatchHandler {
	return &DispatchHandler{
		Handler:    NewHandler(s),
		dispatcher: dispatcher,
	}
}

// Dispatch executes an already validated request.
func (h *DispatchHandler) Dispatch(c echo.Context, req *dispatch.Request) (any, error) {
	return h.dispatcher.Dispatch(c.Request().Context(), req)
}

// API serves the envelope endpoint: {"function": ..., "payload": ...}.
func (h *DispatchHandler) API() echo.HandlerFunc {
	return Handle(h.Handler, h.Dispatch, http.StatusOK, func() *dispatch.Request {
		return &dispatch.Request{}
	})
}

// Operation serves an endpoint bound to op, taking the whole body as payload.
func (h *DispatchHandler) Operation(op dispatch.Operation) echo.HandlerFunc {
	return Handle(h.Handler, h.Dispatch, http.StatusOK, func() *dispatch.Request {
		return dispatch.NewRouteRequest(op)
	})
}
