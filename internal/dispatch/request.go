// Package dispatch maps a named operation plus an untyped payload onto one of
// the template handlers.
//
// A Request is parsed into a typed Command (one struct per operation) before
// anything touches the store; parse failures are UNKNOWN_OPERATION or
// INVALID_PAYLOAD errors. The Dispatcher then routes the Command with a type
// switch. Nothing here holds state between requests.
package dispatch

import (
	"bytes"
	"encoding/json"

	"github.com/deppfellow/locate-templates/internal/errs"
)

// Operation names a dispatchable operation.
type Operation string

const (
	OpSubmitTemplate       Operation = "submit_template"
	OpGetTemplates         Operation = "get_templates"
	OpSubmitPointTemplates Operation = "submit_point_templates"
	OpGetPointTemplates    Operation = "get_point_templates"
)

// Request is the wire envelope {"function": ..., "payload": ...}.
//
// A Request created by NewRouteRequest is bound to one operation; its whole
// JSON body is then taken as the payload.
type Request struct {
	Function string          `json:"function"`
	Payload  json.RawMessage `json:"payload"`

	route   Operation
	command Command
}

// NewRequest builds an envelope request.
func NewRequest(function string, payload json.RawMessage) *Request {
	return &Request{Function: function, Payload: payload}
}

// NewRouteRequest builds a request whose operation is fixed by the route.
func NewRouteRequest(op Operation) *Request {
	return &Request{Function: string(op), route: op}
}

// UnmarshalJSON decodes the envelope, or captures the raw body for route-bound requests.
func (r *Request) UnmarshalJSON(b []byte) error {
	if r.route != "" {
		r.Function = string(r.route)
		r.Payload = append(json.RawMessage(nil), bytes.TrimSpace(b)...)
		return nil
	}

	var envelope struct {
		Function string          `json:"function"`
		Payload  json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(b, &envelope); err != nil {
		return err
	}

	r.Function = envelope.Function
	r.Payload = envelope.Payload
	return nil
}

// Validate parses the payload into the operation's Command.
//
// It returns an *errs.HTTPError (UNKNOWN_OPERATION or INVALID_PAYLOAD) on failure.
func (r *Request) Validate() error {
	op := Operation(r.Function)
	if r.route != "" {
		op = r.route
	}

	cmd, err := Parse(op, r.Payload)
	if err != nil {
		return err
	}
	r.command = cmd
	return nil
}

// Command returns the parsed command, or nil before a successful Validate.
func (r *Request) Command() Command {
	return r.command
}

// Parse turns an operation name and its raw payload into a typed Command.
//
// Unknown names fail with UNKNOWN_OPERATION whatever the payload holds.
// Read operations ignore the payload entirely.
func Parse(op Operation, payload json.RawMessage) (Command, error) {
	switch op {
	case OpSubmitTemplate:
		return parseSubmitTemplate(payload)
	case OpGetTemplates:
		return GetTemplates{}, nil
	case OpSubmitPointTemplates:
		return parseSubmitPointTemplate(payload)
	case OpGetPointTemplates:
		return GetPointTemplates{}, nil
	default:
		return nil, errs.NewUnknownOperationError(string(op))
	}
}
