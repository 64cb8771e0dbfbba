package dispatch

import (
	"context"

	"github.com/deppfellow/locate-templates/internal/errs"
	"github.com/deppfellow/locate-templates/internal/model"
)

// TemplateService is the business layer the dispatcher routes commands to.
type TemplateService interface {
	SubmitTemplate(ctx context.Context, t model.NewLineLocateTemplate) (*model.SaveResult, error)
	ListTemplates(ctx context.Context) ([]model.LineLocateTemplate, error)
	SubmitPointTemplate(ctx context.Context, t model.NewPointLocateTemplate) (*model.SaveResult, error)
	ListPointTemplates(ctx context.Context) ([]model.PointLocateTemplate, error)
}

// Dispatcher routes parsed commands to a TemplateService.
type Dispatcher struct {
	templates TemplateService
}

func New(templates TemplateService) *Dispatcher {
	return &Dispatcher{templates: templates}
}

// Dispatch validates req if needed and executes its command.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (any, error) {
	cmd := req.Command()
	if cmd == nil {
		if err := req.Validate(); err != nil {
			return nil, err
		}
		cmd = req.Command()
	}

	return d.Execute(ctx, cmd)
}

// Execute runs cmd. The result is a *model.SaveResult for submits and a slice
// of rows for reads.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command) (any, error) {
	switch cmd := cmd.(type) {
	case SubmitTemplate:
		return d.templates.SubmitTemplate(ctx, cmd.Template)
	case GetTemplates:
		return d.templates.ListTemplates(ctx)
	case SubmitPointTemplate:
		return d.templates.SubmitPointTemplate(ctx, cmd.Template)
	case GetPointTemplates:
		return d.templates.ListPointTemplates(ctx)
	case nil:
		return nil, errs.NewUnknownOperationError("")
	default:
		return nil, errs.NewUnknownOperationError(string(cmd.Operation()))
	}
}
