package service

import (
	"context"

	"github.com/deppfellow/locate-templates/internal/model"
	"github.com/deppfellow/locate-templates/internal/sqlerr"
	"github.com/rs/zerolog"
)

const (
	MsgTemplateSaved      = "Template saved successfully"
	MsgPointTemplateSaved = "Point template saved successfully"
)

// TemplateStore is the persistence surface the service needs.
// *repository.TemplateRepository satisfies it.
type TemplateStore interface {
	InsertLineLocate(ctx context.Context, t model.NewLineLocateTemplate) (int64, error)
	ListLineLocates(ctx context.Context) ([]model.LineLocateTemplate, error)
	InsertPointLocate(ctx context.Context, t model.NewPointLocateTemplate) (int64, error)
	ListPointLocates(ctx context.Context) ([]model.PointLocateTemplate, error)
}

// TemplateService stores and lists locate templates. Every store failure is
// returned as an *errs.HTTPError.
type TemplateService struct {
	store TemplateStore
}

func NewTemplateService(store TemplateStore) *TemplateService {
	return &TemplateService{store: store}
}

func (s *TemplateService) SubmitTemplate(ctx context.Context, t model.NewLineLocateTemplate) (*model.SaveResult, error) {
	logger := zerolog.Ctx(ctx)

	pk, err := s.store.InsertLineLocate(ctx, t)
	if err != nil {
		sqlerr.LogError(logger.Error().Err(err), err).
			Str("project_gid", t.ProjectGID.String()).
			Msg("failed to save line locate template")
		return nil, sqlerr.HandleError(err)
	}

	logger.Info().
		Int64("pk", pk).
		Str("name", t.Name).
		Msg("line locate template saved")

	return &model.SaveResult{Message: MsgTemplateSaved, PK: pk}, nil
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]model.LineLocateTemplate, error) {
	logger := zerolog.Ctx(ctx)

	templates, err := s.store.ListLineLocates(ctx)
	if err != nil {
		sqlerr.LogError(logger.Error().Err(err), err).Msg("failed to list line locate templates")
		return nil, sqlerr.HandleError(err)
	}

	logger.Debug().Int("count", len(templates)).Msg("line locate templates listed")

	return templates, nil
}

func (s *TemplateService) SubmitPointTemplate(ctx context.Context, t model.NewPointLocateTemplate) (*model.SaveResult, error) {
	logger := zerolog.Ctx(ctx)

	pk, err := s.store.InsertPointLocate(ctx, t)
	if err != nil {
		sqlerr.LogError(logger.Error().Err(err), err).
			Str("project_gid", t.ProjectGID.String()).
			Msg("failed to save point locate template")
		return nil, sqlerr.HandleError(err)
	}

	logger.Info().
		Int64("pk", pk).
		Str("template_name", t.TemplateName).
		Msg("point locate template saved")

	return &model.SaveResult{Message: MsgPointTemplateSaved, PK: pk}, nil
}

func (s *TemplateService) ListPointTemplates(ctx context.Context) ([]model.PointLocateTemplate, error) {
	logger := zerolog.Ctx(ctx)

	templates, err := s.store.ListPointLocates(ctx)
	if err != nil {
		sqlerr.LogError(logger.Error().Err(err), err).Msg("failed to list point locate templates")
		return nil, sqlerr.HandleError(err)
	}

	logger.Debug().Int("count", len(templates)).Msg("point locate templates listed")

	return templates, nil
}
