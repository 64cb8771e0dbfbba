package service

import (
	"github.com/deppfellow/locate-templates/internal/repository"
	"github.com/deppfellow/locate-templates/internal/server"
)

type Services struct {
	Templates *TemplateService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Templates: NewTemplateService(repos.Templates),
	}, nil
}
