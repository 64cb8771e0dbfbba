// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch or persist
// data, abstracting SQL logic away from the service layer.
package repository

import (
	"github.com/deppfellow/locate-templates/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Templates *TemplateRepository
}

// NewRepositories constructs the repository container on top of the shared pool held by s.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Templates: NewTemplateRepository(s.DB),
	}
}
