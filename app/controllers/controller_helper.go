package controllers

import (
	"github.com/tacweb/tacweb/app/repository"
	"gorm.io/gorm"
)

var repos *repository.Repositories

// InitializeControllers wires the controllers to their repositories. Must be
// called once during router installation.
func InitializeControllers(db *gorm.DB) {
	repos = repository.NewFactory(db).GetRepositories()
}
