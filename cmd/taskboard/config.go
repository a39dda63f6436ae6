package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"taskboard/internal/cli"
	"taskboard/internal/config"
	"taskboard/internal/repository/sqlite"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// RepositoryFactory creates repository instances based on environment
type RepositoryFactory struct {
	env Environment
}

// NewRepositoryFactory creates a new repository factory for the given environment
func NewRepositoryFactory(env Environment) *RepositoryFactory {
	return &RepositoryFactory{env: env}
}

// Open builds the CLI application. Memory storage never touches a database.
func (rf *RepositoryFactory) Open(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) (*cli.App, error) {
	var repo sqlite.Repository
	if cfg.Storage.Mode == config.StorageSQLite {
		r, err := rf.CreateRepository(cfg)
		if err != nil {
			return nil, err
		}
		repo = r
	}

	app, err := cli.Build(ctx, cfg, repo, stdout, stderr)
	if err != nil {
		if repo != nil {
			repo.Close()
		}
		return nil, err
	}
	return app, nil
}

// CreateRepository creates a repository instance based on the current environment
func (rf *RepositoryFactory) CreateRepository(cfg *config.Config) (sqlite.Repository, error) {
	switch rf.env {
	case Development:
		return rf.createDevelopmentRepository(cfg)
	case Testing:
		return rf.createTestingRepository()
	default:
		return rf.createProductionRepository(cfg)
	}
}

// createDevelopmentRepository keeps the database in the working directory
func (rf *RepositoryFactory) createDevelopmentRepository(cfg *config.Config) (sqlite.Repository, error) {
	repo, err := sqlite.NewWithOptions(cfg.Database.Filename, sqlite.Options{
		QueryTimeout: cfg.Database.QueryTimeout,
		WriteTimeout: cfg.Database.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize development database: %w", err)
	}
	return repo, nil
}

// createTestingRepository uses an in-memory SQLite database
func (rf *RepositoryFactory) createTestingRepository() (sqlite.Repository, error) {
	return config.CreateTestRepository()
}

// createProductionRepository uses the configured database location
func (rf *RepositoryFactory) createProductionRepository(cfg *config.Config) (sqlite.Repository, error) {
	return config.CreateRepository(cfg)
}

// getEnvironment determines the current environment
func getEnvironment() Environment {
	switch Environment(os.Getenv("TASKBOARD_ENV")) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		// Default to production for safety
		return Production
	}
}
