// Package repository provides workspace record operations: lookup, creation
// and full replacement, matching the host platform's repository service.
package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/models"
)

const (
	idQueryPattern = "id = ?"
)

var (
	// ErrRepositoryNotFound is returned when a workspace record is not found.
	ErrRepositoryNotFound = errors.New("repository not found")
	// ErrRepositoryIDEmpty is returned when the workspace id is empty.
	ErrRepositoryIDEmpty = errors.New("repository id cannot be empty")
	// ErrRepositoryAlreadyExists is returned when adding a workspace whose id is taken.
	ErrRepositoryAlreadyExists = errors.New("repository already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a workspace record by id.
func Get(db *gorm.DB, id string) (*models.Repository, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if id == "" {
		return nil, ErrRepositoryIDEmpty
	}

	var repo models.Repository
	result := db.Where(idQueryPattern, id).First(&repo)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRepositoryNotFound
		}
		return nil, result.Error
	}

	return &repo, nil
}

// Add creates a new workspace record.
func Add(db *gorm.DB, repo *models.Repository) error {
	if db == nil {
		return ErrDBNil
	}
	if repo == nil || repo.ID == "" {
		return ErrRepositoryIDEmpty
	}

	var existing models.Repository
	result := db.Where(idQueryPattern, repo.ID).First(&existing)
	if result.Error == nil {
		return ErrRepositoryAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	return db.Create(repo).Error
}

// Replace overwrites the stored workspace record in full. The record must
// exist; ids are immutable so the given id always wins over repo.ID.
func Replace(db *gorm.DB, id string, repo *models.Repository) error {
	if db == nil {
		return ErrDBNil
	}
	if id == "" || repo == nil {
		return ErrRepositoryIDEmpty
	}

	var existing models.Repository
	result := db.Where(idQueryPattern, id).First(&existing)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrRepositoryNotFound
		}
		return result.Error
	}

	repo.ID = id
	repo.CreatedAt = existing.CreatedAt

	return db.Save(repo).Error
}
