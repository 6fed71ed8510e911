// Package profile provides role store operations: the per-user synced
// profile and its workspace access grants.
package profile

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/models"
)

const (
	userQueryPattern = "user_id = ?"
)

var (
	// ErrProfileNotFound is returned when a profile is not found.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrUserIDEmpty is returned when the user id is empty.
	ErrUserIDEmpty = errors.New("user id cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a profile by user id.
func Get(db *gorm.DB, userID string) (*models.Profile, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if userID == "" {
		return nil, ErrUserIDEmpty
	}

	var p models.Profile
	result := db.Where(userQueryPattern, userID).First(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, result.Error
	}

	return &p, nil
}

// GetOrCreate retrieves a profile, creating an empty one on first login.
func GetOrCreate(db *gorm.DB, userID string) (*models.Profile, error) {
	p, err := Get(db, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	p = &models.Profile{UserID: userID}
	result := db.Create(p)
	if result.Error != nil {
		return nil, result.Error
	}

	return p, nil
}

// Save persists the profile fields. It does not touch ACL entries.
func Save(db *gorm.DB, p *models.Profile) error {
	if db == nil {
		return ErrDBNil
	}
	if p == nil || p.UserID == "" {
		return ErrUserIDEmpty
	}

	result := db.Save(p)

	return result.Error
}

// ACL retrieves all access grants of a user.
func ACL(db *gorm.DB, userID string) ([]models.ACLEntry, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if userID == "" {
		return nil, ErrUserIDEmpty
	}

	var entries []models.ACLEntry
	result := db.Where(userQueryPattern, userID).Order("repository_id").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

// Grant upserts a single access grant for the user.
func Grant(db *gorm.DB, userID, repositoryID, right string) error {
	if db == nil {
		return ErrDBNil
	}
	if userID == "" {
		return ErrUserIDEmpty
	}

	var entry models.ACLEntry
	result := db.Where("user_id = ? AND repository_id = ?", userID, repositoryID).First(&entry)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		entry = models.ACLEntry{
			UserID:       userID,
			RepositoryID: repositoryID,
			Right:        right,
		}

		return db.Create(&entry).Error
	}
	if result.Error != nil {
		return result.Error
	}

	entry.Right = right

	return db.Save(&entry).Error
}

// ReplaceACL persists the profile fields and swaps the user's full grant set
// in one transaction, so a concurrent reader never observes an empty ACL
// between clear and rebuild.
func ReplaceACL(db *gorm.DB, p *models.Profile, entries []models.ACLEntry) error {
	if db == nil {
		return ErrDBNil
	}
	if p == nil || p.UserID == "" {
		return ErrUserIDEmpty
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(p).Error; err != nil {
			return err
		}

		if err := tx.Where(userQueryPattern, p.UserID).Delete(&models.ACLEntry{}).Error; err != nil {
			return err
		}

		for i := range entries {
			entries[i].ID = 0
			entries[i].UserID = p.UserID

			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
