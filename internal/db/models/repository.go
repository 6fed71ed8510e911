package models

import (
	"encoding/json"
	"time"
)

// StorageDriverFS is the storage backend kind for filesystem workspaces.
const StorageDriverFS = "fs"

// Repository is a workspace record in the platform, one per remote
// groepsadmin group ever seen. The ID equals the group id and never changes
// once created. Records are never deleted: when the backing directory
// disappears the workspace is only disabled.
type Repository struct {
	// ID is the group id (pattern: uppercase letter, 4 digits, uppercase letter).
	ID string `gorm:"primaryKey;size:64"`
	// Display is the workspace title shown to users. A "[path not found] "
	// prefix marks disabled workspaces.
	Display string `gorm:"size:255"`
	// Slug equals the ID.
	Slug string `gorm:"size:64"`
	// Driver is the storage backend kind, always "fs".
	Driver string `gorm:"size:16"`
	// Path is the storage mount, derived from the id under the mount root.
	Path string `gorm:"size:255"`
	// Enabled tracks whether the backing directory exists.
	Enabled bool
	// Create is off: directories are created and controlled by an external script.
	Create bool
	// IsTemplate is off for synced workspaces.
	IsTemplate bool
	// InferOptionsFromParent is off for synced workspaces.
	InferOptionsFromParent bool
	// Options is the serialized RepositoryOptions blob.
	Options string `gorm:"type:text"`
	// CreatedAt is managed by GORM.
	CreatedAt time.Time
	// UpdatedAt is managed by GORM.
	UpdatedAt time.Time
}

// RepositoryOptions is the driver options blob stored with a workspace.
type RepositoryOptions struct {
	// Path duplicates Repository.Path; both are read by the host platform.
	Path string `json:"PATH"`
	// Email is the derived contact alias for the workspace group.
	Email string `json:"EMAIL,omitempty"`
	// MetaSources configures the metadata integrations per plugin id.
	MetaSources map[string]map[string]interface{} `json:"META_SOURCES"`
}

// DefaultMetaSources returns the metadata configuration for new workspaces:
// version-control indexing, full-text search with content indexing, and
// storage change observation on a 60 second poll.
func DefaultMetaSources() map[string]map[string]interface{} {
	return map[string]map[string]interface{}{
		"meta.git": {},
		"index.lucene": {
			"index_content":                true,
			"index_meta_fields":            "",
			"repository_specific_keywords": "",
		},
		"meta.syncable": {
			"REPO_SYNCABLE":           true,
			"OBSERVE_STORAGE_CHANGES": true,
			"OBSERVE_STORAGE_EVERY":   "60",
		},
	}
}

// SetOptions serializes the options blob into the record.
func (r *Repository) SetOptions(o RepositoryOptions) error {
	out, err := json.Marshal(o)
	if err != nil {
		return err
	}

	r.Options = string(out)

	return nil
}

// GetOptions deserializes the stored options blob. An empty column yields
// zero-value options.
func (r *Repository) GetOptions() (RepositoryOptions, error) {
	var o RepositoryOptions

	if r.Options == "" {
		return o, nil
	}

	if err := json.Unmarshal([]byte(r.Options), &o); err != nil {
		return o, err
	}

	return o, nil
}
