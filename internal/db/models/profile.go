package models

import "time"

// Access rights granted on a workspace.
const (
	// RightRead grants read-only access.
	RightRead = "r"
	// RightReadWrite grants full access.
	RightReadWrite = "rw"
)

// Profile is the role store record for one user, keyed by the user's
// directory id (32 hex chars) or the literal "admin". It holds the data
// synced from the groepsadmin directory, not the primary user account.
type Profile struct {
	// UserID is the directory member id or "admin".
	UserID string `gorm:"primaryKey;size:64"`
	// DisplayName as shown in the platform, synced from the directory.
	DisplayName string `gorm:"size:255"`
	// Email synced from the directory.
	Email string `gorm:"size:255"`
	// LastSyncedAt is the unix time of the last remote refresh. Zero means
	// the profile was never synced and is always considered stale.
	LastSyncedAt int64
	// CreatedAt is managed by GORM.
	CreatedAt time.Time
	// UpdatedAt is managed by GORM.
	UpdatedAt time.Time
}

// ACLEntry grants one user one right on one workspace. The set of entries
// for a user is rebuilt in full on every stale sync, so a membership revoked
// upstream disappears here too.
type ACLEntry struct {
	ID uint64 `gorm:"primaryKey"`
	// UserID references Profile.UserID.
	UserID string `gorm:"size:64;not null;uniqueIndex:idx_acl_user_repo"`
	// RepositoryID references Repository.ID.
	RepositoryID string `gorm:"size:64;not null;uniqueIndex:idx_acl_user_repo"`
	// Right is RightRead or RightReadWrite.
	Right string `gorm:"size:2;not null"`
}
