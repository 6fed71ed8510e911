package auth

import "os"

// PathChecker reports whether a workspace storage path exists. The mounts
// themselves are created and removed by an external script; this capability
// is an existence check only.
type PathChecker interface {
	Exists(path string) bool
}

// OSPathChecker checks paths on the local filesystem.
type OSPathChecker struct{}

// Exists returns true when the path is an existing directory.
func (OSPathChecker) Exists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// SessionRefresher reloads the effective permissions of a user's live
// sessions after a sync. Implemented by the session layer.
type SessionRefresher interface {
	Refresh(userID string) error
}
