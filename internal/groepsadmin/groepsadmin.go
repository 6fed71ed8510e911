// Package groepsadmin talks to the groepsadmin membership administration,
// the remote directory that owns member credentials, profiles and group
// memberships. The rest of the service only depends on the Directory
// interface so tests can inject doubles.
package groepsadmin

import "context"

// Member is a directory member profile.
type Member struct {
	// ID is the member's 32 hex char directory id.
	ID string
	// FirstName is the member's given name.
	FirstName string
	// LastName is the member's family name.
	LastName string
	// Email is the member's contact address.
	Email string
	// Groups are the member's group memberships, fetched fresh on every
	// lookup and never persisted directly.
	Groups []Group
}

// Group is one group membership of a member.
type Group struct {
	// ID is the group id.
	ID string
	// Name is the group's display name as the directory stores it.
	Name string
	// ManageRight is set when the member can manage the group.
	ManageRight bool
}

// Directory is the remote membership administration capability.
type Directory interface {
	// Login verifies a login/password pair. It returns the member id on
	// success, an empty string when the credentials are wrong, and an error
	// when the directory itself fails.
	Login(ctx context.Context, login, password string) (string, error)

	// Member fetches a member profile including group memberships, by
	// directory id or by login name.
	Member(ctx context.Context, idOrLogin string) (*Member, error)
}
