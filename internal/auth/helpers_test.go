package auth

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/models"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/groepsadmin"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.ACLEntry{},
		&models.Repository{},
	))

	return db
}

// fakeDirectory is a scripted groepsadmin.Directory.
type fakeDirectory struct {
	loginID   string
	loginErr  error
	member    *groepsadmin.Member
	memberErr error

	loginCalls  int
	memberCalls int
}

func (f *fakeDirectory) Login(_ context.Context, _, _ string) (string, error) {
	f.loginCalls++

	return f.loginID, f.loginErr
}

func (f *fakeDirectory) Member(_ context.Context, _ string) (*groepsadmin.Member, error) {
	f.memberCalls++

	return f.member, f.memberErr
}

// fakePaths answers existence from a fixed set.
type fakePaths struct {
	existing map[string]bool
}

func (f *fakePaths) Exists(path string) bool {
	return f.existing[path]
}

// fakeSessions records refresh calls.
type fakeSessions struct {
	refreshed []string
}

func (f *fakeSessions) Refresh(userID string) error {
	f.refreshed = append(f.refreshed, userID)

	return nil
}

func testMember(id string, groups ...groepsadmin.Group) *groepsadmin.Member {
	return &groepsadmin.Member{
		ID:        id,
		FirstName: "Jos",
		LastName:  "Vermeulen",
		Email:     "jos@example.org",
		Groups:    groups,
	}
}

func testDriver(t *testing.T, dir *fakeDirectory, paths *fakePaths) (*Driver, *gorm.DB, *fakeSessions) {
	t.Helper()

	db := testDB(t)
	sessions := &fakeSessions{}

	if paths == nil {
		paths = &fakePaths{existing: map[string]bool{}}
	}

	d := New(db, dir, paths, sessions, Config{
		AdminPasswordSHA1: "12201fe5e202883bd45fc97e87366ea05183e0e4", // sha1("topsecret")
		AdminEmail:        "info@example.org",
		EmailDomain:       "example.org",
		MountRoot:         "/mnt",
	})

	return d, db, sessions
}
