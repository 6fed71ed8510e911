package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/controller/profile"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/models"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/groepsadmin"
)

const testUserID = "0123456789abcdef0123456789abcdef"

func TestSyncStaleRebuildsGrants(t *testing.T) {
	dir := &fakeDirectory{
		member: testMember(testUserID,
			groepsadmin.Group{ID: "A1234B", Name: "SCOUTS_GENT", ManageRight: true},
			groepsadmin.Group{ID: "C5678D", Name: "scouts_brugge"},
			groepsadmin.Group{ID: "zz99zz", Name: "not_a_group"},
			groepsadmin.Group{ID: "A1234B", Name: "SCOUTS_GENT", ManageRight: true},
		),
	}
	paths := &fakePaths{existing: map[string]bool{
		"/mnt/A1234B": true,
		"/mnt/C5678D": true,
	}}
	d, db, sessions := testDriver(t, dir, paths)

	// A grant from an earlier sync that the directory no longer backs.
	require.NoError(t, profile.Grant(db, testUserID, "X0000X", models.RightReadWrite))

	require.NoError(t, d.OnSuccessfulAuth(context.Background(), testUserID))

	p, err := profile.Get(db, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "Jos Vermeulen", p.DisplayName)
	assert.Equal(t, "jos@example.org", p.Email)
	assert.InDelta(t, time.Now().Unix(), p.LastSyncedAt, 5)

	entries, err := profile.ACL(db, testUserID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "A1234B", entries[0].RepositoryID)
	assert.Equal(t, models.RightReadWrite, entries[0].Right)
	assert.Equal(t, "C5678D", entries[1].RepositoryID)
	assert.Equal(t, models.RightRead, entries[1].Right)
	assert.Equal(t, HomeRepositoryID, entries[2].RepositoryID)
	assert.Equal(t, models.RightReadWrite, entries[2].Right)

	assert.Equal(t, []string{testUserID}, sessions.refreshed)
	assert.Equal(t, 1, dir.memberCalls)
}

func TestSyncFreshSkipsDirectory(t *testing.T) {
	dir := &fakeDirectory{member: testMember(testUserID)}
	d, db, sessions := testDriver(t, dir, nil)

	p, err := profile.GetOrCreate(db, testUserID)
	require.NoError(t, err)
	p.DisplayName = "Jos Vermeulen"
	p.LastSyncedAt = time.Now().Unix()
	require.NoError(t, profile.Save(db, p))
	require.NoError(t, profile.Grant(db, testUserID, "A1234B", models.RightRead))

	require.NoError(t, d.OnSuccessfulAuth(context.Background(), testUserID))

	assert.Zero(t, dir.memberCalls)

	entries, err := profile.ACL(db, testUserID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "A1234B", entries[0].RepositoryID)
	assert.Equal(t, HomeRepositoryID, entries[1].RepositoryID)
	assert.Equal(t, models.RightReadWrite, entries[1].Right)

	assert.Equal(t, []string{testUserID}, sessions.refreshed)
}

func TestSyncAdmin(t *testing.T) {
	dir := &fakeDirectory{}
	d, db, sessions := testDriver(t, dir, nil)

	require.NoError(t, d.OnSuccessfulAuth(context.Background(), AdminLogin))

	assert.Zero(t, dir.memberCalls)

	p, err := profile.Get(db, AdminLogin)
	require.NoError(t, err)
	assert.Equal(t, "Admin", p.DisplayName)
	assert.Equal(t, "info@example.org", p.Email)

	entries, err := profile.ACL(db, AdminLogin)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, HomeRepositoryID, entries[0].RepositoryID)
	assert.Equal(t, models.RightReadWrite, entries[0].Right)

	assert.Equal(t, []string{AdminLogin}, sessions.refreshed)
}

func TestSyncAdminKeepsWorkspaceGrants(t *testing.T) {
	d, db, _ := testDriver(t, &fakeDirectory{}, nil)

	require.NoError(t, profile.Grant(db, AdminLogin, "A1234B", models.RightRead))
	require.NoError(t, d.OnSuccessfulAuth(context.Background(), AdminLogin))

	entries, err := profile.ACL(db, AdminLogin)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSyncUpstreamDownKeepsGrants(t *testing.T) {
	dir := &fakeDirectory{memberErr: errors.New("connection refused")}
	d, db, sessions := testDriver(t, dir, nil)

	require.NoError(t, profile.Grant(db, testUserID, "A1234B", models.RightRead))

	err := d.OnSuccessfulAuth(context.Background(), testUserID)
	require.ErrorIs(t, err, ErrUpstreamUnavailable)

	entries, aclErr := profile.ACL(db, testUserID)
	require.NoError(t, aclErr)
	assert.Len(t, entries, 1)
	assert.Empty(t, sessions.refreshed)
}

func TestSyncReconcileFailureAbortsAndKeepsGrants(t *testing.T) {
	dir := &fakeDirectory{
		member: testMember(testUserID,
			groepsadmin.Group{ID: "A1234B", Name: "SCOUTS_GENT", ManageRight: true},
		),
	}
	paths := &fakePaths{existing: map[string]bool{"/mnt/A1234B": true}}
	d, db, sessions := testDriver(t, dir, paths)

	// A workspace record whose options blob no longer decodes makes the
	// reconciliation fail mid-sync.
	require.NoError(t, db.Create(&models.Repository{
		ID:      "A1234B",
		Display: "Scouts Gent",
		Slug:    "A1234B",
		Driver:  models.StorageDriverFS,
		Options: "{",
	}).Error)
	require.NoError(t, profile.Grant(db, testUserID, "A1234B", models.RightReadWrite))

	err := d.OnSuccessfulAuth(context.Background(), testUserID)
	require.Error(t, err)

	// The previous grant set survives untouched; nothing was rebuilt.
	entries, aclErr := profile.ACL(db, testUserID)
	require.NoError(t, aclErr)
	require.Len(t, entries, 1)
	assert.Equal(t, "A1234B", entries[0].RepositoryID)
	assert.Equal(t, models.RightReadWrite, entries[0].Right)

	p, profErr := profile.Get(db, testUserID)
	require.NoError(t, profErr)
	assert.Zero(t, p.LastSyncedAt)
	assert.Empty(t, sessions.refreshed)
}

func TestSyncDisabledWorkspaceGetsNoGrant(t *testing.T) {
	dir := &fakeDirectory{
		member: testMember(testUserID,
			groepsadmin.Group{ID: "A1234B", Name: "SCOUTS_GENT"},
		),
	}
	d, db, _ := testDriver(t, dir, &fakePaths{existing: map[string]bool{}})

	require.NoError(t, d.OnSuccessfulAuth(context.Background(), testUserID))

	entries, err := profile.ACL(db, testUserID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, HomeRepositoryID, entries[0].RepositoryID)
}
