package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Repository{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newTestRepository(id, display string) *models.Repository {
	return &models.Repository{
		ID:      id,
		Display: display,
		Slug:    id,
		Driver:  models.StorageDriverFS,
		Path:    "/mnt/" + id,
		Enabled: true,
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		id            string
		seed          *models.Repository
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			id:            "A1234B",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty id",
			dbParam:       db,
			id:            "",
			expectedError: ErrRepositoryIDEmpty,
		},
		{
			name:          "repository not found",
			dbParam:       db,
			id:            "Z9999Z",
			expectedError: ErrRepositoryNotFound,
		},
		{
			name:    "successful get",
			dbParam: db,
			id:      "A1234B",
			seed:    newTestRepository("A1234B", "Scouts Gent"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM repositories")
			}

			if tc.seed != nil {
				require.NoError(t, tc.dbParam.Create(tc.seed).Error)
			}

			repo, err := Get(tc.dbParam, tc.id)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, repo)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.seed.Display, repo.Display)
				assert.Equal(t, tc.seed.Path, repo.Path)
			}
		})
	}
}

func TestAdd(t *testing.T) {
	db := setupTestDB(t)

	repo := newTestRepository("A1234B", "Scouts Gent")
	require.NoError(t, Add(db, repo))

	// duplicate id rejected
	err := Add(db, newTestRepository("A1234B", "Other"))
	require.ErrorIs(t, err, ErrRepositoryAlreadyExists)

	// empty id rejected
	err = Add(db, &models.Repository{})
	require.ErrorIs(t, err, ErrRepositoryIDEmpty)
}

func TestReplace(t *testing.T) {
	db := setupTestDB(t)

	require.ErrorIs(t, Replace(db, "A1234B", newTestRepository("A1234B", "x")), ErrRepositoryNotFound)

	original := newTestRepository("A1234B", "Scouts Gent")
	require.NoError(t, Add(db, original))

	updated := newTestRepository("A1234B", "[path not found] Scouts Gent")
	updated.Enabled = false
	require.NoError(t, Replace(db, "A1234B", updated))

	stored, err := Get(db, "A1234B")
	require.NoError(t, err)
	assert.Equal(t, "[path not found] Scouts Gent", stored.Display)
	assert.False(t, stored.Enabled)
}

func TestReplaceKeepsID(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Add(db, newTestRepository("A1234B", "Scouts Gent")))

	// the record's id field never overrules the keying id
	rogue := newTestRepository("Z9999Z", "Renamed")
	require.NoError(t, Replace(db, "A1234B", rogue))

	stored, err := Get(db, "A1234B")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Display)

	_, err = Get(db, "Z9999Z")
	require.ErrorIs(t, err, ErrRepositoryNotFound)
}
