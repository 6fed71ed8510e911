package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	sessionmemory "github.com/gofiber/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/auth"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/config"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/models"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/groepsadmin"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/web/session"
)

const memberID = "0123456789abcdef0123456789abcdef"

// fakeDirectory is a scripted groepsadmin.Directory.
type fakeDirectory struct {
	loginID   string
	loginErr  error
	member    *groepsadmin.Member
	memberErr error
}

func (f *fakeDirectory) Login(_ context.Context, _, _ string) (string, error) {
	return f.loginID, f.loginErr
}

func (f *fakeDirectory) Member(_ context.Context, _ string) (*groepsadmin.Member, error) {
	return f.member, f.memberErr
}

// allPaths makes every workspace storage path exist.
type allPaths struct{}

func (allPaths) Exists(string) bool { return true }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.ACLEntry{},
		&models.Repository{},
	))

	return db
}

func newTestService(t *testing.T, dir *fakeDirectory) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	session.Init(sessionmemory.New())

	cfg := &config.Config{
		Webserver: config.Webserver{
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}

	driver := auth.New(db, dir, allPaths{}, session.NewRefresher(db, time.Minute), auth.Config{
		AdminEmail:  "info@example.org",
		EmailDomain: "example.org",
		MountRoot:   "/mnt",
	})

	app := fiber.New()

	var s Service
	require.NoError(t, s.Init(app, cfg, db, driver))

	return app, db
}

func postLogin(t *testing.T, app *fiber.App, login, password string) *http.Response {
	t.Helper()

	body, err := json.Marshal(map[string]string{"login": login, "password": password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, Path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	defer func() { _ = resp.Body.Close() }()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

func TestPostDirectoryLoginSuccess(t *testing.T) {
	dir := &fakeDirectory{
		loginID: memberID,
		member: &groepsadmin.Member{
			ID:        memberID,
			FirstName: "Jos",
			LastName:  "Vermeulen",
			Email:     "jos@example.org",
			Groups: []groepsadmin.Group{
				{ID: "A1234B", Name: "SCOUTS_GENT", ManageRight: true},
			},
		},
	}
	app, _ := newTestService(t, dir)

	resp := postLogin(t, app, "jos.vermeulen", "goodpw")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	setCookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, "session=")

	body := decodeBody(t, resp)
	assert.Equal(t, memberID, body["user_id"])
	assert.Equal(t, "Jos Vermeulen", body["display_name"])

	rights, ok := body["rights"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rw", rights[auth.HomeRepositoryID])
	assert.Equal(t, "rw", rights["A1234B"])
}

func TestPostWrongCredentials(t *testing.T) {
	app, _ := newTestService(t, &fakeDirectory{loginID: ""})

	resp := postLogin(t, app, "jos.vermeulen", "badpw")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, msgInvalidCredentials, body["error"])
}

func TestPostUpstreamDown(t *testing.T) {
	app, _ := newTestService(t, &fakeDirectory{loginErr: errors.New("connection refused")})

	resp := postLogin(t, app, "jos.vermeulen", "goodpw")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// The outage message must not look like a wrong password.
	body := decodeBody(t, resp)
	assert.Equal(t, auth.ErrUpstreamUnavailable.Error(), body["error"])
	assert.NotEqual(t, msgInvalidCredentials, body["error"])
}

func TestPostAdminLocalLogin(t *testing.T) {
	app, db := newTestService(t, &fakeDirectory{loginErr: errors.New("unreachable")})

	require.NoError(t, db.Create(&models.User{
		Username: "admin",
		Password: models.HashPassword("changeme"),
		Active:   true,
	}).Error)

	resp := postLogin(t, app, "admin", "changeme")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "admin", body["user_id"])
	assert.Equal(t, "Admin", body["display_name"])

	rights, ok := body["rights"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rw", rights[auth.HomeRepositoryID])
}

func TestPostAdminWrongPassword(t *testing.T) {
	app, db := newTestService(t, &fakeDirectory{loginID: memberID})

	require.NoError(t, db.Create(&models.User{
		Username: "admin",
		Password: models.HashPassword("changeme"),
		Active:   true,
	}).Error)

	resp := postLogin(t, app, "admin", "wrong")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPostInactiveAdminDenied(t *testing.T) {
	app, db := newTestService(t, &fakeDirectory{})

	require.NoError(t, db.Create(&models.User{
		Username: "admin",
		Password: models.HashPassword("changeme"),
		Active:   false,
	}).Error)

	resp := postLogin(t, app, "admin", "changeme")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPostMissingFields(t *testing.T) {
	app, _ := newTestService(t, &fakeDirectory{})

	resp := postLogin(t, app, "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPostMalformedBody(t *testing.T) {
	app, _ := newTestService(t, &fakeDirectory{})

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
