package auth

import (
	"context"
	"crypto/sha1" //nolint:gosec // the operator hash format is fixed
	"crypto/subtle"
	"encoding/hex"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/groepsadmin"
)

const (
	// DriverName identifies this driver towards the host platform.
	DriverName = "sgv"

	// AdminLogin is the one local account. It never reaches the remote
	// directory; its password lives in the local user table.
	AdminLogin = "admin"

	// HomeRepositoryID is the well-known workspace id of a user's personal
	// space. Every synced user gets read-write on it.
	HomeRepositoryID = "ajxp_home"
)

// Config holds the driver settings, passed explicitly at construction.
type Config struct {
	// AdminPasswordSHA1 is the sha1 hex of the operator password. When the
	// presented password hashes to this value the verification succeeds for
	// any login; this operator bootstrap predates the driver and stays.
	AdminPasswordSHA1 string
	// AdminEmail is the contact address of the local admin account.
	AdminEmail string
	// EmailDomain for derived workspace contact aliases.
	EmailDomain string
	// MountRoot under which workspace storage paths live.
	MountRoot string
}

// Driver is the groepsadmin authentication driver. It verifies credentials
// against the remote directory, resolves logins to directory ids and syncs
// profiles plus workspace grants after every successful login.
type Driver struct {
	db         *gorm.DB
	dir        groepsadmin.Directory
	paths      PathChecker
	sessions   SessionRefresher
	cfg        Config
	reconciler *Reconciler

	// sync coalesces concurrent syncs per user id: the ACL rebuild must not
	// race with itself and duplicate remote fetches are pointless.
	sync singleflight.Group
}

// New creates the driver with all collaborators injected.
func New(
	db *gorm.DB,
	dir groepsadmin.Directory,
	paths PathChecker,
	sessions SessionRefresher,
	cfg Config,
) *Driver {
	return &Driver{
		db:         db,
		dir:        dir,
		paths:      paths,
		sessions:   sessions,
		cfg:        cfg,
		reconciler: NewReconciler(db, paths, cfg.EmailDomain, cfg.MountRoot),
	}
}

// UserExists reports whether a login is handled by this driver. It answers
// true for every login except the literal admin account, so that the login
// form never reveals which member logins are real.
func (d *Driver) UserExists(login string) bool {
	return login != AdminLogin
}

// UsersEditable reports whether the platform may edit users. Directory
// users are owned by groepsadmin.
func (d *Driver) UsersEditable() bool {
	return false
}

// PasswordsEditable reports whether the platform may change passwords.
func (d *Driver) PasswordsEditable() bool {
	return false
}

// CheckPassword verifies a login/password pair. A password hashing to the
// configured operator hash is accepted for any login. The admin login is
// otherwise denied here: it authenticates through the local user table, not
// the directory. Remote failures return ErrUpstreamUnavailable.
func (d *Driver) CheckPassword(ctx context.Context, login, password string) (bool, error) {
	log.Info().Str("driver", DriverName).Str("login", login).Msg("login attempt")

	if d.operatorHashMatches(password) {
		loginAttempts.WithLabelValues(resultAccepted).Inc()

		return true, nil
	}

	if login == AdminLogin {
		// The operator hash did not match and admin has no directory
		// credentials. Deny.
		loginAttempts.WithLabelValues(resultRejected).Inc()

		return false, nil
	}

	id, err := d.dir.Login(ctx, login, password)
	if err != nil {
		loginAttempts.WithLabelValues(resultUnavailable).Inc()

		return false, d.upstream("login", err)
	}

	if id == "" {
		loginAttempts.WithLabelValues(resultRejected).Inc()

		return false, nil
	}

	loginAttempts.WithLabelValues(resultAccepted).Inc()

	return true, nil
}

// ResolveRemoteID resolves a login name to the member's directory id. The
// admin login and already resolved 32 hex char ids pass through unchanged
// without a remote call, so resolving twice is a no-op.
func (d *Driver) ResolveRemoteID(ctx context.Context, login string) (string, error) {
	if login == AdminLogin || remoteIDPattern.MatchString(login) {
		return login, nil
	}

	log.Info().Str("driver", DriverName).Str("login", login).Msg("looking up member id")

	member, err := d.dir.Member(ctx, login)
	if err != nil {
		return "", d.upstream("member lookup", err)
	}

	return member.ID, nil
}

// operatorHashMatches compares sha1(password) to the configured operator
// hash. An unset hash never matches.
func (d *Driver) operatorHashMatches(password string) bool {
	if d.cfg.AdminPasswordSHA1 == "" {
		return false
	}

	sum := sha1.Sum([]byte(password)) //nolint:gosec // fixed operator hash format
	digest := hex.EncodeToString(sum[:])

	return subtle.ConstantTimeCompare([]byte(digest), []byte(d.cfg.AdminPasswordSHA1)) == 1
}

// upstream logs the remote cause and returns the operator-facing sentinel.
// Raw directory errors never reach the user.
func (d *Driver) upstream(operation string, err error) error {
	log.Error().
		Err(err).
		Str("driver", DriverName).
		Str("operation", operation).
		Msg("groepsadmin call failed")

	return ErrUpstreamUnavailable
}
