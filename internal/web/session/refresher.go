package session

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/controller/profile"
)

// Refresher rewrites the rights snapshot of a user's live sessions from the
// role store. It is handed to the auth driver, which calls it after every
// profile sync.
type Refresher struct {
	db     *gorm.DB
	expiry time.Duration
}

// NewRefresher creates a refresher reading from the given database.
func NewRefresher(db *gorm.DB, expiry time.Duration) *Refresher {
	return &Refresher{db: db, expiry: expiry}
}

// Refresh reloads the user's profile and grants and rewrites every live
// session in place. Sessions that disappeared in the meantime are skipped.
func (r *Refresher) Refresh(userID string) error {
	ids, err := LiveSessions(userID)
	if err != nil || len(ids) == 0 {
		return nil
	}

	p, err := profile.Get(r.db, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil
		}

		return errors.Wrap(err, "loading profile")
	}

	entries, err := profile.ACL(r.db, userID)
	if err != nil {
		return errors.Wrap(err, "loading grants")
	}

	rights := make(map[string]string, len(entries))
	for _, e := range entries {
		rights[e.RepositoryID] = e.Right
	}

	for _, id := range ids {
		var s Data
		if err := s.Read(id); err != nil {
			continue
		}

		s.DisplayName = p.DisplayName
		s.Email = p.Email
		s.Rights = rights

		out, err := json.Marshal(&s)
		if err != nil {
			return errors.Wrap(err, "encoding session")
		}

		if err := Store.Storage.Set(id, out, r.expiry); err != nil {
			return errors.Wrap(err, "writing session")
		}
	}

	log.Debug().Str("user", userID).Int("sessions", len(ids)).Msg("sessions refreshed")

	return nil
}
