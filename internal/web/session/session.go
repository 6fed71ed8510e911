// Package session stores the logged-in state of a user: their identity and
// the workspace rights snapshot their sessions act on. The snapshot is
// rewritten in place when a profile sync changes the underlying grants.
package session

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/uniuri"
)

// sessionIDLen gives ~380 bits of entropy with the standard charset.
const sessionIDLen = 64

// userIndexPrefix keys the per-user list of live session ids.
const userIndexPrefix = "uid:"

// Store is the global session store instance.
var Store *session.Store

// Data represents the session data structure.
type Data struct {
	// UserID is the directory member id, or the admin login.
	UserID string `json:"user_id"`
	// DisplayName as synced from the directory.
	DisplayName string `json:"display_name"`
	// Email as synced from the directory.
	Email string `json:"email"`
	// Rights maps workspace id to access right, the session's working copy
	// of the user's grants.
	Rights map[string]string `json:"rights"`
}

// Init initializes the session store with the provided storage backend.
func Init(storage storage.Storage) {
	if storage == nil {
		panic("storage is nil")
	}

	Store = session.New(session.Config{
		Storage: storage,
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() string {
	return uniuri.NewLen(sessionIDLen)
}

// Write writes the session data for the given session ID with an expiration
// duration and records the session in the user's live session index.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	if err := Store.Storage.Set(sessionID, out, exp); err != nil {
		return err
	}

	return track(s.UserID, sessionID, exp)
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	byteData, err := Store.Storage.Get(sessionID)
	if err != nil {
		return err
	}

	return json.Unmarshal(byteData, s)
}

// Delete removes a session and drops it from the owner's index.
func Delete(sessionID string) error {
	var s Data
	if err := s.Read(sessionID); err == nil && s.UserID != "" {
		ids, _ := LiveSessions(s.UserID)
		remaining := make([]string, 0, len(ids))

		for _, id := range ids {
			if id != sessionID {
				remaining = append(remaining, id)
			}
		}

		_ = writeIndex(s.UserID, remaining, 0)
	}

	return Store.Storage.Delete(sessionID)
}

// LiveSessions returns the known session ids of a user. Expired sessions may
// linger in the list until the next write or refresh prunes them.
func LiveSessions(userID string) ([]string, error) {
	byteData, err := Store.Storage.Get(userIndexPrefix + userID)
	if err != nil || len(byteData) == 0 {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(byteData, &ids); err != nil {
		return nil, err
	}

	return ids, nil
}

// track appends a session id to the user's index, pruning ids whose session
// is gone.
func track(userID, sessionID string, exp time.Duration) error {
	if userID == "" {
		return nil
	}

	ids, _ := LiveSessions(userID)
	live := make([]string, 0, len(ids)+1)

	for _, id := range ids {
		if id == sessionID {
			continue
		}

		if data, err := Store.Storage.Get(id); err == nil && len(data) > 0 {
			live = append(live, id)
		}
	}

	live = append(live, sessionID)

	return writeIndex(userID, live, exp)
}

func writeIndex(userID string, ids []string, exp time.Duration) error {
	out, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	return Store.Storage.Set(userIndexPrefix+userID, out, exp)
}
