package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/controller/profile"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/models"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/groepsadmin"
)

// staleAfter is how long a synced profile stays authoritative. Within this
// window a login reuses the stored profile and grants without a remote call.
const staleAfter = 300 * time.Second

// OnSuccessfulAuth runs the post-login sync for a user id. Concurrent calls
// for the same id share a single sync run.
func (d *Driver) OnSuccessfulAuth(ctx context.Context, userID string) error {
	_, err, _ := d.sync.Do(userID, func() (interface{}, error) {
		return nil, d.syncProfile(ctx, userID)
	})

	return err
}

// syncProfile refreshes the local profile and workspace grants of one user.
// The admin account is purely local. Everyone else is refetched from the
// directory when the stored profile is older than the staleness window, and
// the full grant set is rebuilt from the directory's group list. Live
// sessions are refreshed exactly once at the end, whichever branch ran.
func (d *Driver) syncProfile(ctx context.Context, userID string) error {
	p, err := profile.GetOrCreate(d.db, userID)
	if err != nil {
		return errors.Wrap(err, "loading profile")
	}

	if userID == AdminLogin {
		return d.syncAdmin(p)
	}

	now := time.Now().Unix()
	if p.LastSyncedAt+int64(staleAfter.Seconds()) >= now {
		profileSyncs.WithLabelValues(syncKindFresh).Inc()

		// Still fresh. Make sure the home grant exists and move on.
		if err := profile.Grant(d.db, userID, HomeRepositoryID, models.RightReadWrite); err != nil {
			return errors.Wrap(err, "granting home workspace")
		}

		return d.refreshSessions(userID)
	}

	member, err := d.dir.Member(ctx, userID)
	if err != nil {
		return d.upstream("member sync", err)
	}

	p.DisplayName = member.FirstName + " " + member.LastName
	p.Email = member.Email
	p.LastSyncedAt = now

	entries, err := d.groupGrants(userID, member.Groups)
	if err != nil {
		return err
	}

	entries = append(entries, models.ACLEntry{
		UserID:       userID,
		RepositoryID: HomeRepositoryID,
		Right:        models.RightReadWrite,
	})

	if err := profile.ReplaceACL(d.db, p, entries); err != nil {
		return errors.Wrap(err, "replacing access grants")
	}

	profileSyncs.WithLabelValues(syncKindStale).Inc()
	log.Info().
		Str("user", userID).
		Int("grants", len(entries)).
		Msg("profile synced from groepsadmin")

	return d.refreshSessions(userID)
}

// syncAdmin fills in the fixed admin profile. Admin never talks to the
// directory and keeps whatever grants were accumulated from workspace
// creation, plus the home workspace.
func (d *Driver) syncAdmin(p *models.Profile) error {
	p.DisplayName = "Admin"
	p.Email = d.cfg.AdminEmail
	p.LastSyncedAt = time.Now().Unix()

	if err := profile.Save(d.db, p); err != nil {
		return errors.Wrap(err, "saving admin profile")
	}

	if err := profile.Grant(d.db, AdminLogin, HomeRepositoryID, models.RightReadWrite); err != nil {
		return errors.Wrap(err, "granting home workspace")
	}

	profileSyncs.WithLabelValues(syncKindAdmin).Inc()

	return d.refreshSessions(AdminLogin)
}

// groupGrants reconciles a workspace per directory group and builds the
// grant list. Groups without a workspace-worthy id are skipped, disabled
// workspaces get no grant and duplicate group ids collapse to one entry.
// A store failure aborts the whole sync so the previous grant set stays in
// place instead of being rebuilt without the broken workspace.
func (d *Driver) groupGrants(userID string, groups []groepsadmin.Group) ([]models.ACLEntry, error) {
	entries := make([]models.ACLEntry, 0, len(groups))
	seen := make(map[string]bool, len(groups))

	for _, g := range groups {
		if !ValidGroupID(g.ID) || seen[g.ID] {
			continue
		}

		seen[g.ID] = true

		title := NormalizeGroupName(g.Name)

		enabled, err := d.reconciler.Reconcile(g.ID, title)
		if err != nil {
			return nil, errors.Wrapf(err, "reconciling workspace %s", g.ID)
		}

		if !enabled {
			continue
		}

		right := models.RightRead
		if g.ManageRight {
			right = models.RightReadWrite
		}

		entries = append(entries, models.ACLEntry{
			UserID:       userID,
			RepositoryID: g.ID,
			Right:        right,
		})
	}

	return entries, nil
}

// refreshSessions tells the session layer to reload the user's permissions.
func (d *Driver) refreshSessions(userID string) error {
	if err := d.sessions.Refresh(userID); err != nil {
		return errors.Wrap(err, "refreshing sessions")
	}

	return nil
}
