package auth

import (
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/controller/profile"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/controller/repository"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/models"
)

// missingPathPrefix marks workspaces whose storage directory is gone. The
// prefix is recomputed on every reconciliation, so a returning directory
// clears it again.
const missingPathPrefix = "[path not found] "

// Reconciler keeps workspace records in step with the directory groups they
// mirror. Workspaces are created on demand and never deleted; a group id is
// also its workspace id, forever.
type Reconciler struct {
	db          *gorm.DB
	paths       PathChecker
	emailDomain string
	mountRoot   string
}

// NewReconciler creates a reconciler writing to the given database.
func NewReconciler(db *gorm.DB, paths PathChecker, emailDomain, mountRoot string) *Reconciler {
	return &Reconciler{
		db:          db,
		paths:       paths,
		emailDomain: emailDomain,
		mountRoot:   mountRoot,
	}
}

// Reconcile brings the workspace for a group in line with the directory:
// it creates the record if absent, points it at its storage path, derives
// the contact alias and enables or disables it on path existence. It
// returns whether the workspace ended up enabled.
func (r *Reconciler) Reconcile(groupID, title string) (bool, error) {
	repo, err := repository.Get(r.db, groupID)

	switch {
	case errors.Is(err, repository.ErrRepositoryNotFound):
		repo, err = r.create(groupID, title)
		if err != nil {
			return false, err
		}
	case err != nil:
		return false, errors.Wrap(err, "loading workspace")
	}

	storagePath := path.Join(r.mountRoot, groupID)
	enabled := r.paths.Exists(storagePath)

	repo.Display = title
	if !enabled {
		repo.Display = missingPathPrefix + title
	}

	repo.Enabled = enabled
	repo.Path = storagePath

	opts, err := repo.GetOptions()
	if err != nil {
		return false, errors.Wrap(err, "decoding workspace options")
	}

	opts.Path = storagePath
	opts.Email = ContactAlias(title, groupID, r.emailDomain)

	if err := repo.SetOptions(opts); err != nil {
		return false, errors.Wrap(err, "encoding workspace options")
	}

	if err := repository.Replace(r.db, groupID, repo); err != nil {
		return false, errors.Wrap(err, "saving workspace")
	}

	outcome := outcomeEnabled
	if !enabled {
		outcome = outcomeDisabled

		log.Warn().
			Str("repository", groupID).
			Str("path", storagePath).
			Msg("workspace storage path missing, workspace disabled")
	}

	reconciledRepositories.WithLabelValues(outcome).Inc()

	return enabled, nil
}

// create registers a new workspace for a group and grants the admin account
// read access on it.
func (r *Reconciler) create(groupID, title string) (*models.Repository, error) {
	storagePath := path.Join(r.mountRoot, groupID)

	repo := &models.Repository{
		ID:      groupID,
		Display: title,
		Slug:    groupID,
		Driver:  models.StorageDriverFS,
		Path:    storagePath,
	}

	opts := models.RepositoryOptions{
		Path:        storagePath,
		MetaSources: models.DefaultMetaSources(),
	}
	if err := repo.SetOptions(opts); err != nil {
		return nil, errors.Wrap(err, "encoding workspace options")
	}

	if err := repository.Add(r.db, repo); err != nil {
		return nil, errors.Wrap(err, "creating workspace")
	}

	if err := profile.Grant(r.db, AdminLogin, groupID, models.RightRead); err != nil {
		return nil, errors.Wrap(err, "granting admin access")
	}

	log.Info().Str("repository", groupID).Str("display", title).Msg("workspace created")

	return repo, nil
}
