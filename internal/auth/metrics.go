package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// loginAttempts counts credential verifications by result.
	loginAttempts = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Number of credential verifications, differentiated by result.",
		},
		[]string{"result"},
	)

	// profileSyncs counts profile synchronizations by kind.
	profileSyncs = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "auth_profile_syncs_total",
			Help: "Number of profile synchronizations, differentiated by kind.",
		},
		[]string{"kind"},
	)

	// reconciledRepositories counts workspace reconciliations by outcome.
	reconciledRepositories = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "auth_repositories_reconciled_total",
			Help: "Number of workspace reconciliations, differentiated by outcome.",
		},
		[]string{"outcome"},
	)
)

const (
	resultAccepted    = "accepted"
	resultRejected    = "rejected"
	resultUnavailable = "unavailable"

	syncKindAdmin = "admin"
	syncKindFresh = "fresh"
	syncKindStale = "stale"

	outcomeEnabled  = "enabled"
	outcomeDisabled = "disabled"
)
