package auth

import "errors"

var (
	// ErrUpstreamUnavailable is returned when the groepsadmin directory is
	// unreachable or erroring. Its text is the operator-facing message; the
	// underlying cause is logged, never shown to the user.
	ErrUpstreamUnavailable = errors.New("probleem met de koppeling met de groepsadministratie")
)
