package login

const (
	// msgInvalidCredentials is returned for every wrong login/password pair,
	// for unknown and known logins alike.
	msgInvalidCredentials = "invalid login or password"

	// msgInternalError is returned when the login flow itself broke.
	msgInternalError = "internal server error"
)
