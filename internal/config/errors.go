package config

import "errors"

var (
	// ErrWebServerPortCanNotBeZero is returned when the webserver port is not set.
	ErrWebServerPortCanNotBeZero = errors.New("webserver port can not be 0")

	// ErrEmptyURL is returned when the webserver base url is not set.
	ErrEmptyURL = errors.New("webserver url can not be empty")

	// ErrGroepsadminEndpointEmpty is returned when no remote directory endpoint is configured.
	ErrGroepsadminEndpointEmpty = errors.New("groepsadmin endpoint can not be empty")
)
