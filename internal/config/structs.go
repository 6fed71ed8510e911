package config

import (
	"time"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode     bool // enable dev mode for development
	DB          DB
	Log         logger.Log
	Title       string
	Webserver   Webserver
	Groepsadmin Groepsadmin
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Groepsadmin holds the settings for the remote membership administration.
type Groepsadmin struct {
	// Endpoint is the SOAP endpoint of the groepsadmin webservice.
	Endpoint string `validate:"omitempty,url"`
	// Group is the organisational group the service authenticates under.
	Group string
	// Timeout bounds every remote directory call.
	Timeout time.Duration
	// AdminPasswordSHA1 is the sha1 hex of the operator password. It is never
	// read from the config file, only from the GA_ADMIN_PW_SHA1 environment
	// variable.
	AdminPasswordSHA1 string `toml:"-" json:"-"`
	// AdminEmail is the contact address shown for the local admin account.
	AdminEmail string
	// EmailDomain is the domain of the derived workspace contact aliases.
	EmailDomain string
	// MountRoot is the directory under which workspace storage is mounted.
	MountRoot string
}
