// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/BurntSushi/toml"
)

const (
	defaultShutDownTime = 5
	defaultTimeout      = 30 * time.Second
	defaultEmailDomain  = "scoutsengidsenvlaanderen.org"
	defaultAdminEmail   = "info@scoutsengidsenvlaanderen.be"
	defaultMountRoot    = "/mnt"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv("GO_GROEPSADMIN_AUTH_CONFIG_JSON")

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	readSecrets(&c)
	ApplyDefaults(&c)

	return c, validate(c)
}

// readSecrets pulls secret settings from the process environment.
// The operator password hash never lives in a config file.
func readSecrets(c *Config) {
	v := viper.New()
	v.SetEnvPrefix("ga")
	v.AutomaticEnv()

	if hash := v.GetString("admin_pw_sha1"); hash != "" {
		c.Groepsadmin.AdminPasswordSHA1 = hash
	}
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings for the auth service and fill in defaults.
func validate(c Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Groepsadmin.Endpoint == "" {
		return errors.Wrap(ErrGroepsadminEndpointEmpty, invalidErrMessage)
	}

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	return nil
}

// ApplyDefaults fills unset optional settings with their defaults.
func ApplyDefaults(c *Config) {
	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Groepsadmin.Timeout == 0 {
		c.Groepsadmin.Timeout = defaultTimeout
	}

	if c.Groepsadmin.EmailDomain == "" {
		c.Groepsadmin.EmailDomain = defaultEmailDomain
	}

	if c.Groepsadmin.AdminEmail == "" {
		c.Groepsadmin.AdminEmail = defaultAdminEmail
	}

	if c.Groepsadmin.MountRoot == "" {
		c.Groepsadmin.MountRoot = defaultMountRoot
	}
}
