// Package auth provides the session-checking middleware for the web surface.
package auth
