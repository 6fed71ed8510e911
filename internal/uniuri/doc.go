// Package uniuri generates cryptographically secure random strings, used for
// session identifiers.
package uniuri
