// Package auth implements the groepsadmin authentication driver: credential
// verification against the remote directory, identity resolution, and the
// per-login synchronization that reconciles the local role store and
// workspace records with the member's remote group memberships.
package auth
