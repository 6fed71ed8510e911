// Package main provides the entry point for the groepsadmin authentication
// driver service. It bridges the file-sharing platform's user and workspace
// model to the groepsadmin membership administration over SOAP: logins are
// verified against the remote directory, and on every successful login the
// local role store and workspace records are reconciled with the member's
// remote group memberships. The service uses gorm for persistence and the
// Fiber framework for the host-facing login API.
package main
