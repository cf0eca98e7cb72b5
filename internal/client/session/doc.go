// Package session owns the process-wide authenticated session of the client.
//
// A single *Store is created at startup and handed to every consumer as a
// Reader. Only Store methods change the session. The store trusts a locally
// cached user on Bootstrap and otherwise verifies the session against the
// backend's current-user endpoint.
//
// State machine:
//
//	Unauthenticated -> Authenticating -> Authenticated | Error
//	Authenticated   -> Unauthenticated (logout, rejected revalidation)
//
// Authenticated holds a user; every other status holds none. No Store method
// returns while the status is still Authenticating.
package session
