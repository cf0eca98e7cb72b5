// Package cli provides the interactive skillshare command-line client.
//
// It wires configuration, the local session cache, the REST gateway, the
// session store and the optimistic collections into a REPL. Typical flow:
// restore or verify the session, preload the inbox and progress updates,
// then execute user commands until exit.
//
// Key features:
//   - Login with email and password, external provider login, registration
//   - Open and like posts, create posts with media
//   - Notification inbox: list, mark read, mark all read, delete
//   - Progress updates: list, add, edit, delete
//   - Request and mutation counters (stats)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
