// Package client is the remote gateway of the skillshare client.
//
// # Overview
//
// The package provides:
//  1. Narrow API contracts (AuthAPI, PostsAPI, NotificationsAPI,
//     ProgressAPI, and their union Client) consumed by the session store and
//     the per-view collections.
//  2. A REST implementation (Gateway) with get/post/put/delete against one
//     fixed base URL. Every request carries the session cookies from the
//     gateway's jar; bodies may be JSON values, FormBody or *MultipartBody.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Every failed call returns an *APIError whose Kind is one of KindNetwork,
// KindUnauthorized, KindBadRequest or KindServer. The sentinels ErrNetwork,
// ErrUnauthorized, ErrBadRequest and ErrServer match through errors.Is.
// Response bodies are reduced to a message and never returned raw.
//
// The gateway never retries; retry policy belongs to the caller.
package client
