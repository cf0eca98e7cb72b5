// Package optimistic holds ordered entity collections that apply a change
// locally before the backend confirms it and reconcile once it answers.
//
// A Collection is owned by one view. Each mutation takes the remote call as
// a function; the collection applies the local effect, releases its lock
// while the call runs, then confirms or rolls back:
//
//   - InsertOptimistic places a draft at the head, then swaps in the server
//     entity at its ordered position or drops the draft again.
//   - MutateField patches some fields, then restores exactly those fields
//     on failure.
//   - Remove takes an entity out, then forgets it or puts it back at its
//     old index.
//
// Concurrent mutations of the same key are not coalesced. Each one restores
// the fields as they were before its own call, so the last continuation to
// finish wins.
//
// Close and ReplaceAll start a new generation. Continuations from an older
// generation change nothing. A failed call reports ErrStale joined with its
// error; a successful one reports no error, since the server did apply it.
package optimistic
