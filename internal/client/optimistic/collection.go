package optimistic

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/skillshare/internal/logging"
	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("entity not found")
	ErrDuplicateKey = errors.New("duplicate entity key")
	// ErrPendingInsert is returned when a draft that is still being created
	// is mutated or removed.
	ErrPendingInsert = errors.New("entity is still being created")
	// ErrStale is joined with the remote error when a failed call finished
	// after the collection was closed or replaced. Nothing was rolled back.
	ErrStale  = errors.New("collection changed while the request was in flight")
	ErrClosed = errors.New("collection closed")
)

// Entity is anything a collection can hold. Key must be unique within the
// collection; Timestamp orders it, newest first.
type Entity interface {
	Key() string
	Timestamp() time.Time
}

// PendingOp marks an entity with an unconfirmed mutation.
type PendingOp int

const (
	PendingNone PendingOp = iota
	PendingInsert
	PendingUpdate
	PendingDelete
)

func (p PendingOp) String() string {
	switch p {
	case PendingInsert:
		return "insert"
	case PendingUpdate:
		return "update"
	case PendingDelete:
		return "delete"
	default:
		return "none"
	}
}

// Handle identifies a draft until the server assigns its key.
type Handle string

// Outcome of a finished optimistic operation.
type Outcome string

const (
	OutcomeConfirmed  Outcome = "confirmed"
	OutcomeRolledBack Outcome = "rolled_back"
	OutcomeDiscarded  Outcome = "discarded"
)

// Observer receives one event per finished mutation.
type Observer interface {
	ObserveOptimistic(collection, op string, outcome Outcome)
}

type entry[T Entity] struct {
	key     string
	item    T
	insert  bool
	updates int
}

type removed[T Entity] struct {
	entry entry[T]
	index int
}

// Collection is an ordered, keyed set of entities with optimistic mutations.
// It is safe for concurrent use.
type Collection[T Entity] struct {
	name     string
	logger   logging.Logger
	observer Observer

	mu      sync.Mutex
	entries []entry[T]
	deleted map[string]removed[T]
	gen     uint64
	closed  bool
}

type options struct {
	logger   logging.Logger
	observer Observer
}

type Option func(*options)

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// New returns an empty collection. name labels its log lines and metrics.
func New[T Entity](name string, opts ...Option) *Collection[T] {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{
		name:     name,
		logger:   o.logger.With("collection", name),
		observer: o.observer,
		deleted:  make(map[string]removed[T]),
	}
}

// Items returns the entities in display order.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.item
	}
	return out
}

func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Get returns the entity stored under key. Drafts are found by their Handle.
func (c *Collection[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(key); i >= 0 {
		return c.entries[i].item, true
	}
	var zero T
	return zero, false
}

// Pending reports the unconfirmed mutation of key, if any.
func (c *Collection[T]) Pending(key string) PendingOp {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.deleted[key]; ok {
		return PendingDelete
	}
	i := c.indexOf(key)
	switch {
	case i < 0:
		return PendingNone
	case c.entries[i].insert:
		return PendingInsert
	case c.entries[i].updates > 0:
		return PendingUpdate
	default:
		return PendingNone
	}
}

// Count returns how many entities satisfy pred. It is computed on every
// call.
func (c *Collection[T]) Count(pred func(T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if pred(e.item) {
			n++
		}
	}
	return n
}

// Close discards the results of every call still in flight.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.gen++
	c.entries = nil
	clear(c.deleted)
}

// ReplaceAll swaps in items wholesale, newest first. Later duplicates of a
// key are dropped. There is no rollback, and calls still in flight become
// stale.
func (c *Collection[T]) ReplaceAll(items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	seen := make(map[string]struct{}, len(items))
	entries := make([]entry[T], 0, len(items))
	for _, it := range items {
		k := it.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		entries = append(entries, entry[T]{key: k, item: it})
	}

	c.entries = entries
	c.sortLocked()
	clear(c.deleted)
	c.gen++
	return nil
}

// Put inserts v or replaces the entity with the same key. It is meant for
// server-authoritative values and has no rollback.
func (c *Collection[T]) Put(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if i := c.indexOf(v.Key()); i >= 0 {
		c.entries[i].item = v
		return nil
	}
	c.placeLocked(entry[T]{key: v.Key(), item: v})
	return nil
}

// UpdateAll replaces every entity with fn(entity) under a single lock.
// Positions and calls in flight are left alone.
func (c *Collection[T]) UpdateAll(fn func(T) T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	for i := range c.entries {
		c.entries[i].item = fn(c.entries[i].item)
	}
	return nil
}

// Overwrite replaces the entity under key with v in place, keeping its
// position. v may carry a different key as long as it is not taken.
func (c *Collection[T]) Overwrite(key string, v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	i := c.indexOf(key)
	if i < 0 {
		return ErrNotFound
	}
	if nk := v.Key(); nk != key {
		if c.indexOf(nk) >= 0 {
			return ErrDuplicateKey
		}
		c.entries[i].key = nk
	}
	c.entries[i].item = v
	return nil
}

// InsertOptimistic shows draft at the head of the sequence and calls remote.
// On success the draft gives way to the returned entity, which is placed by
// its timestamp after any confirmed entity it ties with. On failure the
// draft is removed and the sequence is what it was before the call.
func (c *Collection[T]) InsertOptimistic(ctx context.Context, draft T, remote func(ctx context.Context) (T, error)) (Handle, T, error) {
	var zero T
	h := Handle("draft-" + uuid.NewString())
	key := string(h)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return h, zero, ErrClosed
	}
	c.entries = slices.Insert(c.entries, 0, entry[T]{key: key, item: draft, insert: true})
	gen := c.gen
	c.mu.Unlock()

	confirmed, err := remote(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(key)
	if c.gen != gen || i < 0 {
		c.discard(ctx, "insert", err)
		if err != nil {
			return h, zero, errors.Join(ErrStale, err)
		}
		return h, confirmed, nil
	}

	if err != nil {
		c.entries = slices.Delete(c.entries, i, i+1)
		c.rollback(ctx, "insert", key, err)
		return h, zero, err
	}

	// The server key wins. A copy already tracked under it is superseded.
	c.entries = slices.Delete(c.entries, i, i+1)
	nk := confirmed.Key()
	if j := c.indexOf(nk); j >= 0 {
		c.entries = slices.Delete(c.entries, j, j+1)
	}
	c.placeLocked(entry[T]{key: nk, item: confirmed})
	c.confirm("insert")
	return h, confirmed, nil
}

// MutateField applies patch to the entity under key and calls remote. On
// failure only the fields the patch touches are restored, to their values
// from before this call.
func (c *Collection[T]) MutateField(ctx context.Context, key string, patch Patch[T], remote func(ctx context.Context) error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	i := c.indexOf(key)
	if i < 0 {
		c.mu.Unlock()
		return ErrNotFound
	}
	if c.entries[i].insert {
		c.mu.Unlock()
		return ErrPendingInsert
	}
	prior := c.entries[i].item
	c.entries[i].item = patch.Apply(prior)
	c.entries[i].updates++
	gen := c.gen
	c.mu.Unlock()

	err := remote(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	i = c.indexOf(key)
	if c.gen != gen || i < 0 {
		c.discard(ctx, "update", err)
		return staleError(err)
	}
	c.entries[i].updates--

	if err != nil {
		c.entries[i].item = patch.Restore(c.entries[i].item, prior)
		c.rollback(ctx, "update", key, err)
		return err
	}
	c.confirm("update")
	return nil
}

// Remove takes the entity under key out of the sequence and calls remote.
// On failure it is put back at its old index, or appended if that index is
// past the end.
func (c *Collection[T]) Remove(ctx context.Context, key string, remote func(ctx context.Context) error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	i := c.indexOf(key)
	if i < 0 {
		c.mu.Unlock()
		return ErrNotFound
	}
	if c.entries[i].insert {
		c.mu.Unlock()
		return ErrPendingInsert
	}
	e := c.entries[i]
	c.entries = slices.Delete(c.entries, i, i+1)
	c.deleted[key] = removed[T]{entry: e, index: i}
	gen := c.gen
	c.mu.Unlock()

	err := remote(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	rm, ok := c.deleted[key]
	if c.gen != gen || !ok {
		c.discard(ctx, "delete", err)
		return staleError(err)
	}
	delete(c.deleted, key)

	if err != nil {
		if c.indexOf(key) < 0 {
			rm.entry.updates = 0
			idx := min(rm.index, len(c.entries))
			c.entries = slices.Insert(c.entries, idx, rm.entry)
		}
		c.rollback(ctx, "delete", key, err)
		return err
	}
	c.confirm("delete")
	return nil
}

func (c *Collection[T]) indexOf(key string) int {
	for i, e := range c.entries {
		if e.key == key {
			return i
		}
	}
	return -1
}

// sortLocked orders entries newest first. Equal timestamps keep their
// relative order.
func (c *Collection[T]) sortLocked() {
	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.entries[i].item.Timestamp().After(c.entries[j].item.Timestamp())
	})
}

// placeLocked inserts e after every confirmed entity that is not older.
// Drafts still in flight are skipped so they stay at the head.
func (c *Collection[T]) placeLocked(e entry[T]) {
	ts := e.item.Timestamp()
	for j, cur := range c.entries {
		if !cur.insert && cur.item.Timestamp().Before(ts) {
			c.entries = slices.Insert(c.entries, j, e)
			return
		}
	}
	c.entries = append(c.entries, e)
}

// staleError is nil when the server accepted the change: it happened even
// though the local result was dropped.
func staleError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrStale, err)
}

func (c *Collection[T]) confirm(op string) {
	c.observe(op, OutcomeConfirmed)
}

func (c *Collection[T]) rollback(ctx context.Context, op, key string, err error) {
	c.logger.Warn(ctx, "optimistic change rolled back", "op", op, "key", key, "error", err)
	c.observe(op, OutcomeRolledBack)
}

func (c *Collection[T]) discard(ctx context.Context, op string, err error) {
	c.logger.Debug(ctx, "stale result discarded", "op", op, "error", err)
	c.observe(op, OutcomeDiscarded)
}

func (c *Collection[T]) observe(op string, outcome Outcome) {
	if c.observer != nil {
		c.observer.ObserveOptimistic(c.name, op, outcome)
	}
}
