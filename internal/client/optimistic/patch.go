package optimistic

// Patch changes a fixed set of fields of an entity.
//
// Apply returns v with the change made. Restore returns current with the
// patched fields copied back from prior and every other field untouched.
// Neither may modify shared backing arrays of its arguments in place.
type Patch[T any] interface {
	Apply(v T) T
	Restore(current, prior T) T
}

type fieldPatch[T any] struct {
	apply   func(T) T
	restore func(current, prior T) T
}

func (p fieldPatch[T]) Apply(v T) T                { return p.apply(v) }
func (p fieldPatch[T]) Restore(current, prior T) T { return p.restore(current, prior) }

// Fields builds a Patch from a pair of functions.
func Fields[T any](apply func(T) T, restore func(current, prior T) T) Patch[T] {
	return fieldPatch[T]{apply: apply, restore: restore}
}
