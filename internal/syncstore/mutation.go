package syncstore

import "context"

// Mutate runs the speculative-mutation protocol against key:
//
//	lock key -> cancel in-flight reads -> snapshot -> apply speculative
//	value -> remote call -> invalidate on success, restore snapshot on
//	failure.
//
// apply receives the current cached value (zero value of T when nothing is
// cached) and must return a new value rather than mutate shared state, so
// the snapshot stays byte-identical for rollback. The remote error is
// returned unchanged; classification is the caller's job.
func Mutate[T any](ctx context.Context, s *Store, key Key, apply func(T) T, remote func(context.Context) error) error {
	unlock := s.LockKey(key)
	defer unlock()

	s.CancelInFlight(key)

	snap, wasFresh, had := s.Get(key)
	var cur T
	if had {
		if v, ok := snap.(T); ok {
			cur = v
		}
	}

	s.Set(key, apply(cur))

	if err := remote(ctx); err != nil {
		if had {
			s.restore(key, snap, wasFresh)
		} else {
			s.Delete(key)
		}
		rollbacks.WithLabelValues(key.Kind).Inc()
		return err
	}

	// The speculative value stays visible but stale; the next read replaces
	// it with the authoritative rows, so a temporary id never persists.
	s.Invalidate(key)
	return nil
}

// Fetch implements the read side: serve a fresh entry from cache, otherwise
// go to the gateway and keep the result only if no mutation cancelled the
// read while it was in flight. On gateway failure the cache is left
// untouched so callers can keep showing stale data next to the error.
func Fetch[T any](ctx context.Context, s *Store, key Key, fetch func(context.Context) (T, error)) (T, error) {
	if v, fresh, ok := s.Get(key); ok && fresh {
		if t, ok := v.(T); ok {
			hits.WithLabelValues(key.Kind).Inc()
			return t, nil
		}
	}
	misses.WithLabelValues(key.Kind).Inc()

	gen := s.Generation(key)
	t, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if !s.CompleteFetch(key, gen, t) {
		// A mutation won the race; its speculative view supersedes ours.
		if v, _, ok := s.Get(key); ok {
			if cur, ok := v.(T); ok {
				return cur, nil
			}
		}
	}
	return t, nil
}
