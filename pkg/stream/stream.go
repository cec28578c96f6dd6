// Package stream holds helpers for the lazy result sequences returned by
// repositories.
package stream

import (
	"errors"
	"iter"
	"sync/atomic"
)

// ErrSequenceConsumed is yielded when a single-use sequence is ranged again.
var ErrSequenceConsumed = errors.New("sequence already consumed")

// Once wraps seq so it can be ranged over a single time. Later ranges yield
// one ErrSequenceConsumed and stop.
func Once[T any](seq iter.Seq2[T, error]) iter.Seq2[T, error] {
	var used atomic.Bool
	return func(yield func(T, error) bool) {
		if used.Swap(true) {
			var zero T
			yield(zero, ErrSequenceConsumed)
			return
		}
		seq(yield)
	}
}

// Collect drains seq, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
