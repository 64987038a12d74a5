package content

import (
	"context"
	"errors"
	"time"

	"clozedojo/internal/passage"

	"github.com/cenkalti/backoff/v4"
)

type Retry struct {
	// Attempts is the total number of fetches, first try included.
	Attempts int
	Base     time.Duration
	// OnAttempt observes every failed attempt; attempt counts from 1.
	OnAttempt func(attempt int, err error)
}

func DefaultRetry() Retry {
	return Retry{Attempts: 3, Base: 100 * time.Millisecond}
}

// FetchWithRetry fetches ref, retrying transient failures with exponential
// backoff up to the attempt limit, and returns the passage normalized.
func FetchWithRetry(ctx context.Context, src Source, ref Ref, r Retry) (passage.Passage, error) {
	if r.Attempts <= 0 {
		r.Attempts = 1
	}
	if r.Base <= 0 {
		r.Base = 100 * time.Millisecond
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.Base
	b.MaxInterval = 8 * r.Base
	b.MaxElapsedTime = 0

	var got passage.Passage
	attempt := 0
	op := func() error {
		attempt++
		p, err := src.Fetch(ctx, ref)
		if err == nil {
			got = p
			return nil
		}
		if r.OnAttempt != nil {
			r.OnAttempt(attempt, err)
		}
		if errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.Attempts-1)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return passage.Passage{}, err
	}
	return passage.Normalize(got), nil
}
