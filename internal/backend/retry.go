package backend

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// OpenFunc constructs a Backend, failing on transient conditions (disk not
// yet mounted, lock contention from a still-closing prior process).
type OpenFunc func() (Backend, error)

// OpenWithRetry retries open with exponential backoff up to maxElapsed,
// so a transient open failure does not abort the run the way a genuine
// configuration error should. Exhausting the budget still surfaces as a
// plain error per the "backend open errors abort" contract.
func OpenWithRetry(open OpenFunc, maxElapsed time.Duration) (Backend, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = maxElapsed

	var be Backend
	err := backoff.Retry(func() error {
		b, err := open()
		if err != nil {
			return err
		}
		be = b
		return nil
	}, bo)
	if err != nil {
		return nil, fmt.Errorf("backend: failed to open after retries: %w", err)
	}
	return be, nil
}
