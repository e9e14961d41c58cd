// Package lock serializes writers on one aggregate (a poll's recounts and
// partial results, a booth's shifts) across goroutines or processes.
package lock

import (
	"context"
	"time"

	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
)

// Release frees a held lock. It is safe to call more than once.
type Release func()

// Locker grants exclusive access to a key. Acquire blocks until the lock is
// held, ctx ends, or the implementation's wait budget runs out; the last two
// return a CodeUnavailable error so callers can surface "busy, retry".
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

const defaultWait = 5 * time.Second

// PollKey is the aggregate key for ledger writes on one poll.
func PollKey(tenant id.TenantID, poll id.PollID) string {
	return "tally:lock:" + tenant.String() + ":poll:" + poll.String()
}

// BoothKey is the aggregate key for shift writes on one booth.
func BoothKey(tenant id.TenantID, booth id.BoothID) string {
	return "tally:lock:" + tenant.String() + ":booth:" + booth.String()
}

func busy(key string, cause error) error {
	return dErrors.Wrap(cause, dErrors.CodeUnavailable, "resource busy: "+key)
}
