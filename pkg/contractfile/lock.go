package contractfile

import (
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// lockPath is the advisory lock file alongside the contract file itself
// (name.json.lock), so concurrent writers contend on the same inode
// without the contract file itself needing to support O_EXCL semantics.
func lockPath(contractPath string) string {
	return contractPath + ".lock"
}

// acquireLock takes an exclusive advisory lock on the contract file's
// sibling lock file, retrying with exponential backoff (50ms, 100ms,
// 200ms, ... capped at 2s) for up to ten attempts before giving up. The
// caller must Unlock the returned handle.
func acquireLock(contractPath string) (*flock.Flock, error) {
	fl := flock.New(lockPath(contractPath))
	delay := 50 * time.Millisecond
	const maxDelay = 2 * time.Second
	const maxAttempts = 10

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		locked, err := fl.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire lock on %s: %w", lockPath(contractPath), err)
		}
		if locked {
			return fl, nil
		}
		if attempt == maxAttempts {
			break
		}
		time.Sleep(delay)
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return nil, fmt.Errorf("timed out waiting for lock on %s after %d attempts", lockPath(contractPath), maxAttempts)
}
