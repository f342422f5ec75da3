package cmd

import (
	"fmt"

	"github.com/gofrs/flock"
)

// acquireLock takes the writer lock at path without blocking. The returned
// func releases it.
func acquireLock(path string) (func(), error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("another relationship-manager process holds %s", path)
	}
	return func() { _ = lock.Unlock() }, nil
}
