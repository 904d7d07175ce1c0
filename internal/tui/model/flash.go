package model

import (
	"sync"
	"time"
)

// Flash holds the transient status-bar message.
type Flash struct {
	mu      sync.RWMutex
	message string
	isErr   bool
	expires time.Time
}

// Set stores an informational flash that expires after the given duration.
func (f *Flash) Set(msg string, d time.Duration) {
	f.store(msg, d, false)
}

// SetError stores an error flash. Errors render highlighted in the
// status bar.
func (f *Flash) SetError(msg string, d time.Duration) {
	f.store(msg, d, true)
}

func (f *Flash) store(msg string, d time.Duration, isErr bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = msg
	f.isErr = isErr
	f.expires = time.Now().Add(d)
}

// Get returns the current flash message and whether it is an error.
// Expired flashes read as empty.
func (f *Flash) Get() (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if time.Now().After(f.expires) {
		return "", false
	}
	return f.message, f.isErr
}
