// Package cache holds small in-process caches and their expiry loop.
package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Cleaner is implemented by caches that can drop expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically cleans the registered caches.
type Janitor struct {
	mu      sync.Mutex
	caches  []Cleaner
	stop    chan struct{}
	done    chan struct{}
	started bool
	once    sync.Once
}

func NewJanitor() *Janitor {
	return &Janitor{stop: make(chan struct{}), done: make(chan struct{})}
}

func (j *Janitor) Register(c Cleaner) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.caches = append(j.caches, c)
}

// Start runs the cleanup loop every interval until Stop.
func (j *Janitor) Start(interval time.Duration) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started {
		return
	}
	j.started = true
	go j.loop(interval)
}

func (j *Janitor) loop(interval time.Duration) {
	defer close(j.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := j.Clean(); n > 0 {
				slog.Debug("Expired cache entries removed", "count", n)
			}
		case <-j.stop:
			return
		}
	}
}

// Clean runs one cleanup pass and returns the number of removed entries.
func (j *Janitor) Clean() int {
	j.mu.Lock()
	caches := append([]Cleaner(nil), j.caches...)
	j.mu.Unlock()
	total := 0
	for _, c := range caches {
		total += c.CleanExpired()
	}
	return total
}

// Stop ends the cleanup loop and waits for it to exit. A stopped janitor
// cannot be restarted.
func (j *Janitor) Stop() {
	j.mu.Lock()
	started := j.started
	j.mu.Unlock()
	j.once.Do(func() { close(j.stop) })
	if started {
		<-j.done
	}
}
