package services

import (
	"context"
	"log"
	"sync"

	"advocate_office_go/db"
	"advocate_office_go/models"
)

// FetchSequencer orders re-fetch responses by request-issue order. A response
// commits only if no newer request has already been applied, so a slow stale
// response can never overwrite fresher data.
type FetchSequencer struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// Begin registers a new fetch and returns its sequence number
func (s *FetchSequencer) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit applies a completed fetch unless a newer one already committed.
// Returns false when the response was discarded as stale.
func (s *FetchSequencer) Commit(seq uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		return false
	}
	s.applied = seq
	if apply != nil {
		apply()
	}
	return true
}

// CaseFetchFunc loads the current litigation case collection
type CaseFetchFunc func(ctx context.Context) ([]models.LitigationCase, error)

// CaseWatcher keeps an in-memory snapshot of the litigation case list current
// by re-fetching on every change notification. Overlapping re-fetches are
// sequenced; a stale response arriving after a newer one is discarded.
type CaseWatcher struct {
	fetch CaseFetchFunc
	sub   *db.Subscription
	seq   FetchSequencer

	mu     sync.RWMutex
	latest []models.LitigationCase

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCaseWatcher subscribes to litigation_cases changes and starts watching.
// Stop must be called to release the subscription.
func NewCaseWatcher(notifier *db.Notifier, fetch CaseFetchFunc) *CaseWatcher {
	ctx, cancel := context.WithCancel(context.Background())

	w := &CaseWatcher{
		fetch:  fetch,
		sub:    notifier.Subscribe(models.LitigationCase{}.TableName()),
		cancel: cancel,
	}

	// Initial load, then one re-fetch per change event
	w.refetch(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-w.sub.C:
				if !ok {
					return
				}
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					w.refetch(ctx)
				}()
			}
		}
	}()

	return w
}

func (w *CaseWatcher) refetch(ctx context.Context) {
	seq := w.seq.Begin()

	cases, err := w.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("[WARNING] Case re-fetch failed: %v", err)
		}
		return
	}

	w.seq.Commit(seq, func() {
		w.mu.Lock()
		w.latest = cases
		w.mu.Unlock()
	})
}

// Snapshot returns the most recently applied case collection
func (w *CaseWatcher) Snapshot() []models.LitigationCase {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest
}

// Stop cancels the subscription and waits for in-flight re-fetches
func (w *CaseWatcher) Stop() {
	w.cancel()
	w.sub.Cancel()
	w.wg.Wait()
}
