package reservations

import (
	"context"
	"sort"
	"sync"
	"time"
)

// HoldStore grants and expires seat holds. Acquire is all-or-nothing: either
// every seat is granted to the holder or none is and the conflicting seats
// come back in a *HoldConflictError.
type HoldStore interface {
	Acquire(ctx context.Context, showContext, holder string, seatIDs []string, ttl time.Duration) (time.Time, error)
	// Release drops holds; an empty holder releases whoever owns them
	Release(ctx context.Context, showContext, holder string, seatIDs []string) error
	// Live lists unexpired holds and purges expired ones of that context
	Live(ctx context.Context, showContext string) ([]Hold, error)
	// Purge drops every expired hold and reports how many went
	Purge(ctx context.Context) (int, error)
}

type memoryHoldStore struct {
	mu    sync.Mutex
	holds map[string]map[string]Hold // show context -> seat id -> hold
	now   func() time.Time
}

// NewMemoryHoldStore keeps holds in process memory
func NewMemoryHoldStore(now func() time.Time) HoldStore {
	if now == nil {
		now = time.Now
	}
	return &memoryHoldStore{holds: make(map[string]map[string]Hold), now: now}
}

func (m *memoryHoldStore) Acquire(ctx context.Context, showContext, holder string, seatIDs []string, ttl time.Duration) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	byseat := m.holds[showContext]

	var conflicts []string
	for _, id := range seatIDs {
		if h, ok := byseat[id]; ok && h.Live(now) && h.Holder != holder {
			conflicts = append(conflicts, id)
		}
	}
	if len(conflicts) > 0 {
		return time.Time{}, &HoldConflictError{ShowContext: showContext, SeatIDs: conflicts}
	}

	if byseat == nil {
		byseat = make(map[string]Hold)
		m.holds[showContext] = byseat
	}
	expiresAt := now.Add(ttl)
	for _, id := range seatIDs {
		byseat[id] = Hold{ShowContext: showContext, SeatID: id, Holder: holder, ExpiresAt: expiresAt}
	}
	return expiresAt, nil
}

func (m *memoryHoldStore) Release(ctx context.Context, showContext, holder string, seatIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byseat := m.holds[showContext]
	for _, id := range seatIDs {
		if h, ok := byseat[id]; ok && (holder == "" || h.Holder == holder) {
			delete(byseat, id)
		}
	}
	if len(byseat) == 0 {
		delete(m.holds, showContext)
	}
	return nil
}

func (m *memoryHoldStore) Live(ctx context.Context, showContext string) ([]Hold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var out []Hold
	for id, h := range m.holds[showContext] {
		if h.Live(now) {
			out = append(out, h)
		} else {
			delete(m.holds[showContext], id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatID < out[j].SeatID })
	return out, nil
}

func (m *memoryHoldStore) Purge(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	purged := 0
	for sc, byseat := range m.holds {
		for id, h := range byseat {
			if !h.Live(now) {
				delete(byseat, id)
				purged++
			}
		}
		if len(byseat) == 0 {
			delete(m.holds, sc)
		}
	}
	return purged, nil
}
