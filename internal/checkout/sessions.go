package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"circustix/internal/layout"
	"circustix/internal/seatmap"
	"circustix/pkg/logger"
)

// LayoutSource resolves the seat layout of a show context
type LayoutSource interface {
	Get(ctx context.Context, showContext string) (*layout.Layout, error)
}

// Session pairs one buyer's seat map with their checkout flow
type Session struct {
	ID   string
	View *seatmap.View
	Flow *Flow

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) expiresAt(ttl time.Duration) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Add(ttl)
}

// Sessions keeps live checkout sessions in memory. Idle sessions expire
// after the TTL and give their holds back.
type Sessions struct {
	layouts   LayoutSource
	occupancy seatmap.OccupancyReader
	deps      Dependencies
	ttl       time.Duration
	log       *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	scheduler gocron.Scheduler
}

func NewSessions(layouts LayoutSource, occupancy seatmap.OccupancyReader, deps Dependencies) *Sessions {
	deps = deps.withDefaults()
	ttl := deps.Config.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sessions{
		layouts:   layouts,
		occupancy: occupancy,
		deps:      deps,
		ttl:       ttl,
		log:       deps.Logger,
		sessions:  make(map[string]*Session),
	}
}

// Create opens a session on a show context with occupancy preloaded
func (s *Sessions) Create(ctx context.Context, showContext string) (*Session, error) {
	l, err := s.layouts.Get(ctx, showContext)
	if err != nil {
		return nil, err
	}

	view := seatmap.New(showContext, l, s.deps.Catalog)
	if s.occupancy != nil {
		if _, err := view.LoadOccupancy(ctx, s.occupancy); err != nil {
			s.log.WithError(err).WarnContext(ctx, "Session opened without occupancy", "show_context", showContext)
		}
	}

	session := &Session{
		ID:       uuid.NewString(),
		View:     view,
		Flow:     NewFlow(showContext, s.deps),
		lastSeen: s.deps.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.log.DebugWithContext(ctx, "Checkout session created", map[string]interface{}{
		"session_id":   session.ID,
		"show_context": showContext,
	})
	return session, nil
}

// Get returns a live session and refreshes its idle timer
func (s *Sessions) Get(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	session.touch(s.deps.Now())
	return session, nil
}

// Delete cancels the session's checkout and forgets it
func (s *Sessions) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if session.Flow.Snapshot().Processing {
		s.mu.Unlock()
		return ErrCheckoutInProgress
	}
	delete(s.sessions, id)
	s.mu.Unlock()

	if err := session.Flow.Cancel(ctx); err != nil && session.Flow.Step() != StepConfirmation {
		return err
	}
	return nil
}

// ExpiresAt reports when an idle session will be pruned
func (s *Sessions) ExpiresAt(session *Session) time.Time {
	return session.expiresAt(s.ttl)
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Prune drops idle sessions and releases their holds. Sessions with a
// payment in flight are left alone.
func (s *Sessions) Prune(ctx context.Context) int {
	now := s.deps.Now()

	var expired []*Session
	s.mu.Lock()
	for id, session := range s.sessions {
		if now.Before(session.expiresAt(s.ttl)) || session.Flow.Snapshot().Processing {
			continue
		}
		expired = append(expired, session)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, session := range expired {
		if session.Flow.Step() == StepConfirmation {
			continue
		}
		if err := session.Flow.Cancel(ctx); err != nil {
			s.log.WithError(err).WarnContext(ctx, "Failed to cancel expired session", "session_id", session.ID)
		}
	}
	if len(expired) > 0 {
		s.log.InfoWithContext(ctx, "Expired checkout sessions pruned", map[string]interface{}{"count": len(expired)})
	}
	return len(expired)
}

// StartPruning schedules Prune at the given interval
func (s *Sessions) StartPruning(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("prune interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			s.Prune(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule session pruning: %w", err)
	}

	s.scheduler = scheduler
	scheduler.Start()
	return nil
}

func (s *Sessions) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Shutdown()
}
