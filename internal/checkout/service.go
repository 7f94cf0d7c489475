package checkout

import (
	"context"
	"errors"

	"circustix/internal/layout"
	"circustix/internal/pricing"
	"circustix/internal/reservations"
	"circustix/internal/seatmap"
)

// ZoomAction is a viewport command
type ZoomAction string

const (
	ZoomIn  ZoomAction = "in"
	ZoomOut ZoomAction = "out"
	ZoomPan ZoomAction = "pan"
)

type Service interface {
	// Sessions
	CreateSession(ctx context.Context, showContext string) (*SessionView, error)
	GetSession(ctx context.Context, id string) (*SessionView, error)
	DeleteSession(ctx context.Context, id string) error

	// Seat map
	SelectSection(ctx context.Context, id, section string) (*SessionView, error)
	ClickSeat(ctx context.Context, id, seatID string) (seatmap.ClickResult, *SessionView, error)
	ClickPoint(ctx context.Context, id string, p layout.Point) (*SessionView, error)
	ResetView(ctx context.Context, id string) (*SessionView, error)
	Zoom(ctx context.Context, id string, action ZoomAction, dx, dy float64) (*SessionView, error)

	// Checkout steps
	Proceed(ctx context.Context, id string) (*SessionView, error)
	AssignCounts(ctx context.Context, id string, counts pricing.Counts) (*SessionView, error)
	AssignSeat(ctx context.Context, id, seatID string, t pricing.TicketType) (*SessionView, error)
	Advance(ctx context.Context, id string) (*SessionView, error)
	Back(ctx context.Context, id string) (*SessionView, error)
	Pay(ctx context.Context, id string, details PaymentDetails) (*Confirmation, error)
	Cancel(ctx context.Context, id string) (*SessionView, error)
}

type service struct {
	sessions  *Sessions
	occupancy seatmap.OccupancyReader
}

func NewService(sessions *Sessions) Service {
	return &service{sessions: sessions, occupancy: sessions.occupancy}
}

func (s *service) view(session *Session) *SessionView {
	return &SessionView{
		ID:        session.ID,
		SeatMap:   session.View.Snapshot(),
		Checkout:  session.Flow.Snapshot(),
		ExpiresAt: s.sessions.ExpiresAt(session),
	}
}

func (s *service) CreateSession(ctx context.Context, showContext string) (*SessionView, error) {
	session, err := s.sessions.Create(ctx, showContext)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *service) GetSession(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *service) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// SelectSection focuses a section by name, falling back to its slug
func (s *service) SelectSection(ctx context.Context, id, section string) (*SessionView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	name := section
	if _, ok := session.View.Layout().Section(name); !ok {
		if sec, ok := session.View.Layout().SectionBySlug(section); ok {
			name = sec.Name
		}
	}
	if err := session.View.SelectSection(name); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// ClickSeat toggles a seat. The selection is frozen once checkout has begun.
func (s *service) ClickSeat(ctx context.Context, id, seatID string) (seatmap.ClickResult, *SessionView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return "", nil, err
	}
	if step := session.Flow.Step(); step != StepSeatSelection {
		return "", nil, transitionError("change seats", step)
	}

	result, err := session.View.ClickSeat(seatID)
	if err != nil {
		return "", nil, err
	}
	return result, s.view(session), nil
}

func (s *service) ClickPoint(ctx context.Context, id string, p layout.Point) (*SessionView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if _, err := session.View.ClickPoint(p); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *service) ResetView(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	session.View.Reset()
	return s.view(session), nil
}

func (s *service) Zoom(ctx context.Context, id string, action ZoomAction, dx, dy float64) (*SessionView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	switch action {
	case ZoomIn:
		session.View.ZoomIn()
	case ZoomOut:
		session.View.ZoomOut()
	case ZoomPan:
		session.View.Pan(dx, dy)
	default:
		return nil, ErrInvalidZoom
	}
	return s.view(session), nil
}

// Proceed holds the selection and starts ticket type assignment. Losing the
// race for a seat refreshes occupancy so the buyer sees what was taken.
func (s *service) Proceed(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	seats, err := session.View.Proceed()
	if err != nil {
		return nil, err
	}
	if err := session.Flow.Begin(ctx, seats); err != nil {
		if errors.Is(err, reservations.ErrHoldConflict) {
			s.refresh(ctx, session)
		}
		return nil, err
	}
	return s.view(session), nil
}

func (s *service) AssignCounts(ctx context.Context, id string, counts pricing.Counts) (*SessionView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if err := session.Flow.AssignCounts(counts); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *service) AssignSeat(ctx context.Context, id, seatID string, t pricing.TicketType) (*SessionView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if t == "" {
		err = session.Flow.UnassignSeat(seatID)
	} else {
		err = session.Flow.AssignSeat(seatID, t)
	}
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *service) Advance(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if err := session.Flow.Advance(); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *service) Back(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if err := session.Flow.Back(ctx); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// Pay completes the checkout. A successful payment empties the selection and
// marks the bought seats as taken on the buyer's map.
func (s *service) Pay(ctx context.Context, id string, details PaymentDetails) (*Confirmation, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	confirmation, err := session.Flow.Pay(ctx, details)
	if err != nil {
		if errors.Is(err, reservations.ErrHoldConflict) {
			s.refresh(ctx, session)
		}
		return nil, err
	}

	session.View.Clear()
	occupied := append(session.View.Snapshot().Occupied, confirmation.Order.SeatIDs()...)
	session.View.SetOccupied(occupied)
	return confirmation, nil
}

func (s *service) Cancel(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if err := session.Flow.Cancel(ctx); err != nil {
		return nil, err
	}
	session.View.Clear()
	return s.view(session), nil
}

func (s *service) refresh(ctx context.Context, session *Session) {
	if s.occupancy == nil {
		return
	}
	if _, err := session.View.LoadOccupancy(ctx, s.occupancy); err != nil {
		s.sessions.log.WithError(err).WarnContext(ctx, "Failed to refresh occupancy", "session_id", session.ID)
	}
}
