package calendar

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the lifecycle of the booking list for the current view.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// DayLoad is one fetched day: the placeable bookings and the issues found while reading them.
type DayLoad struct {
	Bookings []Booking
	Issues   []DataQualityIssue
}

// BookingFetcher loads the enriched bookings of one day. professionalID is AllProfessionals or an ID.
type BookingFetcher interface {
	FetchBookings(ctx context.Context, dateKey, professionalID string) (DayLoad, error)
}

// Snapshot is a point-in-time copy of the store.
type Snapshot struct {
	State      State
	View       ViewState
	Bookings   []Booking
	// Issues belong to Bookings: they come from the same load.
	Issues     []DataQualityIssue
	Err        error
	Generation uint64
	UpdatedAt  time.Time
}

// ErrorHook is told about every reload failure that was not superseded.
type ErrorHook func(view ViewState, err error)

type StoreOption func(*Store)

// WithErrorHook registers a hook for transient reload failures.
func WithErrorHook(hook ErrorHook) StoreOption {
	return func(s *Store) { s.onError = hook }
}

// WithClock overrides time.Now for UpdatedAt stamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// Store owns the booking list of the viewed day and keeps it current.
//
// Every reload is tagged with a generation number taken under mu together with the view it
// loads; a result is applied only if its generation is still the latest, so a slow reload for a
// previous day can never overwrite a newer one.
type Store struct {
	ctx     context.Context
	fetcher BookingFetcher
	log     *zap.Logger
	onError ErrorHook
	now     func() time.Time

	mu         sync.RWMutex
	generation uint64
	state      State
	view       ViewState
	bookings   []Booking
	issues     []DataQualityIssue
	lastErr    error
	updatedAt  time.Time

	// good is the most recent successful load and the view it belongs to.
	good     DayLoad
	goodView ViewState
	hasGood  bool

	// settled is closed and replaced whenever a reload starts or finishes.
	settled  chan struct{}
	inflight int
}

// NewStore builds an idle store. Reloads run under ctx.
func NewStore(ctx context.Context, fetcher BookingFetcher, log *zap.Logger, opts ...StoreOption) *Store {
	s := &Store{
		ctx:     ctx,
		fetcher: fetcher,
		log:     log.With(zap.String("component", "booking_store")),
		now:     time.Now,
		state:   StateIdle,
		settled: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectView replaces the view wholesale and reloads it.
func (s *Store) SelectView(view ViewState) uint64 {
	view = NewViewState(view.Day, view.ProfessionalFilter)
	return s.startReload(func(ViewState) (ViewState, bool) { return view, true })
}

// SelectDate keeps the current professional filter and moves to day.
func (s *Store) SelectDate(day Date) uint64 {
	return s.startReload(func(cur ViewState) (ViewState, bool) {
		return NewViewState(day, cur.ProfessionalFilter), true
	})
}

// SelectProfessionalFilter keeps the current day and changes the filter.
func (s *Store) SelectProfessionalFilter(professionalID string) uint64 {
	return s.startReload(func(cur ViewState) (ViewState, bool) {
		if cur.Day.IsZero() {
			return ViewState{}, false
		}
		return NewViewState(cur.Day, professionalID), true
	})
}

// Refresh reloads the current view in full. It is a no-op (returning 0) while idle.
func (s *Store) Refresh() uint64 {
	return s.startReload(func(cur ViewState) (ViewState, bool) {
		return cur, !cur.Day.IsZero()
	})
}

// Run consumes change events until ctx is done or events is closed, reloading on each one.
func (s *Store) Run(ctx context.Context, events <-chan ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.log.Debug("Booking change received",
				zap.String("source", ev.Source),
				zap.String("operation", ev.Operation),
				zap.String("booking_id", ev.BookingID),
			)
			s.Refresh()
		}
	}
}

// Wait blocks until no reload is in flight (each one applied or dropped).
func (s *Store) Wait() {
	for {
		s.mu.RLock()
		idle := s.inflight == 0
		settled := s.settled
		s.mu.RUnlock()

		if idle {
			return
		}
		<-settled
	}
}

// Await blocks until reload gen has settled or been superseded, or ctx is done, then returns
// the current snapshot. The returned error is ctx's.
func (s *Store) Await(ctx context.Context, gen uint64) (Snapshot, error) {
	for {
		s.mu.RLock()
		done := s.generation != gen || s.state != StateLoading
		settled := s.settled
		s.mu.RUnlock()

		if done {
			return s.Snapshot(), nil
		}
		select {
		case <-settled:
		case <-ctx.Done():
			return s.Snapshot(), ctx.Err()
		}
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]Booking, len(s.bookings))
	copy(bookings, s.bookings)
	issues := make([]DataQualityIssue, len(s.issues))
	copy(issues, s.issues)

	return Snapshot{
		State:      s.state,
		View:       s.view,
		Bookings:   bookings,
		Issues:     issues,
		Err:        s.lastErr,
		Generation: s.generation,
		UpdatedAt:  s.updatedAt,
	}
}

func (s *Store) startReload(next func(cur ViewState) (ViewState, bool)) uint64 {
	s.mu.Lock()
	view, ok := next(s.view)
	if !ok {
		s.mu.Unlock()
		return 0
	}
	s.generation++
	gen := s.generation
	s.view = view
	s.state = StateLoading
	s.lastErr = nil
	s.setDay(s.retained(view))
	s.inflight++
	s.broadcastLocked()
	s.mu.Unlock()

	go s.reload(gen, view)
	return gen
}

func (s *Store) reload(gen uint64, view ViewState) {
	filter := AllProfessionals
	if !view.AllProfessionals() {
		filter = view.ProfessionalFilter
	}

	day, err := s.fetcher.FetchBookings(s.ctx, view.DateKey(), filter)

	applied, hook := s.apply(gen, view, day, err)
	switch {
	case !applied:
		s.log.Debug("Dropping stale reload",
			zap.Uint64("generation", gen),
			zap.String("date", view.DateKey()),
		)
	case err != nil:
		s.log.Warn("Booking reload failed",
			zap.Error(err),
			zap.String("date", view.DateKey()),
			zap.String("professional", filter),
			zap.Uint64("generation", gen),
		)
		if hook != nil {
			hook(view, err)
		}
	default:
		s.log.Info("Bookings reloaded",
			zap.String("date", view.DateKey()),
			zap.String("professional", filter),
			zap.Int("count", len(day.Bookings)),
			zap.Int("issues", len(day.Issues)),
			zap.Uint64("generation", gen),
		)
	}
}

// apply stores the result of reload gen unless a newer reload has started since.
func (s *Store) apply(gen uint64, view ViewState, day DayLoad, err error) (bool, ErrorHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.broadcastLocked()

	s.inflight--
	if gen != s.generation {
		return false, nil
	}

	s.updatedAt = s.now()
	if err != nil {
		s.state = StateError
		s.lastErr = err
		s.setDay(s.retained(view))
	} else {
		s.state = StateReady
		s.setDay(day)
		s.good = day
		s.goodView = view
		s.hasGood = true
	}
	return true, s.onError
}

// broadcastLocked wakes every Await and Wait. Caller holds mu for writing.
func (s *Store) broadcastLocked() {
	close(s.settled)
	s.settled = make(chan struct{})
}

// retained is the day shown while view loads or after it failed: the last good load when it
// was for the same view, otherwise nothing. Caller holds mu.
func (s *Store) retained(view ViewState) DayLoad {
	if s.hasGood && s.goodView == view {
		return s.good
	}
	return DayLoad{}
}

// setDay replaces the shown bookings and their issues together. Caller holds mu.
func (s *Store) setDay(day DayLoad) {
	s.bookings = day.Bookings
	s.issues = day.Issues
}
