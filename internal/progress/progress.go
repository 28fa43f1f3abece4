package progress

import (
	"sync"

	"github.com/agbru/rootcalc/internal/logging"
)

// IterationUpdate describes one completed iteration of one solver.
type IterationUpdate struct {
	// SolverIndex identifies the solver when several run concurrently.
	SolverIndex int
	// Iteration is the 1-based step number.
	Iteration int
	// X is the candidate root produced by the step.
	X float64
	// Change is the absolute change from the previous iterate.
	Change float64
	// Done is set on the final update a solver sends.
	Done bool
}

// Callback receives updates for a single solver.
type Callback func(IterationUpdate)

// Observer is notified of iteration updates.
type Observer interface {
	Update(update IterationUpdate)
}

// Subject fans updates out to registered observers.
type Subject struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewSubject returns a Subject with no observers.
func NewSubject() *Subject {
	return &Subject{}
}

// Register adds an observer. Nil observers are ignored.
func (s *Subject) Register(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Freeze snapshots the current observers and returns a lock-free callback
// that stamps each update with index before notifying them. Observers
// registered after Freeze are not notified by the returned callback.
func (s *Subject) Freeze(index int) Callback {
	s.mu.RLock()
	snapshot := make([]Observer, len(s.observers))
	copy(snapshot, s.observers)
	s.mu.RUnlock()

	return func(u IterationUpdate) {
		u.SolverIndex = index
		for _, o := range snapshot {
			o.Update(u)
		}
	}
}

// ChannelObserver forwards updates to a channel without blocking. Updates
// are dropped when the channel is full, except Done updates, which block so
// that consumers always see completion.
type ChannelObserver struct {
	ch chan<- IterationUpdate
}

// NewChannelObserver returns an observer writing to ch.
func NewChannelObserver(ch chan<- IterationUpdate) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// Update implements Observer.
func (o *ChannelObserver) Update(u IterationUpdate) {
	if o.ch == nil {
		return
	}
	if u.Done {
		o.ch <- u
		return
	}
	select {
	case o.ch <- u:
	default:
	}
}

// LoggingObserver writes every update to a logger at debug level.
type LoggingObserver struct {
	logger logging.Logger
}

// NewLoggingObserver returns an observer logging to logger.
func NewLoggingObserver(logger logging.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// Update implements Observer.
func (o *LoggingObserver) Update(u IterationUpdate) {
	fields := []logging.Field{
		logging.Int("solver", u.SolverIndex),
		logging.Int("iteration", u.Iteration),
		logging.Float64("x", u.X),
		logging.Float64("change", u.Change),
	}
	if u.Done {
		o.logger.Debug("solver done", fields...)
		return
	}
	o.logger.Debug("iteration", fields...)
}
