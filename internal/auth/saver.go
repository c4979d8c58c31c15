package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/cermat/internal/catalog"
	"github.com/abhisek/cermat/internal/profile"
)

// Persister writes a learner's state. Service implements it.
type Persister interface {
	Save(ctx context.Context, identity string, p profile.Profile, c catalog.Catalog) error
}

// saveTimeout bounds one background write.
const saveTimeout = 5 * time.Second

type pendingSave struct {
	profile profile.Profile
	catalog catalog.Catalog
}

// Saver persists state in the background. Callers never wait for a write;
// when several snapshots of the same identity queue up only the latest is
// written. Failures are logged and dropped.
type Saver struct {
	persister Persister
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[string]pendingSave
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// NewSaver starts the background writer.
func NewSaver(p Persister, logger *slog.Logger) *Saver {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Saver{
		persister: p,
		logger:    logger,
		pending:   make(map[string]pendingSave),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	go s.run()
	return s
}

// Enqueue schedules a write of the given state. The state is copied, so the
// caller may keep mutating its own values.
func (s *Saver) Enqueue(identity string, p profile.Profile, c catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.logger.Warn("save after close dropped", "identity", identity)
		return
	}
	s.pending[identity] = pendingSave{profile: p.Clone(), catalog: c.Clone()}

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Close writes everything still pending and stops the writer.
func (s *Saver) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return nil
	}
	s.closed = true
	close(s.wake)
	s.mu.Unlock()

	<-s.done
	return nil
}

func (s *Saver) run() {
	defer close(s.done)
	for range s.wake {
		s.flush()
	}
	s.flush()
}

func (s *Saver) flush() {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[string]pendingSave)
	s.mu.Unlock()

	for identity, st := range batch {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := s.persister.Save(ctx, identity, st.profile, st.catalog)
		cancel()
		if err != nil {
			s.logger.Warn("background save failed", "identity", identity, "error", err)
		}
	}
}
