package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/games"
	"github.com/preston-bernstein/condensed-game-notifier/internal/notify"
	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
)

// StubResolver is a test double for providers.GameResolver.
type StubResolver struct {
	Record games.Record
	Found  bool
	Err    error
	Calls  atomic.Int32
	Notify chan struct{}

	mu      sync.Mutex
	Queries []providers.GameQuery
}

// LatestCompleted returns the configured record and error while tracking calls.
func (s *StubResolver) LatestCompleted(ctx context.Context, q providers.GameQuery) (games.Record, bool, error) {
	_ = ctx
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)
	s.mu.Lock()
	s.Queries = append(s.Queries, q)
	s.mu.Unlock()
	return s.Record, s.Found, s.Err
}

// StubLocator returns a fixed lookup result.
type StubLocator struct {
	Result providers.LookupResult
	Calls  atomic.Int32

	mu      sync.Mutex
	GameIDs []string
}

// Locate records the requested id and returns Result.
func (s *StubLocator) Locate(ctx context.Context, gameID string) providers.LookupResult {
	_ = ctx
	s.Calls.Add(1)
	s.mu.Lock()
	s.GameIDs = append(s.GameIDs, gameID)
	s.mu.Unlock()
	return s.Result
}

// Lookup lets the stub also stand in for a single providers.VideoStrategy.
func (s *StubLocator) Lookup(ctx context.Context, gameID string) providers.LookupResult {
	return s.Locate(ctx, gameID)
}

// Name identifies the stub as a strategy.
func (s *StubLocator) Name() string {
	return "stub"
}

// StubNotifier records messages and returns Err.
type StubNotifier struct {
	ID  string
	Err error

	mu       sync.Mutex
	Messages []notify.Message
}

func (s *StubNotifier) Name() string {
	if s.ID == "" {
		return "stub"
	}
	return s.ID
}

func (s *StubNotifier) Notify(ctx context.Context, msg notify.Message) error {
	_ = ctx
	s.mu.Lock()
	s.Messages = append(s.Messages, msg)
	s.mu.Unlock()
	return s.Err
}

// Sent returns a copy of the delivered messages.
func (s *StubNotifier) Sent() []notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Message(nil), s.Messages...)
}

// StubLedger is an in-memory ledger that counts reads and writes.
type StubLedger struct {
	AddErr error

	mu            sync.Mutex
	ids           map[string]struct{}
	ContainsCalls int
	AddCalls      int
}

// NewStubLedger seeds the ledger with ids.
func NewStubLedger(ids ...string) *StubLedger {
	l := &StubLedger{ids: make(map[string]struct{})}
	for _, id := range ids {
		l.ids[id] = struct{}{}
	}
	return l
}

func (l *StubLedger) Contains(ctx context.Context, gameID string) bool {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ContainsCalls++
	_, ok := l.ids[gameID]
	return ok
}

func (l *StubLedger) Add(ctx context.Context, gameID string) error {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	l.AddCalls++
	if l.AddErr != nil {
		return l.AddErr
	}
	l.ids[gameID] = struct{}{}
	return nil
}

// Has reports membership without counting a Contains call.
func (l *StubLedger) Has(gameID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.ids[gameID]
	return ok
}

// Size returns how many distinct ids are recorded.
func (l *StubLedger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}
