package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/condensed-game-notifier/internal/testutil"
)

type storeFactory func(t *testing.T) Store

func backends(t *testing.T) map[string]storeFactory {
	t.Helper()
	factories := map[string]storeFactory{
		BackendFile: func(t *testing.T) Store {
			s, err := OpenFile(filepath.Join(t.TempDir(), "notified.txt"))
			if err != nil {
				t.Fatalf("open file store: %v", err)
			}
			return s
		},
		BackendMemory: func(t *testing.T) Store {
			return NewMemoryStore()
		},
		BackendRedis: func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			return NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
		},
	}
	if dsn := os.Getenv("LEDGER_TEST_DATABASE_URL"); dsn != "" {
		factories[BackendPostgres] = func(t *testing.T) Store {
			s, err := OpenPostgres(context.Background(), dsn)
			if err != nil {
				t.Fatalf("open postgres store: %v", err)
			}
			if err := s.Reset(context.Background()); err != nil {
				t.Fatalf("reset postgres store: %v", err)
			}
			return s
		}
	}
	return factories
}

func TestLedgerBehaviourAcrossBackends(t *testing.T) {
	for name, factory := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			l := New(factory(t), name, nil)
			t.Cleanup(func() { _ = l.Close() })

			if l.Contains(ctx, "745623") {
				t.Fatalf("expected empty ledger")
			}
			if err := l.Add(ctx, "745623"); err != nil {
				t.Fatalf("expected add to succeed, got %v", err)
			}
			if !l.Contains(ctx, "745623") {
				t.Fatalf("expected id after add")
			}
			if l.Contains(ctx, "745624") {
				t.Fatalf("expected unrelated id to be absent")
			}

			if err := l.Add(ctx, "745623"); err != nil {
				t.Fatalf("expected duplicate add to be harmless, got %v", err)
			}
			if !l.Contains(ctx, "745623") {
				t.Fatalf("expected id after duplicate add")
			}

			if err := l.Add(ctx, "745624"); err != nil {
				t.Fatalf("expected add to succeed, got %v", err)
			}
			if err := l.Reset(ctx); err != nil {
				t.Fatalf("expected reset to succeed, got %v", err)
			}
			if l.Contains(ctx, "745623") || l.Contains(ctx, "745624") {
				t.Fatalf("expected empty ledger after reset")
			}
		})
	}
}

func TestLedgerRejectsInvalidIDs(t *testing.T) {
	l := New(&failingStore{}, "stub", nil)
	for _, id := range []string{"", "74 56", "7456\n"} {
		if err := l.Add(context.Background(), id); !errors.Is(err, ErrInvalidGameID) {
			t.Fatalf("expected ErrInvalidGameID for %q, got %v", id, err)
		}
	}
}

func TestLedgerContainsFailsOpen(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	l := New(&failingStore{err: errors.New("disk gone")}, "stub", logger)

	if l.Contains(context.Background(), "745623") {
		t.Fatalf("expected fail-open false")
	}
	if buf.Len() == 0 {
		t.Fatalf("expected a warning to be logged")
	}
	if _, err := l.Check(context.Background(), "745623"); err == nil {
		t.Fatalf("expected Check to surface the error")
	}
}

func TestLedgerNilStore(t *testing.T) {
	var l *Ledger
	if l.Contains(context.Background(), "1") {
		t.Fatalf("expected nil ledger to read as not notified")
	}
	if _, err := l.Check(context.Background(), "1"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from Check, got %v", err)
	}
	if err := l.Add(context.Background(), "1"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := l.Reset(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("expected nil close, got %v", err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, Config{Path: filepath.Join(t.TempDir(), "ledger", "ids.txt")}, nil)
	if err != nil {
		t.Fatalf("expected default file backend, got %v", err)
	}
	if l.Backend() != BackendFile {
		t.Fatalf("expected file backend, got %s", l.Backend())
	}

	mr := miniredis.RunT(t)
	rl, err := Open(ctx, Config{Backend: "Redis", RedisURL: "redis://" + mr.Addr() + "/0"}, nil)
	if err != nil {
		t.Fatalf("expected redis backend, got %v", err)
	}
	defer rl.Close()
	if rl.Backend() != BackendRedis {
		t.Fatalf("expected redis backend, got %s", rl.Backend())
	}

	cases := []Config{
		{Backend: "redis"},
		{Backend: "postgres"},
		{Backend: "sqlite"},
	}
	for _, cfg := range cases {
		if _, err := Open(ctx, cfg, nil); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestRedisStoreAfterClose(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "k")
	if err := s.Close(); err != nil {
		t.Fatalf("expected close to succeed, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("expected second close to be a no-op, got %v", err)
	}
	if _, err := s.Has(context.Background(), "1"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestRedisStoreUsesConfiguredKey(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "custom:key")
	if err := s.Add(context.Background(), "745623"); err != nil {
		t.Fatalf("expected add to succeed, got %v", err)
	}
	members, err := mr.Members("custom:key")
	if err != nil || len(members) != 1 || members[0] != "745623" {
		t.Fatalf("expected member in custom key, got %v err=%v", members, err)
	}
}

type failingStore struct {
	err error
}

func (f *failingStore) Has(ctx context.Context, gameID string) (bool, error) { return false, f.err }
func (f *failingStore) Add(ctx context.Context, gameID string) error         { return f.err }
func (f *failingStore) Reset(ctx context.Context) error                      { return f.err }
func (f *failingStore) Close() error                                         { return nil }
