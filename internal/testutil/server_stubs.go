package testutil

import (
	"context"
	"net/http"
	"sync"
)

// StubHTTPServer stands in for the listener wrappers used by server wiring.
// ListenAndServe returns ListenErr immediately; Shutdown waits on Unblock
// when it is set.
type StubHTTPServer struct {
	AddrVal     string
	HandlerVal  http.Handler
	ListenErr   error
	ShutdownErr error
	Unblock     chan struct{}

	mu            sync.Mutex
	listenCalls   int
	shutdownCalls int
}

func (s *StubHTTPServer) ListenAndServe() error {
	s.mu.Lock()
	s.listenCalls++
	s.mu.Unlock()
	return s.ListenErr
}

func (s *StubHTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shutdownCalls++
	s.mu.Unlock()
	if s.Unblock != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.Unblock:
		}
	}
	return s.ShutdownErr
}

func (s *StubHTTPServer) Addr() string {
	if s.AddrVal == "" {
		return ":0"
	}
	return s.AddrVal
}

func (s *StubHTTPServer) Handler() http.Handler {
	if s.HandlerVal == nil {
		return http.NewServeMux()
	}
	return s.HandlerVal
}

// Calls returns how many times ListenAndServe and Shutdown ran.
func (s *StubHTTPServer) Calls() (listen, shutdown int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenCalls, s.shutdownCalls
}
