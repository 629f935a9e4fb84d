package server

import (
	"context"

	"github.com/preston-bernstein/condensed-game-notifier/internal/poller"
)

// Scheduler is the slice of the cron poller the server drives.
type Scheduler interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}
