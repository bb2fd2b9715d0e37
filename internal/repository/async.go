package repository

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
)

const saveTimeout = 5 * time.Second

// AsyncSaver writes room snapshots on its own goroutine. Save never blocks: a newer
// snapshot replaces one that has not been written yet, so the store always ends up
// with the latest state. Failures are logged and dropped.
type AsyncSaver struct {
	logger *slog.Logger
	repo   RoomRepository

	mu      sync.Mutex
	pending entity.RoomSet
	wake    chan struct{}
	done    chan struct{}
}

func NewAsyncSaver(logger *slog.Logger, repo RoomRepository) *AsyncSaver {
	return &AsyncSaver{
		logger: logger.With("component", "async-saver"),
		repo:   repo,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Save - queues rooms for writing. The caller must not modify rooms afterwards.
func (that *AsyncSaver) Save(rooms entity.RoomSet) {
	that.mu.Lock()
	that.pending = rooms
	that.mu.Unlock()

	select {
	case that.wake <- struct{}{}:
	default:
	}
}

// Run - writes queued snapshots until ctx is canceled, then flushes the last one.
// Canceling ctx stops the loop but never aborts a write.
func (that *AsyncSaver) Run(ctx context.Context) {
	defer close(that.done)

	for {
		select {
		case <-that.wake:
			that.flush(ctx)
		case <-ctx.Done():
			that.flush(ctx)
			return
		}
	}
}

// Done - closed once Run has returned.
func (that *AsyncSaver) Done() <-chan struct{} {
	return that.done
}

func (that *AsyncSaver) flush(ctx context.Context) {
	that.mu.Lock()
	rooms := that.pending
	that.pending = nil
	that.mu.Unlock()

	if rooms == nil {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := that.repo.SaveAll(saveCtx, rooms); err != nil {
		that.logger.Error("failed to save rooms", "error", err, "rooms", len(rooms))
		return
	}

	that.logger.Debug("rooms saved", "rooms", len(rooms))
}
