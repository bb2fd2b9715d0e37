package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/testing/suite"
)

var errDiskFull = errors.New("disk full")

// flakyRepo fails the first failures calls to SaveAll and records the rest.
type flakyRepo struct {
	mu       sync.Mutex
	failures int
	saved    []entity.RoomSet
}

func (that *flakyRepo) LoadAll(_ context.Context) (entity.RoomSet, error) {
	return entity.RoomSet{}, nil
}

func (that *flakyRepo) SaveAll(_ context.Context, rooms entity.RoomSet) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.failures > 0 {
		that.failures--
		return errDiskFull
	}

	that.saved = append(that.saved, rooms)

	return nil
}

func (that *flakyRepo) last() entity.RoomSet {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.saved) == 0 {
		return nil
	}
	return that.saved[len(that.saved)-1]
}

// contextRepo refuses writes whose context is already done, like the real stores.
type contextRepo struct {
	flakyRepo
}

func (that *contextRepo) SaveAll(ctx context.Context, rooms entity.RoomSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return that.flakyRepo.SaveAll(ctx, rooms)
}

func TestAsyncSaver(t *testing.T) {
	t.Run("Writes the latest snapshot", func(t *testing.T) {
		// Given: a running saver
		repo := &flakyRepo{}
		saver := NewAsyncSaver(suite.NewLogger(), repo)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go saver.Run(ctx)

		// When: two snapshots are queued
		saver.Save(entity.RoomSet{"AAA": entity.NewRoom("AAA", time.Now())})
		saver.Save(entity.RoomSet{"BBB": entity.NewRoom("BBB", time.Now())})

		// Then: the store eventually holds the second one
		require.Eventually(t, func() bool {
			last := repo.last()
			return last != nil && last["BBB"] != nil
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("A failed write is logged and later writes proceed", func(t *testing.T) {
		// Given: a store that fails once
		repo := &flakyRepo{failures: 1}
		saver := NewAsyncSaver(suite.NewLogger(), repo)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go saver.Run(ctx)

		// When: the first save fails and a second one follows
		saver.Save(entity.RoomSet{"AAA": entity.NewRoom("AAA", time.Now())})
		require.Eventually(t, func() bool {
			repo.mu.Lock()
			defer repo.mu.Unlock()
			return repo.failures == 0
		}, time.Second, 10*time.Millisecond)
		saver.Save(entity.RoomSet{"CCC": entity.NewRoom("CCC", time.Now())})

		// Then: the second snapshot lands
		require.Eventually(t, func() bool {
			last := repo.last()
			return last != nil && last["CCC"] != nil
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("Flushes the pending snapshot on shutdown", func(t *testing.T) {
		// Given: a saver with a queued snapshot that has not started yet
		repo := &flakyRepo{}
		saver := NewAsyncSaver(suite.NewLogger(), repo)
		saver.Save(entity.RoomSet{"DDD": entity.NewRoom("DDD", time.Now())})

		// When: it runs with an already canceled context
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		saver.Run(ctx)

		// Then: the snapshot is written before Run returns
		<-saver.Done()
		assert.NotNil(t, repo.last()["DDD"])
	})

	t.Run("Shutdown never hands a canceled context to the store", func(t *testing.T) {
		for range 100 {
			// Given: a queued snapshot and a store that checks its context
			repo := &contextRepo{}
			saver := NewAsyncSaver(suite.NewLogger(), repo)
			saver.Save(entity.RoomSet{"DDD": entity.NewRoom("DDD", time.Now())})

			// When: Run starts after shutdown was requested
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			saver.Run(ctx)

			// Then: the snapshot is written whichever branch picked it up
			require.NotNil(t, repo.last()["DDD"])
		}
	})
}
