package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/config"
)

func TestMemoryReportCache(t *testing.T) {
	ctx := context.Background()

	t.Run("get returns what was set", func(t *testing.T) {
		c := NewMemoryReportCache()
		require.NoError(t, c.Set(ctx, "report:trial-balance:2024-03-31", []byte(`{"rows":[]}`), time.Minute))

		value, ok, err := c.Get(ctx, "report:trial-balance:2024-03-31")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte(`{"rows":[]}`), value)
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		c := NewMemoryReportCache()

		_, ok, err := c.Get(ctx, "report:balance-sheet:2024-03-31")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		c := NewMemoryReportCache()
		require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Second))

		_, ok, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set overwrites an existing key", func(t *testing.T) {
		c := NewMemoryReportCache()
		require.NoError(t, c.Set(ctx, "k", []byte("old"), time.Minute))
		require.NoError(t, c.Set(ctx, "k", []byte("new"), time.Minute))

		value, ok, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("new"), value)
	})

	t.Run("flush drops everything", func(t *testing.T) {
		c := NewMemoryReportCache()
		require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
		require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))

		require.NoError(t, c.Flush(ctx))

		_, ok, err := c.Get(ctx, "a")
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, err = c.Get(ctx, "b")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

type flushRecorder struct {
	flushes int
	err     error
}

func (f *flushRecorder) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (f *flushRecorder) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (f *flushRecorder) Flush(context.Context) error {
	f.flushes++
	return f.err
}

func postedEvent() shared.DomainEvent {
	return &accounting.JournalEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			accounting.EventTypeJournalEntryPosted, "JournalEntry", uuid.New(), time.Now().UTC()),
	}
}

func TestReportInvalidationHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("subscribes to posting and reversal events", func(t *testing.T) {
		handler := NewReportInvalidationHandler(NewMemoryReportCache(), zap.NewNop())

		assert.ElementsMatch(t, []string{
			accounting.EventTypeJournalEntryPosted,
			accounting.EventTypeJournalEntryReversed,
		}, handler.EventTypes())
	})

	t.Run("flushes the cache on event", func(t *testing.T) {
		recorder := &flushRecorder{}
		handler := NewReportInvalidationHandler(recorder, zap.NewNop())

		require.NoError(t, handler.Handle(ctx, postedEvent()))
		assert.Equal(t, 1, recorder.flushes)
	})

	t.Run("propagates flush failures", func(t *testing.T) {
		recorder := &flushRecorder{err: errors.New("backend down")}
		handler := NewReportInvalidationHandler(recorder, zap.NewNop())

		assert.Error(t, handler.Handle(ctx, postedEvent()))
	})

	t.Run("nil cache is a no-op", func(t *testing.T) {
		handler := NewReportInvalidationHandler(nil, zap.NewNop())

		assert.NoError(t, handler.Handle(ctx, postedEvent()))
	})
}

func TestNewReportCache(t *testing.T) {
	t.Run("none disables caching", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Cache.Backend = "none"

		assert.Nil(t, NewReportCache(cfg, zap.NewNop()))
	})

	t.Run("memory backend", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Cache.Backend = "memory"

		cache := NewReportCache(cfg, zap.NewNop())
		assert.IsType(t, &MemoryReportCache{}, cache)
	})
}
