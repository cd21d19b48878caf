package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/ledger/internal/domain/shared"
)

type stubEvent struct {
	shared.BaseDomainEvent
}

func newStubEvent(eventType string) *stubEvent {
	return &stubEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New(), time.Now().UTC()),
	}
}

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func TestInMemoryEventBusPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to handler registered for the event type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler, "ledger.posted")

		evt := newStubEvent("ledger.posted")
		require.NoError(t, bus.Publish(ctx, evt))

		require.Len(t, handler.received, 1)
		assert.Equal(t, evt.EventID(), handler.received[0].EventID())
	})

	t.Run("does not deliver events of other types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler, "ledger.posted")

		require.NoError(t, bus.Publish(ctx, newStubEvent("ledger.created")))

		assert.Empty(t, handler.received)
	})

	t.Run("handler without declared types receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newStubEvent("ledger.posted"), newStubEvent("ledger.created")))

		assert.Len(t, handler.received, 2)
	})

	t.Run("subscription falls back to the handler's own event types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"ledger.posted"}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newStubEvent("ledger.posted")))
		require.NoError(t, bus.Publish(ctx, newStubEvent("ledger.created")))

		assert.Len(t, handler.received, 1)
	})

	t.Run("handler error does not fail the publish", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{err: errors.New("boom")}
		healthy := &recordingHandler{}
		bus.Subscribe(failing, "ledger.posted")
		bus.Subscribe(healthy, "ledger.posted")

		require.NoError(t, bus.Publish(ctx, newStubEvent("ledger.posted")))

		assert.Len(t, healthy.received, 1)
	})

	t.Run("handler panic is recovered", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{panics: true}
		healthy := &recordingHandler{}
		bus.Subscribe(panicking, "ledger.posted")
		bus.Subscribe(healthy, "ledger.posted")

		require.NoError(t, bus.Publish(ctx, newStubEvent("ledger.posted")))

		assert.Len(t, healthy.received, 1)
	})

	t.Run("unsubscribed handler stops receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler, "ledger.posted")

		require.NoError(t, bus.Publish(ctx, newStubEvent("ledger.posted")))
		bus.Unsubscribe(handler)
		require.NoError(t, bus.Publish(ctx, newStubEvent("ledger.posted")))

		assert.Len(t, handler.received, 1)
	})
}

func TestHandlerRegistryOrdering(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := &recordingHandler{}
	wildcard := &recordingHandler{}
	registry.Register(wildcard)
	registry.Register(typed, "ledger.posted")

	handlers := registry.HandlersFor("ledger.posted")

	require.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0].(*recordingHandler))
	assert.Same(t, wildcard, handlers[1].(*recordingHandler))
}

func TestInMemoryEventBusLifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Stop(ctx))
}
