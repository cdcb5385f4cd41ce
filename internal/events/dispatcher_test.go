package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRoutesByType(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var got []Event
	dispatcher.Subscribe(EventPriceUpdate, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventPriceUpdate}))
	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTradeClosed}))

	require.Len(t, got, 1)
	assert.Equal(t, EventPriceUpdate, got[0].Type)
}

func TestDispatcherFailingHandlerDoesNotBlockOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	called := false
	dispatcher.Subscribe(EventBotStatusChanged, func(context.Context, Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventBotStatusChanged, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventBotStatusChanged}))
	assert.True(t, called)
}
