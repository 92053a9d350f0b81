package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	got []Event
	err error
}

func (n *recordingNotifier) Notify(_ context.Context, ev Event) error {
	n.got = append(n.got, ev)
	return n.err
}

func TestBusEmitPersistsAndNotifies(t *testing.T) {
	store := NewMemoryStore()
	notifier := &recordingNotifier{}
	fixed := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	bus := &Bus{
		Store:     store,
		Notifiers: []Notifier{notifier},
		Now:       func() time.Time { return fixed },
	}

	aggregate := uuid.New()
	ev, err := bus.Emit(context.Background(), TopicSaleRecorded, aggregate, map[string]string{"total": "10.35"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, ev.ID)
	require.Equal(t, TopicSaleRecorded, ev.Topic)
	require.Equal(t, aggregate, ev.AggregateID)
	require.Equal(t, fixed, ev.OccurredAt)
	require.JSONEq(t, `{"total":"10.35"}`, string(ev.Payload))

	require.Len(t, store.Events(), 1)
	require.Len(t, notifier.got, 1)
	require.Equal(t, ev.ID, notifier.got[0].ID)
}

func TestBusEmitRejectsBadInput(t *testing.T) {
	bus := &Bus{Store: NewMemoryStore()}

	_, err := bus.Emit(context.Background(), "", uuid.New(), nil)
	require.Error(t, err)

	_, err = bus.Emit(context.Background(), TopicDraftSaved, uuid.Nil, nil)
	require.Error(t, err)

	_, err = bus.Emit(context.Background(), TopicDraftSaved, uuid.New(), []byte("{not json"))
	require.Error(t, err)
}

func TestBusEmitNotifierErrorsDoNotUndoPersistence(t *testing.T) {
	store := NewMemoryStore()
	failing := &recordingNotifier{err: errors.New("downstream unavailable")}
	bus := &Bus{Store: store, Notifiers: []Notifier{failing}}

	_, err := bus.Emit(context.Background(), TopicOfferCreated, uuid.New(), nil)
	require.Error(t, err)
	require.Len(t, store.Events(), 1)
}
