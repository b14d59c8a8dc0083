package bus_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/threshold-signer/bus"
)

func TestRoomPublishAssignsDenseIDs(t *testing.T) {
	r := bus.NewRoom()
	id0 := r.Publish("hello")
	id1 := r.Publish("world")
	assert.Equal(t, 0, id0)
	assert.Equal(t, 1, id1)
}

func TestRoomIssueUniqueIdxIncrements(t *testing.T) {
	r := bus.NewRoom()
	assert.Equal(t, uint16(0), r.IssueUniqueIdx())
	assert.Equal(t, uint16(1), r.IssueUniqueIdx())
	assert.Equal(t, uint16(2), r.IssueUniqueIdx())
}

func TestSubscriptionReplaysExistingMessages(t *testing.T) {
	r := bus.NewRoom()
	r.Publish("a")
	r.Publish("b")

	sub := r.Subscribe(-1)
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	id, body, err := sub.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, id)
	assert.Equal(t, "a", body)

	id, body, err = sub.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	assert.Equal(t, "b", body)
}

func TestSubscriptionResumesFromLastEventID(t *testing.T) {
	r := bus.NewRoom()
	r.Publish("a")
	r.Publish("b")
	r.Publish("c")

	sub := r.Subscribe(0) // already saw id 0
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	id, body, err := sub.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	assert.Equal(t, "b", body)
}

func TestSubscriptionBlocksUntilPublish(t *testing.T) {
	r := bus.NewRoom()
	sub := r.Subscribe(-1)
	defer sub.Close()

	done := make(chan struct{})
	var gotBody string
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, body, err := sub.Next(ctx)
		if err == nil {
			gotBody = body
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	r.Publish("late")

	select {
	case <-done:
		assert.Equal(t, "late", gotBody)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription never woke up after publish")
	}
}

func TestSubscriptionNextRespectsContextCancellation(t *testing.T) {
	r := bus.NewRoom()
	sub := r.Subscribe(-1)
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := sub.Next(ctx)
	assert.Error(t, err)
}

func TestSubscriberGauge(t *testing.T) {
	r := bus.NewRoom()
	assert.EqualValues(t, 0, r.Subscribers())

	sub := r.Subscribe(-1)
	assert.EqualValues(t, 1, r.Subscribers())

	sub.Close()
	assert.EqualValues(t, 0, r.Subscribers())

	// idempotent
	sub.Close()
	assert.EqualValues(t, 0, r.Subscribers())
}
