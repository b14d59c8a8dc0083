package busclient_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/threshold-signer/bus"
	"github.com/bnb-chain/threshold-signer/busclient"
)

func u16(v uint16) *uint16 { return &v }

func TestJoinRoomFiltersSelfSentMessages(t *testing.T) {
	srv := bus.NewServer(bus.NewRegistry(), nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	c := busclient.New(ts.URL)
	room := c.Room("signing-round")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	sess, err := busclient.JoinRoom(ctx, room, 1, nil)
	require.NoError(t, err)
	defer sess.Close()

	// A message sent by party 1 itself must never come back on Incoming.
	require.NoError(t, room.Broadcast(ctx, `{"sender":1,"body":"ignored"}`))
	// A broadcast from party 0 must be delivered.
	require.NoError(t, room.Broadcast(ctx, `{"sender":0,"body":"for-everyone"}`))
	// A P2P message addressed to party 2 must not be delivered to party 1.
	require.NoError(t, room.Broadcast(ctx, `{"sender":0,"receiver":2,"body":"not-for-me"}`))
	// A P2P message addressed to party 1 must be delivered.
	require.NoError(t, room.Broadcast(ctx, `{"sender":0,"receiver":1,"body":"just-for-me"}`))

	var got []busclient.Incoming
	for len(got) < 2 {
		select {
		case msg := <-sess.Incoming:
			got = append(got, msg)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for messages, got %d so far", len(got))
		}
	}

	assert.Equal(t, uint16(0), got[0].Sender)
	assert.True(t, got[0].Broadcast)
	assert.Equal(t, "for-everyone", got[0].Body)

	assert.Equal(t, uint16(0), got[1].Sender)
	assert.False(t, got[1].Broadcast)
	assert.Equal(t, "just-for-me", got[1].Body)
}

func TestJoinRoomOutgoingBroadcastsEnvelope(t *testing.T) {
	srv := bus.NewServer(bus.NewRegistry(), nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	c := busclient.New(ts.URL)
	room := c.Room("signing-round-2")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	observer, errCh, err := room.Subscribe(ctx, -1)
	require.NoError(t, err)

	sess, err := busclient.JoinRoom(ctx, room, 0, nil)
	require.NoError(t, err)
	defer sess.Close()

	sess.Outgoing <- busclient.Outgoing{Receiver: u16(1), Body: "round1-share"}

	select {
	case ev := <-observer:
		assert.Contains(t, ev.Data, `"sender":0`)
		assert.Contains(t, ev.Data, `"receiver":1`)
		assert.Contains(t, ev.Data, `"round1-share"`)
	case err := <-errCh:
		t.Fatalf("observer stream errored: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("did not observe outgoing broadcast")
	}
}
