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

func newTestBus(t *testing.T) (*httptest.Server, *busclient.Client) {
	t.Helper()
	srv := bus.NewServer(bus.NewRegistry(), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, busclient.New(ts.URL)
}

func TestBroadcastAndSubscribeRoundTrip(t *testing.T) {
	_, c := newTestBus(t)
	room := c.Room("session-x")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	events, errCh, err := room.Subscribe(ctx, -1)
	require.NoError(t, err)

	require.NoError(t, room.Broadcast(ctx, `{"sender":0,"body":"hi"}`))

	select {
	case ev := <-events:
		assert.Equal(t, 0, ev.ID)
		assert.Equal(t, `{"sender":0,"body":"hi"}`, ev.Data)
	case err := <-errCh:
		t.Fatalf("subscribe stream errored: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive broadcast message")
	}
}

func TestIssueUniqueIdxIncrements(t *testing.T) {
	_, c := newTestBus(t)
	room := c.Room("session-y")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	first, err := room.IssueUniqueIdx(ctx)
	require.NoError(t, err)
	second, err := room.IssueUniqueIdx(ctx)
	require.NoError(t, err)

	assert.Equal(t, uint16(0), first)
	assert.Equal(t, uint16(1), second)
}
