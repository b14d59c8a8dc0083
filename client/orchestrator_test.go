package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/threshold-signer/internal/config"
	"github.com/bnb-chain/threshold-signer/internal/errs"
)

func TestTxIDAllocatorSequentialWithSharedInstanceID(t *testing.T) {
	a := newTxIDAllocator()
	first := a.next()
	highBits := uint32(first) >> 16

	seen := map[int32]bool{first: true}
	for i := 0; i < 100; i++ {
		id := a.next()
		assert.False(t, seen[id], "tx_id %d allocated twice", id)
		seen[id] = true
		assert.Equal(t, highBits, uint32(id)>>16, "instance_id half must stay fixed across allocations")
	}
}

func TestTxIDAllocatorWrapsCounter(t *testing.T) {
	a := newTxIDAllocator()
	highBits := uint32(a.next()) >> 16
	for i := 0; i < 65534; i++ {
		a.next()
	}
	wrapped := a.next()
	assert.Equal(t, uint32(0), uint32(wrapped)&0xFFFF, "counter wraps to 0 after 65536 allocations")
	assert.Equal(t, highBits, uint32(wrapped)>>16, "instance_id half is unaffected by the wrap")
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.True(t, errs.Is(err, errs.Config))
}

func TestNewRejectsInvalidThreshold(t *testing.T) {
	cfg := &config.ClientConfig{MPC: config.MPC{Threshold: 5, TotalParticipants: 3}}
	_, err := New(cfg)
	assert.True(t, errs.Is(err, errs.Config))
}

func TestNewAcceptsValidConfig(t *testing.T) {
	cfg := &config.ClientConfig{
		MPC:     config.MPC{Threshold: 2, TotalParticipants: 3},
		Logging: config.Logging{Level: "info"},
	}
	o, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, o)
}

func TestSignRejectsWrongDigestLengthBeforeTouchingTheNetwork(t *testing.T) {
	cfg := &config.ClientConfig{
		MPC:     config.MPC{Threshold: 2, TotalParticipants: 3},
		Logging: config.Logging{Level: "info"},
	}
	o, err := New(cfg)
	require.NoError(t, err)

	_, err = o.Sign(context.Background(), make([]byte, 10), "acct")
	assert.True(t, errs.Is(err, errs.InvalidArgument))
}

func TestSignRejectsEmptyAccountID(t *testing.T) {
	cfg := &config.ClientConfig{
		MPC:     config.MPC{Threshold: 2, TotalParticipants: 3},
		Logging: config.Logging{Level: "info"},
	}
	o, err := New(cfg)
	require.NoError(t, err)

	_, err = o.Sign(context.Background(), make([]byte, 32), "")
	assert.True(t, errs.Is(err, errs.InvalidArgument))
}
