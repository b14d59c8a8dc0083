package client

import (
	"crypto/rand"
	"encoding/binary"
	"sync/atomic"
	"time"
)

// txIDAllocator hands out tx_id values with the layout spec §4.C fixes:
// [instance_id:u16 | counter:u16]. instance_id is rolled once, at
// construction, from the wall clock and a cryptographic RNG so that two
// freshly-started orchestrators pick disjoint high halves with high
// probability; counter then increments strictly sequentially per sign,
// wrapping at 65536 within the same instance_id.
type txIDAllocator struct {
	instanceID uint16
	counter    uint32 // low 16 bits used; atomic for concurrent Sign callers
}

func newTxIDAllocator() *txIDAllocator {
	return &txIDAllocator{instanceID: rollInstanceID()}
}

func rollInstanceID() uint16 {
	var seed [8]byte
	binary.BigEndian.PutUint64(seed[:], uint64(time.Now().UnixNano()))

	var entropy [2]byte
	_, _ = rand.Read(entropy[:]) // crypto/rand.Read only errors if the OS source is broken

	mixed := binary.BigEndian.Uint16(seed[6:8]) ^ binary.BigEndian.Uint16(entropy[:])
	return mixed
}

// next allocates the next tx_id: high 16 bits are the fixed instance_id,
// low 16 bits are the post-wrap counter.
func (a *txIDAllocator) next() int32 {
	counter := uint16(atomic.AddUint32(&a.counter, 1))
	return int32(uint32(a.instanceID)<<16 | uint32(counter))
}
