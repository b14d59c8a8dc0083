package participant

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"math/big"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/threshold-signer/bus"
	"github.com/bnb-chain/threshold-signer/busclient"
	"github.com/bnb-chain/threshold-signer/dealer"
	"github.com/bnb-chain/threshold-signer/keyshare"
	"github.com/bnb-chain/threshold-signer/rpc"
	"github.com/bnb-chain/threshold-signer/tss"
)

// TestTwoNodesSignOverRealBus runs a full 2-of-2 signing session across the
// real network stack: a Share Dealer bundle, an HTTP+SSE Room Bus server,
// and two independent Participant Nodes each joining the room over their
// own busclient.Client. It asserts the resulting (r, s, v) recovers to the
// dealer's public key.
func TestTwoNodesSignOverRealBus(t *testing.T) {
	const accountID = "acct-integration"

	res, err := dealer.Generate(dealer.Config{
		NParties:         2,
		Threshold:        2,
		AccountID:        accountID,
		ChildKey:         [32]byte{7},
		PreParamsTimeout: time.Minute,
	})
	require.NoError(t, err)
	require.Len(t, res.Shares, 2)

	srv := httptest.NewServer(bus.NewServer(bus.NewRegistry(), nil).Handler())
	defer srv.Close()

	nodes := make([]*Node, 2)
	for i := 0; i < 2; i++ {
		bundle := keyshare.Bundle{accountID: res.Shares[i]}
		busCli := busclient.New(srv.URL)
		n, err := New(bundle, busCli, nil)
		require.NoError(t, err)
		nodes[i] = n
	}

	digest := sha256.Sum256([]byte("integration test transaction"))
	req := &rpc.SignMessage{
		TxID:      1,
		Chain:     rpc.ChainEthereum,
		Data:      digest[:],
		AccountID: accountID,
	}

	results := make([]*rpc.SignatureMessage, 2)
	signErrs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		i := i
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			results[i], signErrs[i] = nodes[i].SignTx(ctx, req)
		}()
	}
	wg.Wait()

	for i := range signErrs {
		require.NoError(t, signErrs[i], "node %d SignTx", i)
		require.NotNil(t, results[i])
	}

	// Both nodes independently compute the same signature over the joint
	// session: they must agree bit-for-bit.
	assert.Equal(t, results[0].R, results[1].R)
	assert.Equal(t, results[0].S, results[1].S)
	assert.Equal(t, results[0].V, results[1].V)

	pub := res.PublicKey
	pk := ecdsa.PublicKey{Curve: tss.EC(), X: pub.X(), Y: pub.Y()}
	rInt := new(big.Int).SetBytes(results[0].R)
	sInt := new(big.Int).SetBytes(results[0].S)
	assert.True(t, ecdsa.Verify(&pk, digest[:], rInt, sInt), "ecdsa verify must pass")

	compact := make([]byte, 65)
	compact[0] = 27 + byte(results[0].V)
	copy(compact[1:33], results[0].R)
	copy(compact[33:65], results[0].S)
	recoveredPub, _, err := btcec.RecoverCompact(btcec.S256(), compact, digest[:])
	require.NoError(t, err)
	assert.Equal(t, 0, recoveredPub.X.Cmp(pub.X()), "recovered pubkey X must match dealer's public key")
	assert.Equal(t, 0, recoveredPub.Y.Cmp(pub.Y()), "recovered pubkey Y must match dealer's public key")
}
