package participant

import (
	"context"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/threshold-signer/busclient"
	"github.com/bnb-chain/threshold-signer/crypto"
	"github.com/bnb-chain/threshold-signer/internal/errs"
	"github.com/bnb-chain/threshold-signer/keyshare"
	"github.com/bnb-chain/threshold-signer/rpc"
)

func threeCoPartyKeys() []*big.Int {
	return []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}
}

func TestCanonicalSignerIDsFixesFirstTIndices(t *testing.T) {
	share := &keyshare.KeyShare{Threshold: 2, N: 3, CoPartyKeys: threeCoPartyKeys()}
	ids := canonicalSignerIDs(share)
	require.Len(t, ids, 2)
	assert.Equal(t, 0, ids[0].Index)
	assert.Equal(t, 1, ids[1].Index)
}

func TestOurPartyIDRejectsIndexOutsideSignerSet(t *testing.T) {
	share := &keyshare.KeyShare{Index: 2, Threshold: 2, N: 3, CoPartyKeys: threeCoPartyKeys()}
	ids := canonicalSignerIDs(share)
	_, err := ourPartyID(ids, share)
	assert.Error(t, err)
}

func TestOurPartyIDFindsInSetIndex(t *testing.T) {
	share := &keyshare.KeyShare{Index: 1, Threshold: 2, N: 3, CoPartyKeys: threeCoPartyKeys()}
	ids := canonicalSignerIDs(share)
	id, err := ourPartyID(ids, share)
	require.NoError(t, err)
	assert.Equal(t, 1, id.Index)
}

func TestTrialRecoverVFindsTheMatchingCandidate(t *testing.T) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	require.NoError(t, err)
	digest := make([]byte, 32)
	for i := range digest {
		digest[i] = byte(i)
	}
	sig, err := priv.Sign(digest)
	require.NoError(t, err)

	pub, err := crypto.NewECPoint(curveFor(t), priv.PubKey().X, priv.PubKey().Y)
	require.NoError(t, err)

	v, err := trialRecoverV(digest, sig.R, sig.S, pub)
	require.NoError(t, err)
	assert.True(t, v == 0 || v == 1)

	// Flipping the expected public key must make recovery undeterminable.
	other, err := btcec.NewPrivateKey(btcec.S256())
	require.NoError(t, err)
	wrongPub, err := crypto.NewECPoint(curveFor(t), other.PubKey().X, other.PubKey().Y)
	require.NoError(t, err)
	_, err = trialRecoverV(digest, sig.R, sig.S, wrongPub)
	assert.Error(t, err)
	assert.True(t, errs.Is(err, errs.RecoveryIdUndeterminable))
}

func curveFor(t *testing.T) *btcec.KoblitzCurve {
	t.Helper()
	return btcec.S256()
}

func TestSignTxRejectsEmptyAccountID(t *testing.T) {
	n, err := New(keyshare.Bundle{"acct": {Index: 0, Threshold: 2, N: 2}}, busclient.New("http://unused"), nil)
	require.NoError(t, err)

	_, err = n.SignTx(context.Background(), &rpc.SignMessage{AccountID: "", Data: make([]byte, 32)})
	assert.True(t, errs.Is(err, errs.InvalidArgument))
}

func TestSignTxRejectsWrongDigestLength(t *testing.T) {
	n, err := New(keyshare.Bundle{"acct": {Index: 0, Threshold: 2, N: 2}}, busclient.New("http://unused"), nil)
	require.NoError(t, err)

	_, err = n.SignTx(context.Background(), &rpc.SignMessage{AccountID: "acct", Data: make([]byte, 31)})
	assert.True(t, errs.Is(err, errs.InvalidArgument))
}

func TestSignTxRejectsUnknownAccount(t *testing.T) {
	n, err := New(keyshare.Bundle{"acct": {Index: 0, Threshold: 2, N: 2}}, busclient.New("http://unused"), nil)
	require.NoError(t, err)

	_, err = n.SignTx(context.Background(), &rpc.SignMessage{AccountID: "ghost", Data: make([]byte, 32)})
	assert.True(t, errs.Is(err, errs.NotFound))
}

func TestNewRejectsEmptyBundle(t *testing.T) {
	_, err := New(keyshare.Bundle{}, busclient.New("http://unused"), nil)
	assert.True(t, errs.Is(err, errs.Init))
}
