// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package signing

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec"
	"github.com/stretchr/testify/assert"

	"github.com/bnb-chain/threshold-signer/common"
	"github.com/bnb-chain/threshold-signer/dealer"
	"github.com/bnb-chain/threshold-signer/ecdsa/keygen"
	"github.com/bnb-chain/threshold-signer/keyshare"
	"github.com/bnb-chain/threshold-signer/test"
	"github.com/bnb-chain/threshold-signer/tss"
)

// saveDataFromKeyShare mirrors participant.saveDataFrom: it rebuilds the
// engine's keygen.LocalPartySaveData view from one party's KeyShare.
func saveDataFromKeyShare(share *keyshare.KeyShare) keygen.LocalPartySaveData {
	sd := keygen.NewLocalPartySaveData(share.N)
	sd.LocalPreParams = keygen.LocalPreParams{
		PaillierSK: share.PaillierSK,
		NTildei:    share.NTildei,
		H1i:        share.H1i,
		H2i:        share.H2i,
		DlnProof1:  share.DlnProof1,
		DlnProof2:  share.DlnProof2,
	}
	sd.LocalSecrets = keygen.LocalSecrets{
		Xi:      share.Xi,
		ShareID: share.ShareID,
	}
	sd.Ks = share.CoPartyKeys
	sd.NTildej = share.NTildej
	sd.H1j = share.H1j
	sd.H2j = share.H2j
	sd.BigXj = share.BigXj
	sd.PaillierPKs = share.PaillierPKs
	sd.ECDSAPub = share.SharedPublicKey
	return sd
}

// TestE2EConcurrent runs a full 2-of-2 signing session in-process: two
// LocalParty state machines wired directly to each other through
// test.SharedPartyUpdater (no network), and checks that the resulting
// (r, s) verifies against the dealer's public key.
func TestE2EConcurrent(t *testing.T) {
	const n = 2
	res, err := dealer.Generate(dealer.Config{
		NParties:         n,
		Threshold:        n,
		AccountID:        "local-party-e2e",
		ChildKey:         [32]byte{1},
		PreParamsTimeout: time.Minute,
	})
	assert.NoError(t, err, "dealer.Generate should succeed")
	assert.Equal(t, n, len(res.Shares))

	ids := make(tss.UnSortedPartyIDs, n)
	for i := 0; i < n; i++ {
		ids[i] = tss.NewPartyID(fmt.Sprintf("%d", i), fmt.Sprintf("party-%d", i), res.Shares[i].ShareID)
	}
	signPIDs := tss.SortPartyIDs(ids)
	p2pCtx := tss.NewPeerContextFromSortedIDs(signPIDs, nil)

	parties := make([]*LocalParty, n)
	errCh := make(chan *tss.Error, n)
	outCh := make(chan tss.Message, n*n)
	endCh := make(chan common.SignatureData, n)
	updater := test.SharedPartyUpdater

	msg := common.GetRandomPositiveInt(tss.EC().Params().N)
	for i := 0; i < n; i++ {
		params := tss.NewParameters(tss.EC(), p2pCtx, signPIDs[i], n, n-1)
		saveData := saveDataFromKeyShare(res.Shares[signPIDs[i].Index])
		P := NewLocalParty(msg, params, saveData, big.NewInt(0), outCh, endCh).(*LocalParty)
		parties[signPIDs[i].Index] = P
		go func(P *LocalParty) {
			if err := P.Start(); err != nil {
				errCh <- err
			}
		}(P)
	}

	var ended int32
	var r, s *big.Int
signing:
	for {
		select {
		case perr := <-errCh:
			t.Fatalf("party error: %s", perr)

		case out := <-outCh:
			dest := out.GetTo()
			if dest == nil {
				for _, P := range parties {
					if P.PartyID().Index == out.GetFrom().Index {
						continue
					}
					go updater(P, out, errCh)
				}
			} else {
				if dest[0].Index == out.GetFrom().Index {
					t.Fatalf("party %d tried to send a message to itself", dest[0].Index)
				}
				go updater(parties[dest[0].Index], out, errCh)
			}

		case data := <-endCh:
			r, s = new(big.Int).SetBytes(data.GetR()), new(big.Int).SetBytes(data.GetS())
			atomic.AddInt32(&ended, 1)
			if atomic.LoadInt32(&ended) == int32(n) {
				break signing
			}
		}
	}

	pk := ecdsa.PublicKey{Curve: tss.EC(), X: res.PublicKey.X(), Y: res.PublicKey.Y()}
	ok := ecdsa.Verify(&pk, msg.Bytes(), r, s)
	assert.True(t, ok, "ecdsa verify must pass")

	btcecSig := &btcec.Signature{R: r, S: s}
	assert.True(t, btcecSig.Verify(msg.Bytes(), (*btcec.PublicKey)(&pk)), "btcec verify must pass")
}
