// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package signing

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/bnb-chain/threshold-signer/common"
	"github.com/bnb-chain/threshold-signer/crypto"
	"github.com/bnb-chain/threshold-signer/crypto/commitments"
	"github.com/bnb-chain/threshold-signer/crypto/mta"
	"github.com/bnb-chain/threshold-signer/ecdsa/keygen"
	"github.com/bnb-chain/threshold-signer/tss"
)

var (
	zero = big.NewInt(0)
)

// round 1 represents round 1 of the signing part of the GG18 ECDSA TSS spec (Gennaro, Goldfeder; 2018)
func newRound1(params *tss.Parameters, key *keygen.LocalPartySaveData, data *SignatureData, temp *localTempData, out chan<- tss.Message, end chan<- SignatureData) tss.Round {
	return &round1{
		&base{params, key, data, temp, out, end, make([]bool, len(params.Parties().IDs())), false, 1}}
}

func (round *round1) Start() *tss.Error {
	if round.started {
		return round.WrapError(errors.New("round already started"))
	}

	// Spec requires calculate H(M) here,
	// but considered different blockchain use different hash function we accept the converted big.Int
	// if this big.Int is not belongs to Zq, the client might not comply with common rule (for ECDSA):
	// https://github.com/btcsuite/btcd/blob/c26ffa870fd817666a857af1bf6498fabba1ffe3/btcec/signature.go#L263
	if round.temp.m != nil &&
		round.temp.m.Cmp(tss.EC().Params().N) >= 0 {
		return round.WrapError(errors.New("hashed message is not valid"))
	}

	round.number = 1
	round.started = true
	round.resetOK()

	Pi := round.PartyID()
	i := Pi.Index
	round.ok[i] = true

	gammaI := common.GetRandomPositiveInt(tss.EC().Params().N)
	kI := common.GetRandomPositiveInt(tss.EC().Params().N)
	round.temp.gammaI = gammaI
	round.temp.r5AbortData.GammaI = gammaI.Bytes()

	gammaIG := crypto.ScalarBaseMult(tss.EC(), gammaI)
	round.temp.gammaIG = gammaIG

	cmt := commitments.NewHashCommitment(gammaIG.X(), gammaIG.Y())
	round.temp.deCommit = cmt.D

	// MtA round 1: encrypt k_i once under our own Paillier key. The same
	// ciphertext is sent to every peer, each with a range proof tailored to
	// that peer's NTilde/H1/H2, so that our round 5 PDL-w-slack proof (which
	// commits to a single ciphertext) matches what each peer verifies it
	// received.
	paiPK := round.key.PaillierPKs[i]
	cAKI, rAKI, err := paiPK.EncryptAndReturnRandomness(kI)
	if err != nil {
		return round.WrapError(err)
	}
	round.temp.cAKI = cAKI
	round.temp.rAKI = rAKI

	for j, Pj := range round.Parties().IDs() {
		if j == i {
			continue
		}
		pi, err := mta.ProveRangeAlice(paiPK, cAKI, round.key.NTildej[j], round.key.H1j[j], round.key.H2j[j], kI, rAKI)
		if err != nil {
			return round.WrapError(fmt.Errorf("failed to init mta: %v", err))
		}
		r1msg1 := NewSignRound1Message1(Pj, round.PartyID(), cAKI, pi)
		round.temp.signRound1Message1s[i] = r1msg1
		round.temp.c1Is[j] = cAKI
		round.out <- r1msg1
	}

	// set "k"-related temporary variables, also used for identified aborts later in the protocol
	{
		kIBz := kI.Bytes()
		round.temp.KI = kIBz // now part of the OneRoundData struct
		round.temp.r5AbortData.KI = kIBz
		round.temp.r7AbortData.KI = kIBz
		round.temp.r7AbortData.KRandI = rAKI.Bytes()
	}

	r1msg2 := NewSignRound1Message2(round.PartyID(), cmt.C)
	round.temp.signRound1Message2s[i] = r1msg2
	round.out <- r1msg2
	return nil
}

func (round *round1) Update() (bool, *tss.Error) {
	for j, msg1 := range round.temp.signRound1Message1s {
		if round.ok[j] {
			continue
		}
		if msg1 == nil || !round.CanAccept(msg1) {
			return false, nil
		}
		msg2 := round.temp.signRound1Message2s[j]
		if msg2 == nil || !round.CanAccept(msg2) {
			return false, nil
		}
		round.ok[j] = true
	}
	return true, nil
}

func (round *round1) CanAccept(msg tss.ParsedMessage) bool {
	if _, ok := msg.Content().(*SignRound1Message1); ok {
		return !msg.IsBroadcast()
	}
	if _, ok := msg.Content().(*SignRound1Message2); ok {
		return msg.IsBroadcast()
	}
	return false
}

func (round *round1) NextRound() tss.Round {
	round.started = false
	return &round2{round}
}

// ----- //

// helper to call into PrepareForSigning()
func (round *round1) prepare() error {
	i := round.PartyID().Index
	xi, ks, bigXs := round.key.Xi, round.key.Ks, round.key.BigXj
	if round.Threshold()+1 > len(ks) {
		return fmt.Errorf("t+1=%d is not satisfied by the key count of %d", round.Threshold()+1, len(ks))
	}
	wI, bigWs := PrepareForSigning(tss.EC(), i, len(ks), xi, ks, bigXs)
	round.temp.wI = wI
	round.temp.bigWs = bigWs
	return nil
}
