// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package mta

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnb-chain/threshold-signer/common"
	"github.com/bnb-chain/threshold-signer/crypto"
	"github.com/bnb-chain/threshold-signer/crypto/paillier"
	"github.com/bnb-chain/threshold-signer/ecdsa/keygen"
	"github.com/bnb-chain/threshold-signer/tss"
)

// Using a modulus length of 2048 is recommended in the GG18 spec
const (
	testPaillierKeyLength = 2048
)

func TestShareProtocol(t *testing.T) {
	ec := tss.EC()
	q := ec.Params().N

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	sk, pk, err := paillier.GenerateKeyPair(ctx, testPaillierKeyLength)
	assert.NoError(t, err)

	a := common.GetRandomPositiveInt(q)
	b := common.GetRandomPositiveInt(q)

	ppA, err := keygen.GeneratePreParams(time.Minute)
	assert.NoError(t, err)
	ppB, err := keygen.GeneratePreParams(time.Minute)
	assert.NoError(t, err)

	cA, pf, err := AliceInit(ec, pk, a, ppB.NTildei, ppB.H1i, ppB.H2i)
	assert.NoError(t, err)

	beta, cB, betaPrm, pfB, err := BobMid(ec, pk, pf, b, cA, ppA.NTildei, ppA.H1i, ppA.H2i, ppB.NTildei, ppB.H1i, ppB.H2i)
	assert.NoError(t, err)
	assert.NotNil(t, beta)

	alpha, err := AliceEnd(ec, pk, pfB, ppA.H1i, ppA.H2i, cA, cB, ppA.NTildei, sk)
	assert.NoError(t, err)

	// expect: alpha = ab + betaPrm
	aTimesB := new(big.Int).Mul(a, b)
	aTimesBPlusBeta := new(big.Int).Add(aTimesB, betaPrm)
	aTimesBPlusBetaModQ := new(big.Int).Mod(aTimesBPlusBeta, q)
	assert.Equal(t, 0, alpha.Cmp(aTimesBPlusBetaModQ))
}

func TestShareProtocolWC(t *testing.T) {
	ec := tss.EC()
	q := ec.Params().N

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	sk, pk, err := paillier.GenerateKeyPair(ctx, testPaillierKeyLength)
	assert.NoError(t, err)

	a := common.GetRandomPositiveInt(q)
	b := common.GetRandomPositiveInt(q)
	gB := crypto.ScalarBaseMult(ec, b)

	ppA, err := keygen.GeneratePreParams(time.Minute)
	assert.NoError(t, err)
	ppB, err := keygen.GeneratePreParams(time.Minute)
	assert.NoError(t, err)

	cA, pf, err := AliceInit(ec, pk, a, ppB.NTildei, ppB.H1i, ppB.H2i)
	assert.NoError(t, err)

	beta, cB, betaPrm, pfB, err := BobMidWC(ec, pk, pf, b, cA, ppA.NTildei, ppA.H1i, ppA.H2i, ppB.NTildei, ppB.H1i, ppB.H2i, gB)
	assert.NoError(t, err)
	assert.NotNil(t, beta)

	alpha, err := AliceEndWC(ec, pk, pfB, gB, cA, cB, ppA.NTildei, ppA.H1i, ppA.H2i, sk)
	assert.NoError(t, err)

	// expect: alpha = ab + betaPrm
	aTimesB := new(big.Int).Mul(a, b)
	aTimesBPlusBeta := new(big.Int).Add(aTimesB, betaPrm)
	aTimesBPlusBetaModQ := new(big.Int).Mod(aTimesBPlusBeta, q)
	assert.Equal(t, 0, alpha.Cmp(aTimesBPlusBetaModQ))
}
