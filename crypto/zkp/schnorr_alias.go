// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package zkp

import (
	"math/big"

	"github.com/bnb-chain/threshold-signer/crypto"
)

// SchnorrProof is the GG18 discrete-log proof under its more common name:
// a Schnorr proof of knowledge of x such that X = g^x.
type SchnorrProof = DLogProof

// NewSchnorrProof constructs a Schnorr proof of knowledge of x such that X = g^x.
func NewSchnorrProof(x *big.Int, X *crypto.ECPoint) (*SchnorrProof, error) {
	return NewDLogProof(x, X)
}
