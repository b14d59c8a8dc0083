// Package keyshare defines the per-party, per-account key material produced
// by the Share Dealer and consumed by the Participant Node: the KeyShare
// type (spec §3) and the KeyBundle it is persisted in.
package keyshare

import (
	"math/big"

	"github.com/bnb-chain/threshold-signer/crypto"
	"github.com/bnb-chain/threshold-signer/crypto/dlnproof"
	"github.com/bnb-chain/threshold-signer/crypto/paillier"
)

// KeyShare is one party's opaque share of a split secret, plus the
// auxiliary MPC material the GG18/GG20 signing protocol needs: Paillier
// modulus, ring-Pedersen parameters and their dln proofs. It mirrors the
// shape of ecdsa/keygen.LocalPartySaveData, restricted to what one party
// keeps.
type KeyShare struct {
	// Index is this party's position, i in [0, n).
	Index int `json:"index"`
	// Threshold and N fix t and n for this account.
	Threshold int `json:"threshold"`
	N         int `json:"n"`
	// CoPartyKeys are the Shamir x-coordinates (Ks) of every party at
	// key-gen, in party-index order; CoPartyKeys[Index] is this party's own.
	CoPartyKeys []*big.Int `json:"co_party_keys"`

	// ShareID is this party's Shamir x-coordinate (== CoPartyKeys[Index]).
	ShareID *big.Int `json:"share_id"`
	// Xi is this party's secret share of the scalar.
	Xi *big.Int `json:"xi"`

	// SharedPublicKey is P = child_key * G, identical across all n shares.
	SharedPublicKey *crypto.ECPoint `json:"shared_public_key"`

	// BigXj are the public commitments Xj = uj*G for every party j.
	BigXj []*crypto.ECPoint `json:"big_xj"`

	// PaillierSK is this party's own Paillier private key.
	PaillierSK *paillier.PrivateKey `json:"paillier_sk"`
	// PaillierPKs are every party's Paillier public key, in index order.
	PaillierPKs []*paillier.PublicKey `json:"paillier_pks"`

	// NTildei, H1i, H2i are this party's ring-Pedersen parameters; NTildej,
	// H1j, H2j are every party's, in index order.
	NTildei *big.Int   `json:"n_tilde_i"`
	H1i     *big.Int   `json:"h1_i"`
	H2i     *big.Int   `json:"h2_i"`
	NTildej []*big.Int `json:"n_tilde_j"`
	H1j     []*big.Int `json:"h1_j"`
	H2j     []*big.Int `json:"h2_j"`

	DlnProof1 *dlnproof.Proof `json:"dln_proof_1"`
	DlnProof2 *dlnproof.Proof `json:"dln_proof_2"`
}

// Valid checks the invariants spec §3 requires: t >= 2, t <= n, i unique
// (checked at the bundle level), all auxiliary material present.
func (k *KeyShare) Valid() bool {
	if k == nil {
		return false
	}
	if k.Threshold < 2 || k.Threshold > k.N {
		return false
	}
	if k.Index < 0 || k.Index >= k.N {
		return false
	}
	return k.Xi != nil && k.ShareID != nil && k.SharedPublicKey != nil && k.PaillierSK != nil
}
