// Package dealer implements the trusted-dealer Share Dealer (spec §4.D):
// splitting a pre-derived secret scalar into per-party Shamir shares plus
// auxiliary MPC material, verifying against the expected public key, and
// writing per-party key bundles.
package dealer

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/bnb-chain/threshold-signer/crypto"
	"github.com/bnb-chain/threshold-signer/crypto/paillier"
	"github.com/bnb-chain/threshold-signer/crypto/vss"
	"github.com/bnb-chain/threshold-signer/ecdsa/keygen"
	"github.com/bnb-chain/threshold-signer/internal/errs"
	"github.com/bnb-chain/threshold-signer/keyshare"
	"github.com/bnb-chain/threshold-signer/tss"
)

// Config is the Share Dealer's input (spec §4.D).
type Config struct {
	NParties  int
	Threshold int
	AccountID string
	ChildKey  [32]byte
	// PreParamsTimeout bounds how long GeneratePreParams may run per party.
	PreParamsTimeout time.Duration
}

// Result is the full set of per-party shares produced by Generate, along
// with the public key they commit to.
type Result struct {
	PublicKey *crypto.ECPoint
	Shares    []*keyshare.KeyShare
}

func (c Config) validate() error {
	if c.NParties < 2 || c.NParties > 255 {
		return errs.New(errs.InvalidArgument, "Config.validate", errors.New("n_parties must be in [2, 255]"))
	}
	if c.Threshold < 2 || c.Threshold > c.NParties {
		return errs.New(errs.InvalidArgument, "Config.validate", errors.New("threshold must be in [2, n_parties]"))
	}
	if c.AccountID == "" {
		return errs.New(errs.InvalidArgument, "Config.validate", errors.New("account_id must not be empty"))
	}
	return nil
}

// scalar interprets the 32-byte child key as a big-endian scalar mod the
// curve order, rejecting zero (spec §4.D step 1, error ChildKeyZero).
func scalar(childKey [32]byte) (*big.Int, error) {
	k := new(big.Int).SetBytes(childKey[:])
	k.Mod(k, tss.EC().Params().N)
	if k.Sign() == 0 {
		return nil, errs.New(errs.InvalidArgument, "scalar", errors.New("child key is zero modulo the curve order (ChildKeyZero)"))
	}
	return k, nil
}

// Generate runs the full Dealer algorithm described in spec §4.D steps 1-4:
// compute the expected public key, split the scalar via Feldman VSS,
// generate auxiliary MPC material for every party, and verify the split
// commits to the expected key. The shares carry no HD-wallet chain code and
// the dealer performs no derivation itself: child_key is split as given.
func Generate(cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	k, err := scalar(cfg.ChildKey)
	if err != nil {
		return nil, err
	}

	ec := tss.EC()
	expectedPub := crypto.ScalarBaseMult(ec, k)

	indexes := make([]*big.Int, cfg.NParties)
	for i := range indexes {
		indexes[i] = big.NewInt(int64(i + 1))
	}

	// Feldman VSS's "threshold" parameter is the polynomial degree, t-1,
	// so that exactly t shares are needed to reconstruct.
	vs, shares, err := vss.Create(ec, cfg.Threshold-1, k, indexes)
	if err != nil {
		return nil, errs.New(errs.Protocol, "Generate", err)
	}

	// vs[0] is the Feldman commitment to the constant term of the split
	// polynomial, i.e. k*G, independent of anything computed below. Check it
	// against the expected public key before trusting any share derived from
	// it, and check every share against the same commitments (spec §4.D step
	// 4's "Assert KeyShare[0].shared_public_key == P" only catches a bug if
	// the check is actually independent of the value it's guarding).
	if !vs[0].Equals(expectedPub) {
		return nil, errs.New(errs.Protocol, "Generate", errors.New("PublicKeyMismatch: VSS commitment to the split secret does not match the expected public key"))
	}
	for i, share := range shares {
		if !share.Verify(ec, cfg.Threshold-1, vs) {
			return nil, errs.New(errs.Protocol, "Generate", errors.Errorf("PublicKeyMismatch: party %d's share fails Feldman verification against the VSS commitments", i))
		}
	}

	preParams, err := generatePreParamsForAll(cfg.NParties, cfg.PreParamsTimeout)
	if err != nil {
		return nil, err
	}

	bigXj := make([]*crypto.ECPoint, cfg.NParties)
	paillierPKs := make([]*paillier.PublicKey, cfg.NParties)
	nTildej := make([]*big.Int, cfg.NParties)
	h1j := make([]*big.Int, cfg.NParties)
	h2j := make([]*big.Int, cfg.NParties)
	for i := 0; i < cfg.NParties; i++ {
		bigXj[i] = crypto.ScalarBaseMult(ec, shares[i].Share)
		paillierPKs[i] = &preParams[i].PaillierSK.PublicKey
		nTildej[i] = preParams[i].NTildei
		h1j[i] = preParams[i].H1i
		h2j[i] = preParams[i].H2i
	}

	result := &Result{PublicKey: expectedPub, Shares: make([]*keyshare.KeyShare, cfg.NParties)}
	for i := 0; i < cfg.NParties; i++ {
		ks := &keyshare.KeyShare{
			Index:           i,
			Threshold:       cfg.Threshold,
			N:               cfg.NParties,
			CoPartyKeys:     indexes,
			ShareID:         shares[i].ID,
			Xi:              shares[i].Share,
			SharedPublicKey: expectedPub,
			BigXj:           bigXj,
			PaillierSK:      preParams[i].PaillierSK,
			PaillierPKs:     paillierPKs,
			NTildei:         preParams[i].NTildei,
			H1i:             preParams[i].H1i,
			H2i:             preParams[i].H2i,
			NTildej:         nTildej,
			H1j:             h1j,
			H2j:             h2j,
			DlnProof1:       preParams[i].DlnProof1,
			DlnProof2:       preParams[i].DlnProof2,
		}
		if !ks.Valid() {
			return nil, errs.New(errs.Protocol, "Generate", errors.New("generated share failed validation"))
		}
		result.Shares[i] = ks
	}

	return result, nil
}

// generatePreParamsForAll generates fresh Paillier + ring-Pedersen material
// for each of n parties concurrently, the way a single real party would
// during key-gen (ecdsa/keygen.GeneratePreParams), just run n times since
// the dealer plays every party's role at once.
func generatePreParamsForAll(n int, timeout time.Duration) ([]*keygen.LocalPreParams, error) {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	out := make([]*keygen.LocalPreParams, n)
	errs2 := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			pp, err := keygen.GeneratePreParams(timeout)
			if err != nil {
				errs2[i] = err
				return
			}
			out[i] = pp
		}()
	}
	wg.Wait()
	for _, e := range errs2 {
		if e != nil {
			return nil, errs.New(errs.Protocol, "generatePreParamsForAll", e)
		}
	}
	return out, nil
}
