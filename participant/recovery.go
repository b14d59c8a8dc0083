package participant

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"

	"github.com/bnb-chain/threshold-signer/crypto"
	"github.com/bnb-chain/threshold-signer/internal/errs"
)

// trialRecoverV implements spec §4.B step 5 / §9 "trial recovery instead of
// carrying the recovery bit through the protocol": the GG18/GG20 signing
// rounds do not emit a recovery byte, so it is computed post-hoc by
// attempting both candidates and checking which one recovers the expected
// public key.
func trialRecoverV(digest []byte, r, s *big.Int, expected *crypto.ECPoint) (uint32, error) {
	compact := make([]byte, 65)
	copy(compact[1:33], leftPad32(r.Bytes()))
	copy(compact[33:65], leftPad32(s.Bytes()))

	var found = -1
	for v := byte(0); v < 2; v++ {
		compact[0] = 27 + v
		pub, _, err := btcec.RecoverCompact(btcec.S256(), compact, digest)
		if err != nil {
			continue
		}
		if pub.X.Cmp(expected.X()) == 0 && pub.Y.Cmp(expected.Y()) == 0 {
			if found != -1 {
				// Ambiguous recovery should never happen for a valid ECDSA
				// signature; treat as undeterminable rather than silently
				// picking one.
				return 0, errs.New(errs.RecoveryIdUndeterminable, "trialRecoverV",
					errors.New("both candidate recovery ids matched the expected public key"))
			}
			found = int(v)
		}
	}
	if found == -1 {
		return 0, errs.New(errs.RecoveryIdUndeterminable, "trialRecoverV",
			errors.New("neither v=0 nor v=1 recovers the expected public key"))
	}
	return uint32(found), nil
}

func leftPad32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

// canonicalizeLowS normalises s to the lower half of the curve order (spec
// §8 "s is in the lower half of the curve order"), flipping the recovery bit
// to match when a flip is needed.
func canonicalizeLowS(s *big.Int, v uint32) (*big.Int, uint32) {
	halfOrder := new(big.Int).Rsh(btcec.S256().N, 1)
	if s.Cmp(halfOrder) <= 0 {
		return s, v
	}
	flipped := new(big.Int).Sub(btcec.S256().N, s)
	return flipped, v ^ 1
}
