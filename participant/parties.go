package participant

import (
	"fmt"

	"github.com/bnb-chain/threshold-signer/ecdsa/keygen"
	"github.com/bnb-chain/threshold-signer/keyshare"
	"github.com/bnb-chain/threshold-signer/tss"
)

// canonicalSignerIDs builds the PartyID list for the canonical signer set
// fixed by spec §4.B: the first t indices of the keygen cohort, in
// ascending Shamir-x-coordinate order (spec §9 OQ1).
func canonicalSignerIDs(share *keyshare.KeyShare) tss.SortedPartyIDs {
	t := share.Threshold
	ids := make(tss.UnSortedPartyIDs, 0, t)
	for i := 0; i < t; i++ {
		moniker := fmt.Sprintf("party-%d", i)
		ids = append(ids, tss.NewPartyID(fmt.Sprintf("%d", i), moniker, share.CoPartyKeys[i]))
	}
	return tss.SortPartyIDs(ids)
}

// ourPartyID locates the canonical signer entry matching this node's own
// share; it is an error (caught before any room is joined) for this node's
// index to fall outside the canonical signer set.
func ourPartyID(ids tss.SortedPartyIDs, share *keyshare.KeyShare) (*tss.PartyID, error) {
	if share.Index >= share.Threshold {
		return nil, fmt.Errorf("party index %d is not part of the canonical signer set [0, %d)", share.Index, share.Threshold)
	}
	for _, id := range ids {
		if id.Index == share.Index {
			return id, nil
		}
	}
	return nil, fmt.Errorf("party index %d not found among canonical signer ids", share.Index)
}

// saveDataFrom rebuilds the engine's keygen.LocalPartySaveData view from the
// opaque KeyShare the Dealer produced (spec §3 "KeyShare mirrors the shape
// of ecdsa/keygen.LocalPartySaveData, restricted to what one party keeps" —
// except our KeyShare actually carries the full n-length public arrays, so
// no information is lost in the round trip).
func saveDataFrom(share *keyshare.KeyShare) keygen.LocalPartySaveData {
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
