package participant

import (
	"context"
	"encoding/base64"
	"errors"
	"math/big"

	"go.uber.org/zap"

	"github.com/bnb-chain/threshold-signer/busclient"
	"github.com/bnb-chain/threshold-signer/common"
	"github.com/bnb-chain/threshold-signer/ecdsa/signing"
	"github.com/bnb-chain/threshold-signer/internal/errs"
	"github.com/bnb-chain/threshold-signer/keyshare"
	"github.com/bnb-chain/threshold-signer/tss"
)

var (
	errFailedPartyAssertion = errors.New("signing.NewLocalParty did not return a *signing.LocalParty")
	errRoomClosed           = errors.New("room session closed before the signing protocol finished")
)

// runSigning drives one signing session to completion (spec §4.B steps
// 3-5): it starts this node's LocalParty, pumps its outgoing messages onto
// the already-joined Room Bus session and feeds incoming room messages into
// the party's state machine, and returns the raw (r, s) once the GG18/GG20
// signing rounds conclude. The rounds themselves are an opaque external
// collaborator (spec §1); this function only wires "when rounds run and
// what messages look like" to the network, exactly per spec §9 "coroutines
// carrying session state".
func runSigning(ctx context.Context, share *keyshare.KeyShare, digest []byte, sess *busclient.Session, log *zap.Logger) (r, s *big.Int, err error) {
	ids := canonicalSignerIDs(share)
	ourID, err := ourPartyID(ids, share)
	if err != nil {
		return nil, nil, errs.New(errs.InvalidArgument, "runSigning", err)
	}

	peerCtx := tss.NewPeerContextFromSortedIDs(ids, ourID)
	params := tss.NewParameters(tss.EC(), peerCtx, ourID, len(ids), share.Threshold-1)
	saveData := saveDataFrom(share)

	outCh := make(chan tss.Message, len(ids)*2)
	endCh := make(chan common.SignatureData, 1)

	msg := new(big.Int).SetBytes(digest)
	partyIface := signing.NewLocalParty(msg, params, saveData, big.NewInt(0), outCh, endCh)
	party, ok := partyIface.(*signing.LocalParty)
	if !ok {
		return nil, nil, errs.New(errs.Protocol, "runSigning", errFailedPartyAssertion)
	}

	startErrCh := make(chan *tss.Error, 1)
	go func() {
		if perr := party.Start(); perr != nil {
			startErrCh <- perr
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil, nil, errs.New(errs.Network, "runSigning", ctx.Err())

		case perr := <-startErrCh:
			return nil, nil, errs.New(errs.Protocol, "runSigning", perr)

		case out, ok := <-outCh:
			if !ok {
				continue
			}
			if err := forwardOutgoing(ctx, sess, out); err != nil {
				return nil, nil, err
			}

		case in, ok := <-sess.Incoming:
			if !ok {
				if serr := sess.Err(); serr != nil {
					return nil, nil, errs.New(errs.Network, "runSigning", serr)
				}
				return nil, nil, errs.New(errs.Network, "runSigning", errRoomClosed)
			}
			from := findSigner(ids, in.Sender)
			if from == nil {
				if log != nil {
					log.Warn("dropping message from a sender outside the canonical signer set", zap.Uint16("sender", in.Sender))
				}
				continue
			}
			wireBytes, derr := base64.StdEncoding.DecodeString(in.Body)
			if derr != nil {
				return nil, nil, errs.New(errs.Serialisation, "runSigning", derr)
			}
			if _, perr := party.UpdateFromBytes(wireBytes, from, in.Broadcast); perr != nil {
				return nil, nil, errs.New(errs.Protocol, "runSigning", perr)
			}

		case sigData, ok := <-endCh:
			if !ok {
				return nil, nil, errs.New(errs.Protocol, "runSigning", errRoomClosed)
			}
			r = new(big.Int).SetBytes(sigData.GetR())
			s = new(big.Int).SetBytes(sigData.GetS())
			return r, s, nil
		}
	}
}

// forwardOutgoing translates one engine-produced tss.Message into the Room
// Bus envelope shape (spec §3 "Message envelope"): wire bytes are
// base64-encoded into the opaque string body, and a nil `To` list becomes a
// broadcast (receiver == nil).
func forwardOutgoing(ctx context.Context, sess *busclient.Session, out tss.Message) error {
	wireBytes, _, err := out.WireBytes()
	if err != nil {
		return errs.New(errs.Serialisation, "forwardOutgoing", err)
	}
	body := base64.StdEncoding.EncodeToString(wireBytes)

	var receiver *uint16
	if to := out.GetTo(); len(to) > 0 {
		idx := uint16(to[0].Index)
		receiver = &idx
	}

	select {
	case sess.Outgoing <- busclient.Outgoing{Receiver: receiver, Body: body}:
		return nil
	case <-ctx.Done():
		return errs.New(errs.Network, "forwardOutgoing", ctx.Err())
	}
}

// findSigner returns the canonical-signer-set PartyID at index idx, or nil
// if idx isn't one of them (a message from outside the signer set is
// dropped, not fatal — see spec §3 "each party filters out ... messages").
func findSigner(ids tss.SortedPartyIDs, idx uint16) *tss.PartyID {
	for _, id := range ids {
		if uint16(id.Index) == idx {
			return id
		}
	}
	return nil
}
