// Package participant implements the Participant Node (spec §4.B): it hosts
// pre-derived key shares, joins a Room Bus room per signing session, drives
// the MPC engine for that session, and returns the ECDSA signature with its
// recovery byte computed by trial recovery.
package participant

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bnb-chain/threshold-signer/busclient"
	"github.com/bnb-chain/threshold-signer/internal/errs"
	"github.com/bnb-chain/threshold-signer/keyshare"
	"github.com/bnb-chain/threshold-signer/rpc"
)

// Node is one party's Participant Node: its key bundle and a handle to the
// Room Bus it joins a room on for every signing session.
type Node struct {
	bundle keyshare.Bundle
	bus    *busclient.Client
	log    *zap.Logger
}

var _ rpc.Handler = (*Node)(nil)

// New constructs a Node over an already-loaded bundle (spec §4.B "Startup
// sequence"). Fails fast if the bundle is empty.
func New(bundle keyshare.Bundle, bus *busclient.Client, log *zap.Logger) (*Node, error) {
	if len(bundle) == 0 {
		return nil, errs.New(errs.Init, "New", errors.New("key bundle is empty"))
	}
	return &Node{bundle: bundle, bus: bus, log: log}, nil
}

// SignTx implements rpc.Handler: it is the single RPC method the
// Participant service exposes (spec §6).
func (n *Node) SignTx(ctx context.Context, req *rpc.SignMessage) (*rpc.SignatureMessage, error) {
	if req.AccountID == "" {
		return nil, errs.New(errs.InvalidArgument, "SignTx", errors.New("account_id must not be empty"))
	}
	if len(req.Data) != 32 {
		return nil, errs.New(errs.InvalidArgument, "SignTx", errors.Errorf("digest must be 32 bytes, got %d", len(req.Data)))
	}
	share, ok := n.bundle[req.AccountID]
	if !ok {
		return nil, errs.New(errs.NotFound, "SignTx", errors.Errorf("unknown account_id %q", req.AccountID))
	}

	roomID := fmt.Sprintf("signing_%d", req.TxID)
	room := n.bus.Room(roomID)

	log := n.log
	if log != nil {
		log = log.With(zap.String("room", roomID), zap.String("account_id", req.AccountID), zap.Int("party_index", share.Index))
		log.Info("joining signing session")
	}

	sess, err := busclient.JoinRoom(ctx, room, uint16(share.Index), log)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	r, s, err := runSigning(ctx, share, req.Data, sess, log)
	if err != nil {
		if log != nil {
			log.Error("signing session failed", zap.Error(err))
		}
		// Never leak protocol internals past the RPC boundary (spec §7).
		if errs.KindOf(err) == errs.NotFound || errs.KindOf(err) == errs.InvalidArgument {
			return nil, err
		}
		return nil, errs.New(errs.Protocol, "SignTx", errors.New("signing session aborted"))
	}

	v, err := trialRecoverV(req.Data, r, s, share.SharedPublicKey)
	if err != nil {
		return nil, err
	}
	s, v = canonicalizeLowS(s, v)

	return &rpc.SignatureMessage{
		R: leftPad32(r.Bytes()),
		S: leftPad32(s.Bytes()),
		V: v,
	}, nil
}
