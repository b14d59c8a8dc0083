// Package client implements the Signing Client / Orchestrator (spec §4.C):
// it mediates between a caller holding "a digest and an account id" and the
// Participant Nodes, allocating tx_ids, fanning a SignRequest out to exactly
// t participants, and returning the first successful signature.
//
// Grounded on original_source/mpc-client/src/signer.rs's Signer: new/
// start_local_participant/sign/stop_local_participant map onto
// New/Initialize/Sign/Shutdown below, adapted from tonic/gRPC + tokio to
// this module's gob-over-TCP rpc.Client and goroutines.
package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bnb-chain/threshold-signer/busclient"
	"github.com/bnb-chain/threshold-signer/internal/config"
	"github.com/bnb-chain/threshold-signer/internal/errs"
	"github.com/bnb-chain/threshold-signer/internal/logging"
	"github.com/bnb-chain/threshold-signer/keyshare"
	"github.com/bnb-chain/threshold-signer/participant"
	"github.com/bnb-chain/threshold-signer/rpc"
)

// SignatureResult is the (r, s, v) triple returned by Sign.
type SignatureResult struct {
	R []byte
	S []byte
	V uint32
}

// embedded bundles the in-process Participant Node an Orchestrator may run
// so that the calling process is itself one of the t signers (spec §4.C
// "Embedded vs remote participants").
type embedded struct {
	server *rpc.Server
	index  int
}

// Orchestrator is the Signing Client handle (spec §4.C). Construct with New,
// call Initialize once before the first Sign, and Shutdown when done.
type Orchestrator struct {
	cfg *config.ClientConfig
	log *zap.Logger

	txIDs *txIDAllocator

	mu       sync.Mutex
	clients  map[int]*rpc.Client // canonical signer index -> persistent connection
	embedded *embedded
	closed   bool
}

// New validates config and builds a handle; it does no I/O (spec §4.C
// "new(config)": "Validates config, does not do I/O").
func New(cfg *config.ClientConfig) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errs.New(errs.Config, "New", errors.New("config is nil"))
	}
	if cfg.MPC.Threshold < 2 || cfg.MPC.Threshold > cfg.MPC.TotalParticipants {
		return nil, errs.New(errs.Config, "New", errors.Errorf(
			"threshold %d invalid for %d participants", cfg.MPC.Threshold, cfg.MPC.TotalParticipants))
	}

	log, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return nil, errs.New(errs.Config, "New", err)
	}

	return &Orchestrator{
		cfg:     cfg,
		log:     log,
		txIDs:   newTxIDAllocator(),
		clients: make(map[int]*rpc.Client),
	}, nil
}

// Initialize opens persistent RPC connections to the t Participant Nodes
// (spec §4.C "initialize()"): every entry of cfg.RemoteParticipants is
// dialled directly, and if cfg.LocalParticipant is set an in-process
// Participant Node is started and dialled over loopback, exactly like a
// remote one (spec §4.C "Embedded vs remote participants").
func (o *Orchestrator) Initialize(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, rp := range o.cfg.RemoteParticipants {
		addr := fmt.Sprintf("%s:%d", rp.Host, rp.Port)
		c, err := rpc.Dial(ctx, addr)
		if err != nil {
			return errs.New(errs.Network, "Initialize", errors.Wrapf(err, "dialing participant %d at %s", rp.Index, addr))
		}
		o.clients[rp.Index] = c
	}

	if lp := o.cfg.LocalParticipant; lp != nil {
		if err := o.startEmbedded(ctx, *lp); err != nil {
			return err
		}
	}

	if len(o.clients) < o.cfg.MPC.Threshold {
		return errs.New(errs.Config, "Initialize", errors.Errorf(
			"only %d participant connections configured, need at least threshold=%d",
			len(o.clients), o.cfg.MPC.Threshold))
	}
	return nil
}

func (o *Orchestrator) startEmbedded(ctx context.Context, lp config.LocalParticipant) error {
	bundle, err := keyshare.LoadBundle(o.cfg.MPC.KeyShareFile)
	if err != nil {
		return err
	}

	busBase := fmt.Sprintf("http://%s:%d", o.cfg.SSE.Host, o.cfg.SSE.Port)
	bus := busclient.New(busBase)

	node, err := participant.New(bundle, bus, o.log)
	if err != nil {
		return err
	}

	srv := rpc.NewServer(node, o.log)
	addr := fmt.Sprintf("%s:%d", lp.Host, lp.Port)
	if err := srv.Listen(addr); err != nil {
		return err
	}
	go func() {
		if serveErr := srv.Serve(); serveErr != nil {
			o.log.Debug("embedded participant server stopped", zap.Error(serveErr))
		}
	}()

	c, err := rpc.Dial(ctx, srv.Addr().String())
	if err != nil {
		return errs.New(errs.Network, "startEmbedded", errors.Wrap(err, "dialing embedded participant"))
	}

	o.clients[lp.Index] = c
	o.embedded = &embedded{server: srv, index: lp.Index}
	return nil
}

// Sign sends the same SignRequest to exactly the canonical signer set
// [0, threshold) in parallel (spec §4.C "Fan-out") and returns the first
// successful SignatureResult; if every participant fails, it returns an
// error aggregating all the failures.
func (o *Orchestrator) Sign(ctx context.Context, digest []byte, accountID string) (*SignatureResult, error) {
	if len(digest) != 32 {
		return nil, errs.New(errs.InvalidArgument, "Sign", errors.Errorf("digest must be 32 bytes, got %d", len(digest)))
	}
	if accountID == "" {
		return nil, errs.New(errs.InvalidArgument, "Sign", errors.New("account_id must not be empty"))
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, errs.New(errs.Init, "Sign", errors.New("orchestrator is shut down"))
	}
	threshold := o.cfg.MPC.Threshold
	targets := make([]*rpc.Client, threshold)
	for i := 0; i < threshold; i++ {
		c, ok := o.clients[i]
		if !ok {
			o.mu.Unlock()
			return nil, errs.New(errs.Config, "Sign", errors.Errorf("no connection configured for canonical signer index %d", i))
		}
		targets[i] = c
	}
	o.mu.Unlock()

	txID := o.txIDs.next()
	execID, err := uuid.NewRandom()
	if err != nil {
		return nil, errs.New(errs.Init, "Sign", errors.Wrap(err, "generating execution_id"))
	}

	req := &rpc.SignMessage{
		TxID:      txID,
		Chain:     rpc.ChainEthereum,
		Data:      digest,
		AccountID: accountID,
	}
	copy(req.ExecutionID[:], execID[:])

	type outcome struct {
		sig *rpc.SignatureMessage
		err error
	}
	results := make(chan outcome, threshold)
	for _, c := range targets {
		c := c
		go func() {
			sig, serr := c.SignTx(ctx, req)
			results <- outcome{sig: sig, err: serr}
		}()
	}

	var failures *multierror.Error
	for i := 0; i < threshold; i++ {
		res := <-results
		if res.err != nil {
			failures = multierror.Append(failures, res.err)
			o.log.Warn("participant sign_tx failed", zap.Error(res.err))
			continue
		}
		return &SignatureResult{R: res.sig.R, S: res.sig.S, V: res.sig.V}, nil
	}
	return nil, errs.New(errs.Protocol, "Sign", failures)
}

// Shutdown stops the embedded participant (if any) and closes every RPC
// connection; it is idempotent (spec §4.C "shutdown()").
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true

	var firstErr error
	if o.embedded != nil {
		if err := o.embedded.server.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, c := range o.clients {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
