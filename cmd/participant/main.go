// Command participant runs one Participant Node (spec §4.B): it loads a key
// bundle, joins the Room Bus for each signing session it is asked to serve,
// and exposes SignTx over the length-prefixed RPC transport.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bnb-chain/threshold-signer/busclient"
	"github.com/bnb-chain/threshold-signer/internal/config"
	"github.com/bnb-chain/threshold-signer/internal/logging"
	"github.com/bnb-chain/threshold-signer/keyshare"
	"github.com/bnb-chain/threshold-signer/participant"
	"github.com/bnb-chain/threshold-signer/rpc"
)

// shutdownGrace bounds how long in-flight SignTx calls get to drain before
// the listener is torn down regardless (spec §4.B "Shutdown": "default 5s").
const shutdownGrace = 5 * time.Second

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: participant <config.yaml>")
		os.Exit(1)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "participant: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadParticipantConfig(configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	bundle, err := keyshare.LoadBundle(cfg.MPC.KeyShareFile)
	if err != nil {
		return err
	}

	busBase := fmt.Sprintf("http://%s:%d", cfg.SSE.Host, cfg.SSE.Port)
	bus := busclient.New(busBase)

	node, err := participant.New(bundle, bus, log)
	if err != nil {
		return err
	}

	srv := rpc.NewServer(node, log)
	addr := fmt.Sprintf("%s:%d", cfg.LocalParticipant.Host, cfg.LocalParticipant.Port)
	if err := srv.Listen(addr); err != nil {
		return err
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	serveErrCh := make(chan error, 1)
	go func() { serveErrCh <- srv.Serve() }()

	log.Info("participant node listening",
		zap.String("addr", addr),
		zap.Int("party_index", cfg.LocalParticipant.Index),
		zap.Int("accounts", len(bundle)))

	select {
	case sig := <-sigc:
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serveErrCh:
		if err != nil {
			log.Error("listener stopped unexpectedly", zap.Error(err))
		}
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown grace period exceeded", zap.Error(err))
	}
	return nil
}
