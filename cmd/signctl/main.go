// Command signctl is a small orchestrator-driven signing smoke-test client
// (spec §4.C): it loads a client config, signs one digest, prints the
// resulting (r, s, v), and exits.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/bnb-chain/threshold-signer/client"
	"github.com/bnb-chain/threshold-signer/internal/config"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "usage: signctl <config.yaml> <account_id> <digest_hex>")
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2], os.Args[3]); err != nil {
		fmt.Fprintf(os.Stderr, "signctl: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, accountID, digestHex string) error {
	cfg, err := config.LoadClientConfig(configPath)
	if err != nil {
		return err
	}

	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return fmt.Errorf("decoding digest: %w", err)
	}

	o, err := client.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := o.Initialize(ctx); err != nil {
		return err
	}
	defer func() { _ = o.Shutdown(context.Background()) }()

	sig, err := o.Sign(ctx, digest, accountID)
	if err != nil {
		return err
	}

	fmt.Printf("r=%x\ns=%x\nv=%d\n", sig.R, sig.S, sig.V)
	return nil
}
