// Command roombus runs the Room Bus server (spec §4.A): an HTTP+SSE process
// hosting ephemeral, named rooms that Participant Nodes join for the
// lifetime of one signing session.
package main

import (
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bnb-chain/threshold-signer/bus"
	"github.com/bnb-chain/threshold-signer/internal/logging"
)

// config is the Room Bus binary's own minimal config shape: just where to
// listen and how loud to log (spec §6's SSE block names host/port, the rest
// of internal/config's structs are the consumer side).
type config struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: roombus <config.yaml>")
		os.Exit(1)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "roombus: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	var cfg config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	log, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	reg := bus.NewRegistry()
	srv := bus.NewServer(reg, log)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.Info("room bus listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, srv.Handler())
}
