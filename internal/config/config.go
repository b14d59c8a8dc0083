// Package config loads the YAML configuration shared by the Room Bus,
// Participant Node and Signing Client binaries, with the environment
// variable fallbacks named in spec §6.
package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bnb-chain/threshold-signer/internal/errs"
)

// SSE is the Room Bus endpoint a Participant Node or Client connects to.
type SSE struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LocalParticipant describes the party this process runs as.
type LocalParticipant struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Index int    `yaml:"index"`
}

// RemoteParticipant is one of the other t-1 signers the Client dials.
type RemoteParticipant struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Index int    `yaml:"index"`
}

// MPC carries the protocol parameters and key material source.
type MPC struct {
	Threshold         int    `yaml:"threshold"`
	TotalParticipants int    `yaml:"total_participants"`
	KeyShareFile      string `yaml:"key_share_file"`
}

// Logging is the ambient log_level, one of error/warn/info/debug/trace.
type Logging struct {
	Level string `yaml:"level"`
}

// ParticipantConfig backs the Participant Node binary.
type ParticipantConfig struct {
	SSE              SSE              `yaml:"sse"`
	LocalParticipant LocalParticipant `yaml:"local_participant"`
	MPC              MPC              `yaml:"mpc"`
	Logging          Logging          `yaml:"logging"`
}

// ClientConfig backs the Signing Client / Orchestrator binary.
type ClientConfig struct {
	SSE                SSE                 `yaml:"sse"`
	LocalParticipant   *LocalParticipant   `yaml:"local_participant"`
	RemoteParticipants []RemoteParticipant `yaml:"remote_participants"`
	MPC                MPC                 `yaml:"mpc"`
	Logging            Logging             `yaml:"logging"`
}

// LoadParticipantConfig reads and parses path, then applies the
// environment-variable fallbacks SIGN_SERVICE_KEY_SHARE_FILE, SSE_HOST,
// SSE_PORT, PARTICIPANT_HOST, PARTICIPANT_PORT, PARTICIPANT_INDEX.
func LoadParticipantConfig(path string) (*ParticipantConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.Config, "LoadParticipantConfig", err)
	}
	var cfg ParticipantConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errs.New(errs.Config, "LoadParticipantConfig", errors.Wrap(err, "parse yaml"))
	}
	applyEnv(&cfg.SSE, &cfg.LocalParticipant, &cfg.MPC)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(sse *SSE, lp *LocalParticipant, mpc *MPC) {
	if v := os.Getenv("SSE_HOST"); v != "" {
		sse.Host = v
	}
	if v := os.Getenv("SSE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			sse.Port = p
		}
	}
	if v := os.Getenv("PARTICIPANT_HOST"); v != "" {
		lp.Host = v
	}
	if v := os.Getenv("PARTICIPANT_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			lp.Port = p
		}
	}
	if v := os.Getenv("PARTICIPANT_INDEX"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			lp.Index = p
		}
	}
	if v := os.Getenv("SIGN_SERVICE_KEY_SHARE_FILE"); v != "" {
		mpc.KeyShareFile = v
	}
}

// Validate checks the boundary behaviours spec §8 requires at startup:
// t < 2 or t > n is rejected.
func (c *ParticipantConfig) Validate() error {
	if c.MPC.Threshold < 2 || c.MPC.Threshold > c.MPC.TotalParticipants {
		return errs.New(errs.Config, "Validate", errors.Errorf(
			"threshold %d invalid for %d participants", c.MPC.Threshold, c.MPC.TotalParticipants))
	}
	if c.MPC.KeyShareFile == "" {
		return errs.New(errs.Config, "Validate", errors.New("mpc.key_share_file is required"))
	}
	return nil
}

// LoadClientConfig reads and parses path for the orchestrator binary.
func LoadClientConfig(path string) (*ClientConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.Config, "LoadClientConfig", err)
	}
	var cfg ClientConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errs.New(errs.Config, "LoadClientConfig", errors.Wrap(err, "parse yaml"))
	}
	if cfg.MPC.Threshold < 2 || cfg.MPC.Threshold > cfg.MPC.TotalParticipants {
		return nil, errs.New(errs.Config, "LoadClientConfig", errors.Errorf(
			"threshold %d invalid for %d participants", cfg.MPC.Threshold, cfg.MPC.TotalParticipants))
	}
	if len(cfg.RemoteParticipants) == 0 && cfg.LocalParticipant == nil {
		return nil, errs.New(errs.Config, "LoadClientConfig", errors.New("no participants configured"))
	}
	return &cfg, nil
}
