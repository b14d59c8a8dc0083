// Command dealer is the offline Share Dealer CLI (spec §4.D): it splits a
// pre-derived child key into n threshold-ECDSA shares and writes one bundle
// file per party.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"filippo.io/age"
	"github.com/spf13/cobra"

	"github.com/bnb-chain/threshold-signer/dealer"
)

var (
	childKeyHex string
	accountID   string
	nParties    int
	threshold   int
	outputFile  string
	pubkeysCSV  string

	rootCmd = &cobra.Command{
		Use:   "dealer",
		Short: "Split a child key into threshold-ECDSA shares",
		Long:  "Offline trusted-dealer CLI: splits a pre-derived secret scalar into n KeyShares plus auxiliary MPC material and writes one bundle per party.",
		RunE:  runDealer,
	}
)

func init() {
	rootCmd.Flags().StringVar(&childKeyHex, "child-key", "", "32-byte child key, hex-encoded (required)")
	rootCmd.Flags().StringVar(&accountID, "account-id", "", "account_id this key is filed under (required)")
	rootCmd.Flags().IntVarP(&nParties, "n", "n", 0, "total number of parties (required)")
	rootCmd.Flags().IntVarP(&threshold, "t", "t", 0, "signing threshold (required)")
	rootCmd.Flags().StringVar(&outputFile, "output", "", "output bundle filename prefix (required)")
	rootCmd.Flags().StringVar(&pubkeysCSV, "pubkeys", "", "comma-separated age public keys, one per party, to encrypt each bundle")

	_ = rootCmd.MarkFlagRequired("child-key")
	_ = rootCmd.MarkFlagRequired("account-id")
	_ = rootCmd.MarkFlagRequired("n")
	_ = rootCmd.MarkFlagRequired("t")
	_ = rootCmd.MarkFlagRequired("output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dealer: %v\n", err)
		os.Exit(1)
	}
}

func runDealer(cmd *cobra.Command, args []string) error {
	raw, err := hex.DecodeString(strings.TrimPrefix(childKeyHex, "0x"))
	if err != nil {
		return fmt.Errorf("ChildKeyMalformed: --child-key is not valid hex: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("ChildKeyMalformed: --child-key must be 32 bytes, got %d", len(raw))
	}
	var childKey [32]byte
	copy(childKey[:], raw)

	recipients, err := parseRecipients(pubkeysCSV, nParties)
	if err != nil {
		return err
	}

	result, err := dealer.Generate(dealer.Config{
		NParties:  nParties,
		Threshold: threshold,
		AccountID: accountID,
		ChildKey:  childKey,
	})
	if err != nil {
		return err
	}

	if err := dealer.Save(result, dealer.SaveOptions{
		OutputPrefix: outputFile,
		AccountID:    accountID,
		Recipients:   recipients,
	}); err != nil {
		return err
	}

	fmt.Printf("wrote %d shares for account %q under prefix %q (public key %x)\n",
		nParties, accountID, outputFile, result.PublicKey.X().Bytes())
	return nil
}

// parseRecipients splits --pubkeys into one age.Recipient per party, or
// returns nil if the flag was omitted (bundles stay plaintext).
func parseRecipients(csv string, n int) ([]age.Recipient, error) {
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("AgeKeyInvalid: --pubkeys has %d entries, expected %d (one per party)", len(parts), n)
	}
	out := make([]age.Recipient, n)
	for i, p := range parts {
		r, err := age.ParseX25519Recipient(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("AgeKeyInvalid: party %d's public key: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}
