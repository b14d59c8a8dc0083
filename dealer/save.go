package dealer

import (
	"github.com/pkg/errors"

	"filippo.io/age"

	"github.com/bnb-chain/threshold-signer/internal/errs"
	"github.com/bnb-chain/threshold-signer/keyshare"
)

// SaveOptions controls bundle persistence for Save.
type SaveOptions struct {
	OutputPrefix string
	AccountID    string
	// Recipients, if non-nil, must have exactly len(Recipients) == n entries;
	// Recipients[i] may be nil to leave party i's bundle in plaintext.
	Recipients []age.Recipient
}

// Save writes each party's share into its bundle file, following the
// append/overwrite/refuse-if-encrypted semantics of spec §4.D step 5.
func Save(result *Result, opts SaveOptions) error {
	n := len(result.Shares)
	if opts.Recipients != nil && len(opts.Recipients) != n {
		return errs.New(errs.InvalidArgument, "Save", errors.Errorf("expected %d recipients, got %d", n, len(opts.Recipients)))
	}
	for i, share := range result.Shares {
		var recipient age.Recipient
		if opts.Recipients != nil {
			recipient = opts.Recipients[i]
		}
		if err := keyshare.SaveAccount(opts.OutputPrefix, i, opts.AccountID, share, recipient); err != nil {
			return err
		}
	}
	return nil
}
