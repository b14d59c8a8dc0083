package keyshare

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"filippo.io/age"
	"github.com/pkg/errors"

	"github.com/bnb-chain/threshold-signer/internal/errs"
)

// Bundle is the account_id -> KeyShare mapping persisted as a single file
// per party (spec §3 "KeyBundle").
type Bundle map[string]*KeyShare

// encryptedSuffix marks a bundle file as age-encrypted, e.g. "dealer_1.json.age".
const encryptedSuffix = ".age"

// LoadBundle reads a plain-JSON bundle file; a missing file yields an empty
// bundle. It does not decrypt: age-encrypted files are read with
// LoadEncryptedBundle.
func LoadBundle(path string) (Bundle, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Bundle{}, nil
	}
	if err != nil {
		return nil, errs.New(errs.Init, "LoadBundle", err)
	}
	b := Bundle{}
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, errs.New(errs.Serialisation, "LoadBundle", err)
	}
	return b, nil
}

// LoadEncryptedBundle decrypts path with identity and parses the resulting
// plaintext as a Bundle.
func LoadEncryptedBundle(path string, identity age.Identity) (Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.New(errs.Init, "LoadEncryptedBundle", err)
	}
	defer f.Close()
	r, err := age.Decrypt(f, identity)
	if err != nil {
		return nil, errs.New(errs.Init, "LoadEncryptedBundle", errors.Wrap(err, "age decrypt"))
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.New(errs.Init, "LoadEncryptedBundle", err)
	}
	b := Bundle{}
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, errs.New(errs.Serialisation, "LoadEncryptedBundle", err)
	}
	return b, nil
}

// BundlePathFor returns the canonical filename for party i's bundle:
// "{prefix}_{i+1}.json", optionally with an ".age" suffix.
func BundlePathFor(prefix string, partyIndex int, encrypted bool) string {
	p := prefixIndexed(prefix, partyIndex)
	if encrypted {
		return p + encryptedSuffix
	}
	return p
}

func prefixIndexed(prefix string, partyIndex int) string {
	return prefix + "_" + strconv.Itoa(partyIndex+1) + ".json"
}

// SaveAccount inserts/overwrites accountID -> share into the bundle file for
// partyIndex, following the append semantics of spec §4.D step 5: look for
// an existing encrypted file first, then a plain one; refuse to append to an
// encrypted file; otherwise merge and rewrite, encrypting to recipient if
// one was supplied for this party.
func SaveAccount(prefix string, partyIndex int, accountID string, share *KeyShare, recipient age.Recipient) error {
	plainPath := prefixIndexed(prefix, partyIndex)
	encPath := plainPath + encryptedSuffix

	existing := Bundle{}
	switch {
	case fileExists(encPath):
		return errs.New(errs.InvalidArgument, "SaveAccount",
			errors.Errorf("cannot append to encrypted file %s: decrypt manually first (AppendToEncryptedRefused)", encPath))
	case fileExists(plainPath):
		b, err := LoadBundle(plainPath)
		if err != nil {
			return err
		}
		existing = b
	}

	existing[accountID] = share

	raw, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return errs.New(errs.Serialisation, "SaveAccount", err)
	}

	if recipient != nil {
		return writeEncrypted(encPath, raw, recipient)
	}
	if err := os.WriteFile(plainPath, raw, 0o600); err != nil {
		return errs.New(errs.Init, "SaveAccount", err)
	}
	return nil
}

func writeEncrypted(path string, plaintext []byte, recipient age.Recipient) error {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return errs.New(errs.Init, "writeEncrypted", errors.Wrap(err, "age encrypt"))
	}
	if _, err := w.Write(plaintext); err != nil {
		return errs.New(errs.Init, "writeEncrypted", err)
	}
	if err := w.Close(); err != nil {
		return errs.New(errs.Init, "writeEncrypted", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return errs.New(errs.Init, "writeEncrypted", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
