package rpc

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"net"

	"github.com/bnb-chain/threshold-signer/internal/errs"
)

// maxFrameLen bounds a single RPC frame; well above any SignMessage or
// SignatureMessage, guards against a corrupt length prefix driving an
// unbounded allocation.
const maxFrameLen = 1 << 20

// method names the single RPC the Participant service exposes, plus an
// error-carrying reply variant.
type method string

const (
	methodSignTx method = "SignTx"
)

// envelope is the gob-encoded unit sent after the 4-byte length prefix.
type envelope struct {
	Method   method
	Request  *SignMessage
	Response *SignatureMessage
	ErrKind  string
	ErrMsg   string
}

func init() {
	gob.Register(SignMessage{})
	gob.Register(SignatureMessage{})
}

// writeFrame gob-encodes env and writes it to conn behind a 4-byte
// big-endian length prefix.
func writeFrame(conn net.Conn, env *envelope) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return errs.New(errs.Serialisation, "writeFrame", err)
	}
	if buf.Len() > maxFrameLen {
		return errs.New(errs.Serialisation, "writeFrame", fmt.Errorf("frame too large: %d bytes", buf.Len()))
	}
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(buf.Len()))
	if _, err := conn.Write(lenPrefix[:]); err != nil {
		return errs.New(errs.Network, "writeFrame", err)
	}
	if _, err := conn.Write(buf.Bytes()); err != nil {
		return errs.New(errs.Network, "writeFrame", err)
	}
	return nil
}

// readFrame reads one length-prefixed gob-encoded envelope from conn.
func readFrame(conn net.Conn) (*envelope, error) {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(conn, lenPrefix[:]); err != nil {
		return nil, errs.New(errs.Network, "readFrame", err)
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])
	if n > maxFrameLen {
		return nil, errs.New(errs.Serialisation, "readFrame", fmt.Errorf("frame too large: %d bytes", n))
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(conn, body); err != nil {
		return nil, errs.New(errs.Network, "readFrame", err)
	}
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&env); err != nil {
		return nil, errs.New(errs.Serialisation, "readFrame", err)
	}
	return &env, nil
}
