package rpc

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/bnb-chain/threshold-signer/internal/errs"
)

// noDeadline clears any previously set read/write deadline on the conn.
var noDeadline time.Time

// Client is a persistent connection to one Participant Node. Concurrent
// SignTx calls are serialised on the single connection, matching spec §5's
// "one handle per remote, interior-mutable via a mutex so concurrent sign
// calls can send on the same multiplexed channel".
type Client struct {
	mu   sync.Mutex
	conn net.Conn
}

// Dial opens a persistent connection to a Participant Node at addr.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errs.New(errs.Network, "Dial", err)
	}
	return &Client{conn: conn}, nil
}

// SignTx sends req and waits for a SignatureMessage or an error reply.
func (c *Client) SignTx(ctx context.Context, req *SignMessage) (*SignatureMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dl, ok := ctx.Deadline(); ok {
		_ = c.conn.SetDeadline(dl)
	} else {
		_ = c.conn.SetDeadline(noDeadline)
	}

	if err := writeFrame(c.conn, &envelope{Method: methodSignTx, Request: req}); err != nil {
		return nil, err
	}
	reply, err := readFrame(c.conn)
	if err != nil {
		return nil, err
	}
	if reply.ErrKind != "" {
		return nil, errs.New(errs.Kind(reply.ErrKind), "SignTx", errorString(reply.ErrMsg))
	}
	return reply.Response, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

type errorString string

func (e errorString) Error() string { return string(e) }
