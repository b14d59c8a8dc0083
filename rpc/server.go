package rpc

import (
	"context"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/bnb-chain/threshold-signer/internal/errs"
)

// Handler implements the Participant service's single method.
type Handler interface {
	SignTx(ctx context.Context, req *SignMessage) (*SignatureMessage, error)
}

// Server accepts connections implementing the length-prefixed transport and
// dispatches each frame to a Handler. Multiple SignTx calls may proceed in
// parallel (spec §4.B "Concurrency"): each connection is served by its own
// goroutine, and each frame on a connection is handled synchronously
// (a single Participant-Node dial is used for one call in this design; see
// client.Orchestrator for how concurrency across participants is achieved).
type Server struct {
	log      *zap.Logger
	handler  Handler
	listener net.Listener

	mu       sync.Mutex
	draining bool
	inFlight sync.WaitGroup
}

// NewServer wraps handler to be served over addr once Serve is called.
func NewServer(handler Handler, log *zap.Logger) *Server {
	return &Server{handler: handler, log: log}
}

// Listen binds addr; callers should call Serve next.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errs.New(errs.Init, "Listen", err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address; valid after Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve blocks accepting connections until the listener is closed.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		s.mu.Lock()
		draining := s.draining
		s.mu.Unlock()
		if draining {
			conn.Close()
			continue
		}
		s.inFlight.Add(1)
		go s.serveConn(conn)
	}
}

// serveConn runs the read/dispatch/write loop for one connection. Frames are
// read by a dedicated goroutine so that a connection drop can be noticed
// (and turned into handler cancellation, spec §5 "Cancellation & timeouts")
// even while a call is still in flight: rpc.Client serialises calls on its
// own mutex, so at most one call is ever outstanding per connection and the
// next readFrame naturally blocks until this call's reply goes out, or the
// peer goes away.
func (s *Server) serveConn(conn net.Conn) {
	defer s.inFlight.Done()
	defer conn.Close()

	frames := make(chan *envelope)
	errc := make(chan error, 1)
	go func() {
		for {
			req, err := readFrame(conn)
			if err != nil {
				errc <- err
				return
			}
			frames <- req
		}
	}()

	for {
		var req *envelope
		select {
		case req = <-frames:
		case <-errc:
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan *envelope, 1)
		go func() { done <- s.dispatch(ctx, req) }()

		var resp *envelope
		select {
		case resp = <-done:
		case <-errc:
			// the connection dropped while this call was still running;
			// cancel the handler and let it unwind before tearing down.
			cancel()
			<-done
			return
		}
		cancel()

		if err := writeFrame(conn, resp); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req *envelope) *envelope {
	switch req.Method {
	case methodSignTx:
		sig, err := s.handler.SignTx(ctx, req.Request)
		if err != nil {
			return errReply(err)
		}
		return &envelope{Method: methodSignTx, Response: sig}
	default:
		return &envelope{Method: req.Method, ErrKind: string(errs.Serialisation), ErrMsg: "unknown method"}
	}
}

func errReply(err error) *envelope {
	kind := errs.KindOf(err)
	if kind == "" {
		kind = errs.Protocol
	}
	return &envelope{ErrKind: string(kind), ErrMsg: err.Error()}
}

// Shutdown stops accepting new connections and waits (up to the caller's
// context) for in-flight calls to drain, per spec §4.B "Shutdown".
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()
	if s.listener != nil {
		s.listener.Close()
	}
	done := make(chan struct{})
	go func() {
		s.inFlight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
