package busclient

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Incoming is one message delivered to a joined party, already filtered so
// that only messages addressed to it arrive (spec §3 "Message routing").
type Incoming struct {
	Sender    uint16
	Broadcast bool
	Body      string
}

// Outgoing is a message a joined party wants to send, either to everyone
// else in the room (Receiver == nil) or to exactly one other party.
type Outgoing struct {
	Receiver *uint16
	Body     string
}

// Session is a joined room: an inbound stream of messages meant for self,
// and an outbound sink that wraps and broadcasts messages on self's behalf.
// Grounded on original_source/participant/src/client.rs's join_room, which
// turns a raw SSE byte stream into a filtered, typed (Incoming, Outgoing)
// channel pair.
type Session struct {
	Incoming <-chan Incoming
	Outgoing chan<- Outgoing

	cancel context.CancelFunc
	errCh  <-chan error
}

// Err returns the reason the session's read loop stopped, if any. Only
// meaningful once Incoming has been closed.
func (s *Session) Err() error {
	select {
	case err := <-s.errCh:
		return err
	default:
		return nil
	}
}

// Close tears down the session's background goroutines.
func (s *Session) Close() {
	s.cancel()
}

// JoinRoom subscribes self (identified by index, its party index within the
// signing session) to room, returning a Session whose Incoming channel
// carries only messages addressed to self and whose Outgoing channel lets
// self broadcast or send point-to-point.
//
// The filtering predicate matches client.rs exactly: a message is delivered
// to self iff it was not sent by self, and it is either a broadcast
// (receiver == nil) or addressed to self specifically.
func JoinRoom(ctx context.Context, room *Room, index uint16, log *zap.Logger) (*Session, error) {
	events, subErrCh, err := room.Subscribe(ctx, -1)
	if err != nil {
		return nil, err
	}

	sessCtx, cancel := context.WithCancel(ctx)
	incoming := make(chan Incoming)
	outgoing := make(chan Outgoing)
	errCh := make(chan error, 1)

	// reconnect re-subscribes from lastID after the stream drops, retrying
	// with a backoff until it succeeds or sessCtx is done (spec §7 "Network
	// — SSE disconnect: local recovery where cheap").
	reconnect := func(lastID int) (<-chan Event, <-chan error, bool) {
		for {
			select {
			case <-time.After(retryDelay()):
			case <-sessCtx.Done():
				return nil, nil, false
			}
			newEvents, newErrCh, err := room.Subscribe(sessCtx, lastID)
			if err != nil {
				if log != nil {
					log.Warn("SSE reconnect failed, retrying", zap.Error(err))
				}
				continue
			}
			return newEvents, newErrCh, true
		}
	}

	go func() {
		defer close(incoming)
		curEvents, curErrCh := events, subErrCh
		lastID := -1
		for {
			select {
			case ev, ok := <-curEvents:
				if !ok {
					if err := <-curErrCh; err != nil {
						if sessCtx.Err() != nil {
							errCh <- err
							return
						}
						if log != nil {
							log.Warn("SSE stream dropped, reconnecting", zap.Error(err), zap.Int("last_event_id", lastID))
						}
						ne, nec, ok := reconnect(lastID)
						if !ok {
							return
						}
						curEvents, curErrCh = ne, nec
						continue
					}
					return // stream ended without error (server closed it); not re-subscribed
				}
				lastID = ev.ID
				var env Envelope
				if err := json.Unmarshal([]byte(ev.Data), &env); err != nil {
					if log != nil {
						log.Warn("dropping malformed room message", zap.Error(err))
					}
					continue
				}
				if env.Sender == index {
					continue // self-sent, never deliver back
				}
				if env.Receiver != nil && *env.Receiver != index {
					continue // addressed to someone else
				}
				select {
				case incoming <- Incoming{
					Sender:    env.Sender,
					Broadcast: env.Receiver == nil,
					Body:      env.Body,
				}:
				case <-sessCtx.Done():
					return
				}
			case <-sessCtx.Done():
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case out, ok := <-outgoing:
				if !ok {
					return
				}
				env := Envelope{Sender: index, Receiver: out.Receiver, Body: out.Body}
				raw, err := json.Marshal(env)
				if err != nil {
					if log != nil {
						log.Error("failed to encode outgoing message", zap.Error(err))
					}
					continue
				}
				if err := room.Broadcast(sessCtx, string(raw)); err != nil {
					if log != nil {
						log.Error("broadcast failed", zap.Error(err))
					}
				}
			case <-sessCtx.Done():
				return
			}
		}
	}()

	return &Session{
		Incoming: incoming,
		Outgoing: outgoing,
		cancel:   cancel,
		errCh:    errCh,
	}, nil
}

// retryDelay is how long a caller should wait before re-subscribing after a
// dropped SSE stream, mirroring the bus server's advertised retry hint.
func retryDelay() time.Duration { return retryBackoff }
