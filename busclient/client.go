// Package busclient is the Room Bus HTTP/SSE client used by a Participant
// Node to join a signing session's room: broadcast/P2P message envelopes in
// (spec §3), filtered incoming/outgoing channels out (spec §9 "Coroutines
// carrying session state"). Grounded on
// original_source/participant/src/client.rs's Client/Room/join_room.
package busclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bnb-chain/threshold-signer/internal/errs"
)

// Envelope is the wire shape of one message inside a room (spec §3).
// Receiver == nil means broadcast to every party in the room.
type Envelope struct {
	Sender   uint16  `json:"sender"`
	Receiver *uint16 `json:"receiver,omitempty"`
	Body     string  `json:"body"`
}

// Client talks to one Room Bus instance at baseURL.
type Client struct {
	http    *http.Client
	baseURL string
}

// New builds a Client for a Room Bus reachable at baseURL, e.g.
// "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 0}, // SSE needs a long-lived connection
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Room returns a handle scoped to one room_id.
func (c *Client) Room(roomID string) *Room {
	return &Room{client: c, roomID: roomID}
}

// Room is a Room Bus client scoped to a single room_id.
type Room struct {
	client *Client
	roomID string
}

func (r *Room) endpoint(suffix string) string {
	return fmt.Sprintf("%s/rooms/%s/%s", r.client.baseURL, r.roomID, suffix)
}

// Broadcast appends message to the room's log (spec §4.A POST /broadcast).
func (r *Room) Broadcast(ctx context.Context, message string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint("broadcast"), bytes.NewBufferString(message))
	if err != nil {
		return errs.New(errs.Network, "Broadcast", err)
	}
	resp, err := r.client.http.Do(req)
	if err != nil {
		return errs.New(errs.Network, "Broadcast", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errs.New(errs.Network, "Broadcast", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return nil
}

// IssueUniqueIdx requests the next unique index from the room's counter
// (spec §4.A POST /issue_unique_idx).
func (r *Room) IssueUniqueIdx(ctx context.Context) (uint16, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint("issue_unique_idx"), nil)
	if err != nil {
		return 0, errs.New(errs.Network, "IssueUniqueIdx", err)
	}
	resp, err := r.client.http.Do(req)
	if err != nil {
		return 0, errs.New(errs.Network, "IssueUniqueIdx", err)
	}
	defer resp.Body.Close()
	var out struct {
		UniqueIdx uint16 `json:"unique_idx"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, errs.New(errs.Serialisation, "IssueUniqueIdx", err)
	}
	return out.UniqueIdx, nil
}

// Event is one delivered SSE message.
type Event struct {
	ID   int
	Data string
}

// Subscribe opens an SSE stream starting after lastEventID (-1 for the
// beginning), emitting events on the returned channel until ctx is
// cancelled or the stream ends. Both returned channels are closed on exit;
// if the stream stopped with an error, that error is sent on the error
// channel before it is closed.
func (r *Room) Subscribe(ctx context.Context, lastEventID int) (<-chan Event, <-chan error, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint("subscribe"), nil)
	if err != nil {
		return nil, nil, errs.New(errs.Network, "Subscribe", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if lastEventID >= 0 {
		req.Header.Set("Last-Event-ID", strconv.Itoa(lastEventID))
	}
	resp, err := r.client.http.Do(req)
	if err != nil {
		return nil, nil, errs.New(errs.Network, "Subscribe", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, nil, errs.New(errs.Network, "Subscribe", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	events := make(chan Event)
	errCh := make(chan error, 1)
	go func() {
		defer close(events)
		defer close(errCh)
		defer resp.Body.Close()
		if err := scanSSE(ctx, resp.Body, events); err != nil {
			errCh <- err
		}
	}()
	return events, errCh, nil
}

// scanSSE parses the "event: .../id: .../data: ...\n\n" framing spec §6
// describes, emitting one Event per frame.
func scanSSE(ctx context.Context, body io.Reader, out chan<- Event) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var id int
	var haveID bool
	var data strings.Builder

	flush := func() bool {
		if !haveID {
			return true
		}
		select {
		case out <- Event{ID: id, Data: data.String()}:
		case <-ctx.Done():
			return false
		}
		haveID = false
		data.Reset()
		return true
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if !flush() {
				return ctx.Err()
			}
		case strings.HasPrefix(line, "id: "):
			n, err := strconv.Atoi(strings.TrimPrefix(line, "id: "))
			if err != nil {
				return errs.New(errs.Serialisation, "scanSSE", err)
			}
			id = n
			haveID = true
		case strings.HasPrefix(line, "data: "):
			data.WriteString(strings.TrimPrefix(line, "data: "))
		default:
			// "event: new-message", "retry: 5000", or a comment; ignored.
		}
	}
	if err := scanner.Err(); err != nil {
		return errs.New(errs.Network, "scanSSE", err)
	}
	return nil
}

// retryBackoff is used by callers re-subscribing after a dropped stream,
// matching the 5s retry hint the Room Bus advertises (spec §4.A).
const retryBackoff = 5 * time.Second
