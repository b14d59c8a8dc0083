package bus

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// maxBroadcastBody bounds a single broadcast body (spec §6: "Bodies up to
// 100 MiB").
const maxBroadcastBody = 100 << 20

// Server exposes the Room Bus's three HTTP endpoints (spec §4.A).
type Server struct {
	reg *Registry
	log *zap.Logger
}

// NewServer builds a Server over reg.
func NewServer(reg *Registry, log *zap.Logger) *Server {
	return &Server{reg: reg, log: log}
}

// Handler returns the http.Handler implementing the three routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rooms/{id}/broadcast", s.handleBroadcast)
	mux.HandleFunc("GET /rooms/{id}/subscribe", s.handleSubscribe)
	mux.HandleFunc("POST /rooms/{id}/issue_unique_idx", s.handleIssueUniqueIdx)
	return mux
}

func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBroadcastBody+1))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(body) > maxBroadcastBody {
		http.Error(w, "body too large", http.StatusBadRequest)
		return
	}
	room := s.reg.GetOrCreate(roomID)
	id := room.Publish(string(body))
	if s.log != nil {
		s.log.Debug("broadcast", zap.String("room", roomID), zap.Int("id", id))
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleIssueUniqueIdx(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}
	room := s.reg.GetOrCreate(roomID)
	idx := room.IssueUniqueIdx()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		UniqueIdx uint16 `json:"unique_idx"`
	}{UniqueIdx: idx})
}

// lastEventID extracts the Last-Event-ID request header (spec §4.A), or -1
// if absent/malformed so the subscription starts from the beginning.
func lastEventID(r *http.Request) int {
	v := r.Header.Get("Last-Event-ID")
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	room := s.reg.GetOrCreate(roomID)
	sub := room.Subscribe(lastEventID(r))
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "retry: 5000\n\n")
	flusher.Flush()

	ctx := r.Context()
	for {
		id, body, err := sub.Next(ctx)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "event: new-message\nid: %d\ndata: %s\n\n", id, body)
		flusher.Flush()
	}
}
