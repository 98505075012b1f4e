package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"xtracker/internal/repository"
)

// ChangeEvent records one tracking whose cumulative moved during a cycle.
// Negative change is a legitimate event; remote corrections count too.
type ChangeEvent struct {
	TrackingID         string `json:"tracking_id"`
	Title              string `json:"title"`
	PreviousCumulative int    `json:"previous_cumulative"`
	CurrentCumulative  int    `json:"current_cumulative"`
	Change             int    `json:"change"`
}

// UpdatePayload is the frame broadcast to every subscriber after a cycle that
// observed changes.
type UpdatePayload struct {
	Trackings   []repository.TrackingRow `json:"trackings"`
	Summary     repository.Summary       `json:"summary"`
	LastUpdate  float64                  `json:"last_update"`
	Changes     []ChangeEvent            `json:"changes"`
	DataChanged bool                     `json:"data_changed"`
}

type wsFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	Time float64         `json:"server_time,omitempty"`
}

// SummaryChanged reports whether two summaries differ in any counter. The
// broadcast decision also considers per-tracking change events; this covers
// the coarse counts.
func SummaryChanged(prev, cur repository.Summary) bool {
	return prev.Total != cur.Total ||
		prev.Active != cur.Active ||
		prev.Inactive != cur.Inactive
}

// Hub fans broadcast frames out to websocket subscribers. Slow subscribers
// are dropped rather than allowed to stall a cycle.
type Hub struct {
	logger     *zap.Logger
	sendBuffer int

	mu          sync.RWMutex
	subs        map[chan []byte]struct{}
	lastUpdate  *UpdatePayload
	lastChanges []ChangeEvent
}

func NewHub(logger *zap.Logger, sendBuffer int) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sendBuffer <= 0 {
		sendBuffer = 16
	}
	return &Hub{
		logger:     logger,
		sendBuffer: sendBuffer,
		subs:       map[chan []byte]struct{}{},
	}
}

func (h *Hub) Subscribe() chan []byte {
	ch := make(chan []byte, h.sendBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan []byte) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// BroadcastUpdate marshals once and pushes to every subscriber without
// blocking; a subscriber whose buffer is full misses the frame.
func (h *Hub) BroadcastUpdate(payload UpdatePayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal update payload", zap.Error(err))
		return
	}
	frame, err := json.Marshal(wsFrame{Type: "data_update", Data: data})
	if err != nil {
		h.logger.Error("failed to marshal ws frame", zap.Error(err))
		return
	}
	h.mu.Lock()
	h.lastUpdate = &payload
	h.lastChanges = payload.Changes
	dropped := 0
	for ch := range h.subs {
		select {
		case ch <- frame:
		default:
			dropped++
		}
	}
	n := len(h.subs)
	h.mu.Unlock()
	h.logger.Info("broadcast data_update",
		zap.Int("subscribers", n),
		zap.Int("dropped", dropped),
		zap.Int("changes", len(payload.Changes)))
}

// LastUpdate returns the most recently broadcast payload, nil before the
// first broadcast.
func (h *Hub) LastUpdate() *UpdatePayload {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.lastUpdate == nil {
		return nil
	}
	cp := *h.lastUpdate
	return &cp
}

func (h *Hub) LastChanges() []ChangeEvent {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]ChangeEvent(nil), h.lastChanges...)
}

// ServeWS upgrades the request, greets the client with server_time, and
// relays broadcast frames until the client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	ctx := r.Context()
	greeting, _ := json.Marshal(wsFrame{
		Type: "connected",
		Time: float64(time.Now().UnixNano()) / float64(time.Second),
	})
	if err := conn.Write(ctx, websocket.MessageText, greeting); err != nil {
		return
	}

	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	// Drain client frames so pings and close frames are processed.
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-ch:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := conn.Write(writeCtx, websocket.MessageText, frame)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
