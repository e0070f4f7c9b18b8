package live

import (
	"context"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// reloadSignal is the message pages listen for.
const reloadSignal = "reload"

// hub fans one reload signal out to every connected page.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *hub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	slog.Debug("page connected", "clients", n)
}

func (h *hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	slog.Debug("page disconnected", "clients", n)
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast tells every connected page to reload. Clients that cannot
// be written to are dropped.
func (h *hub) broadcast(ctx context.Context) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()
	if len(conns) == 0 {
		return
	}
	slog.Info("broadcasting reload", "clients", len(conns))
	for _, c := range conns {
		if err := c.Write(ctx, websocket.MessageText, []byte(reloadSignal)); err != nil {
			slog.Debug("dropping client", "error", err)
			h.remove(c)
			_ = c.CloseNow()
		}
	}
}
