package chi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/esdex/internal/logger"
)

const (
	defaultWatchInterval = 30 * time.Second
	watchWriteTimeout    = 10 * time.Second
)

// Event types pushed on /_ws.
const (
	eventClusterHealth = "cluster_health"
	eventClusterStats  = "cluster_stats"
	eventIndices       = "indices"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Watch handles GET /_ws. It pushes a cluster snapshot (health, stats, then
// indices) on connect and once per watch interval until the peer goes away.
// Client messages are read and ignored.
func (s *Server) Watch(w http.ResponseWriter, r *http.Request) {
	logger := logpkg.FromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()
	// The hijacked connection keeps the server's request read deadline.
	_ = conn.SetReadDeadline(time.Time{})
	logger.Info("WebSocket connection established")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			logger.Debug("WebSocket message received", zap.ByteString("message", msg))
		}
	}()

	ticker := time.NewTicker(s.watchInterval)
	defer ticker.Stop()
	for {
		if err := s.pushSnapshot(conn); err != nil {
			logger.Debug("WebSocket push failed", zap.Error(err))
			return
		}
		select {
		case <-done:
			logger.Info("WebSocket connection closed")
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) pushSnapshot(conn *websocket.Conn) error {
	stats := s.store.Stats()
	indices := make([]any, 0, len(stats.Indices))
	for _, idx := range stats.Indices {
		indices = append(indices, map[string]any{
			"index":      idx.Name,
			"health":     "green",
			"status":     "open",
			"docs_count": idx.Documents,
			"aliases":    idx.Aliases,
		})
	}

	events := []struct {
		typ  string
		data any
	}{
		{eventClusterHealth, clusterHealthJSON(s.store.ClusterHealth())},
		{eventClusterStats, clusterStatsJSON(s.store.ClusterStats())},
		{eventIndices, indices},
	}
	for _, e := range events {
		_ = conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
		if err := conn.WriteJSON(map[string]any{"type": e.typ, "data": e.data}); err != nil {
			return fmt.Errorf("write %s: %w", e.typ, err)
		}
	}
	return nil
}
