package chi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/esdex/internal/usecase/cluster"
)

// Info handles GET /.
func (s *Server) Info(w http.ResponseWriter, _ *http.Request) {
	info := s.store.Info()
	writeJSON(w, http.StatusOK, map[string]any{
		"name":         info.Name,
		"cluster_name": info.ClusterName,
		"cluster_uuid": info.ClusterUUID,
		"version": map[string]any{
			"number":                              info.Version,
			"build_flavor":                        "default",
			"build_type":                          "docker",
			"minimum_wire_compatibility_version":  "7.17.0",
			"minimum_index_compatibility_version": "7.0.0",
		},
		"tagline": "You Know, for Search",
	})
}

// Ping handles HEAD /.
func (s *Server) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.store.Check(r.Context())
	status := http.StatusOK
	if report.Status != cluster.Healthy {
		status = http.StatusServiceUnavailable
	}
	checks := make(map[string]string, len(report.Checks))
	for name, c := range report.Checks {
		checks[name] = string(c)
	}
	writeJSON(w, status, map[string]any{"status": string(report.Status), "checks": checks})
}

// ClusterHealth handles GET /_cluster/health.
func (s *Server) ClusterHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, clusterHealthJSON(s.store.ClusterHealth()))
}

func clusterHealthJSON(h cluster.Health) map[string]any {
	return map[string]any{
		"cluster_name":                     h.ClusterName,
		"status":                           h.Status,
		"timed_out":                        false,
		"number_of_nodes":                  h.Nodes,
		"number_of_data_nodes":             h.DataNodes,
		"active_primary_shards":            h.PrimaryShards,
		"active_shards":                    h.ActiveShards,
		"relocating_shards":                0,
		"initializing_shards":              0,
		"unassigned_shards":                0,
		"delayed_unassigned_shards":        0,
		"number_of_pending_tasks":          0,
		"number_of_in_flight_fetch":        0,
		"task_max_waiting_in_queue_millis": 0,
		"active_shards_percent_as_number":  100.0,
	}
}

// ClusterStats handles GET /_cluster/stats.
func (s *Server) ClusterStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, clusterStatsJSON(s.store.ClusterStats()))
}

func clusterStatsJSON(st cluster.Stats) map[string]any {
	return map[string]any{
		"cluster_name": st.ClusterName,
		"cluster_uuid": st.ClusterUUID,
		"status":       st.Status,
		"indices": map[string]any{
			"count": st.Indices,
			"shards": map[string]any{
				"total":       st.Indices,
				"primaries":   st.Indices,
				"replication": 0,
			},
			"docs": map[string]any{"count": st.Documents, "deleted": 0},
		},
		"nodes": map[string]any{
			"count":    map[string]any{"total": 1, "data": 1, "master": 1},
			"versions": []string{st.Version},
		},
	}
}

// CatIndices handles GET /_cat/indices. With ?v a header row and per-index
// columns are printed, otherwise one index name per line.
func (s *Server) CatIndices(w http.ResponseWriter, r *http.Request) {
	stats := s.store.Stats()
	_, verbose := r.URL.Query()["v"]

	var b strings.Builder
	if verbose {
		b.WriteString("health status index uuid pri rep docs.count store.size\n")
	}
	for _, idx := range stats.Indices {
		if verbose {
			fmt.Fprintf(&b, "green open %s - 1 0 %d -\n", idx.Name, idx.Documents)
			continue
		}
		b.WriteString(idx.Name)
		b.WriteByte('\n')
	}

	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

// Refresh handles GET|POST /_refresh and /{index}/_refresh.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var names []string
	if target := chi.URLParam(r, "index"); target != "" {
		resolved, err := s.store.Resolve(target)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		if len(resolved) == 0 {
			writeJSON(w, http.StatusOK, map[string]any{"_shards": shards(0)})
			return
		}
		names = resolved
	}
	refreshed, err := s.store.Refresh(r.Context(), names...)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"_shards": shards(len(refreshed))})
}
