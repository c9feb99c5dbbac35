// Package cluster reports node liveness and Elasticsearch-style cluster
// information for a single-node deployment.
package cluster

import (
	"context"

	"github.com/google/uuid"
)

// Status represents the aggregated liveness status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// HealthGreen is the only cluster health a single node reports.
const HealthGreen = "green"

// Report aggregates liveness check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Info identifies the node.
type Info struct {
	Name        string
	ClusterName string
	ClusterUUID string
	Version     string
}

// Health is the Elasticsearch cluster health summary.
type Health struct {
	ClusterName   string
	Status        string
	Nodes         int
	DataNodes     int
	ActiveShards  int
	PrimaryShards int
	Indices       int
}

// Stats is the cluster-wide summary.
type Stats struct {
	ClusterName string
	ClusterUUID string
	Version     string
	Status      string
	Indices     int
	Documents   int
}

// Service reports cluster state.
type Service struct {
	db    DBPinger
	stats StatsReader
	info  Info
}

// New creates a Service. db can be nil when there is no backend.
func New(db DBPinger, stats StatsReader, nodeName, clusterName, version string) *Service {
	return &Service{
		db:    db,
		stats: stats,
		info: Info{
			Name:        nodeName,
			ClusterName: clusterName,
			ClusterUUID: uuid.NewString(),
			Version:     version,
		},
	}
}

// Info returns the node identity.
func (s *Service) Info() Info { return s.info }

// Check runs liveness checks against the backend.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = CheckError
		} else {
			checks["database"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	return Report{Status: status, Checks: checks}
}

// Health returns the cluster health. Every index has one primary shard and
// no replicas, so a single node is always green.
func (s *Service) Health() Health {
	n := len(s.stats.Stats().Indices)
	return Health{
		ClusterName:   s.info.ClusterName,
		Status:        HealthGreen,
		Nodes:         1,
		DataNodes:     1,
		ActiveShards:  n,
		PrimaryShards: n,
		Indices:       n,
	}
}

// Stats returns index and document totals.
func (s *Service) Stats() Stats {
	st := s.stats.Stats()
	return Stats{
		ClusterName: s.info.ClusterName,
		ClusterUUID: s.info.ClusterUUID,
		Version:     s.info.Version,
		Status:      HealthGreen,
		Indices:     len(st.Indices),
		Documents:   st.Documents,
	}
}
