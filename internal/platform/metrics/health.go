package metrics

import (
	"context"

	"github.com/smartcvnaija/jobbroker/internal/platform/kv"
	"github.com/smartcvnaija/jobbroker/internal/worker"
)

// HealthChecker composes the three liveness probes named in the data
// model's health contract: Postgres reachability, Redis reachability, and
// the CV worker's memory governor not being tripped.
type HealthChecker struct {
	db       postgresPinger
	kvStore  *kv.Store
	governor *worker.MemoryGovernor
}

// postgresPinger is the subset of postgres.Client this package needs.
type postgresPinger interface {
	Health(ctx context.Context) error
}

func NewHealthChecker(db postgresPinger, kvStore *kv.Store, governor *worker.MemoryGovernor) *HealthChecker {
	return &HealthChecker{db: db, kvStore: kvStore, governor: governor}
}

// Check runs all three probes and reports per-service status strings
// ("up"/"down") the way RespondWithHealth expects, plus the overall verdict.
func (h *HealthChecker) Check(ctx context.Context) (services map[string]string, healthy bool) {
	services = make(map[string]string, 3)
	healthy = true

	if err := h.db.Health(ctx); err != nil {
		services["database"] = "down"
		healthy = false
	} else {
		services["database"] = "up"
	}

	if err := h.kvStore.Ping(ctx); err != nil {
		services["redis"] = "down"
		healthy = false
	} else {
		services["redis"] = "up"
	}

	if h.governor != nil && h.governor.Overloaded() {
		services["memory"] = "down"
		healthy = false
	} else {
		services["memory"] = "up"
	}

	return services, healthy
}
