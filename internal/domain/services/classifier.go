// Package services assigns workload services their runtime role.
package services

import (
	"strings"

	"github.com/charmpack/charmpack/internal/domain"
)

// Classify assigns a role to a single service name. Names ending in
// workerSuffix are workers, those ending in schedulerSuffix are schedulers,
// everything else is primary. A name matching both suffixes is a worker:
// this is a policy choice, the current suffixes cannot both match.
func Classify(name, workerSuffix, schedulerSuffix string) domain.ServiceRole {
	switch {
	case workerSuffix != "" && strings.HasSuffix(name, workerSuffix):
		return domain.RoleWorker
	case schedulerSuffix != "" && strings.HasSuffix(name, schedulerSuffix):
		return domain.RoleScheduler
	default:
		return domain.RolePrimary
	}
}

// ClassifyAll classifies every name using the profile's suffix convention.
func ClassifyAll(names []string, profile domain.FrameworkProfile) map[string]domain.ServiceRole {
	roles := make(map[string]domain.ServiceRole, len(names))
	for _, n := range names {
		roles[n] = Classify(n, profile.WorkerSuffix, profile.SchedulerSuffix)
	}
	return roles
}
