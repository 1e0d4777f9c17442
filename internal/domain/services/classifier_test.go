package services_test

import (
	"testing"

	"github.com/charmpack/charmpack/internal/domain"
	"github.com/charmpack/charmpack/internal/domain/services"
	"github.com/stretchr/testify/assert"
)

func TestClassifyAll(t *testing.T) {
	profile := domain.FrameworkProfile{WorkerSuffix: "-worker", SchedulerSuffix: "-scheduler"}

	roles := services.ClassifyAll([]string{"web", "email-worker", "cleanup-scheduler"}, profile)

	assert.Equal(t, map[string]domain.ServiceRole{
		"web":               domain.RolePrimary,
		"email-worker":      domain.RoleWorker,
		"cleanup-scheduler": domain.RoleScheduler,
	}, roles)
}

func TestClassify_SuffixMustBeAtEnd(t *testing.T) {
	assert.Equal(t, domain.RolePrimary, services.Classify("worker-web", "-worker", "-scheduler"))
	assert.Equal(t, domain.RolePrimary, services.Classify("scheduler", "-worker", "-scheduler"))
}

func TestClassify_BothSuffixesMatchWorkerWins(t *testing.T) {
	// A profile whose suffixes overlap: "-job" and "-cron-job".
	assert.Equal(t, domain.RoleWorker, services.Classify("nightly-cron-job", "-job", "-cron-job"))
	assert.Equal(t, domain.RoleWorker, services.Classify("nightly-cron-job", "-cron-job", "-job"))
}

func TestClassify_EmptySuffixesNeverMatch(t *testing.T) {
	assert.Equal(t, domain.RolePrimary, services.Classify("anything", "", ""))
}
