package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Services accept
// a nil *Metrics so unit tests don't touch the default registry.
type Metrics struct {
	AssignmentsCreated   prometheus.Counter
	TestsStarted         prometheus.Counter
	TestsPassed          prometheus.Counter
	TestsFailed          prometheus.Counter
	AssignmentsReset     prometheus.Counter
	ExtraAttemptsGranted prometheus.Counter
	QuestionsImported    prometheus.Counter
	Logins               prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AssignmentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trainhub_assignments_created_total",
			Help: "Total number of test assignments created",
		}),
		TestsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trainhub_tests_started_total",
			Help: "Total number of test attempts started",
		}),
		TestsPassed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trainhub_tests_passed_total",
			Help: "Total number of test attempts finished with a passing score",
		}),
		TestsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trainhub_tests_failed_total",
			Help: "Total number of test attempts finished with a failing score",
		}),
		AssignmentsReset: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trainhub_assignments_reset_total",
			Help: "Total number of assignments reset to the assigned state",
		}),
		ExtraAttemptsGranted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trainhub_extra_attempts_granted_total",
			Help: "Total number of extra attempts granted by administrators",
		}),
		QuestionsImported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trainhub_questions_imported_total",
			Help: "Total number of questions imported from text files",
		}),
		Logins: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trainhub_logins_total",
			Help: "Total number of successful logins",
		}),
	}
}
