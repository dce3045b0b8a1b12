package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Check names.
const (
	CheckTokenStore    = "token_store"
	CheckSearchService = "search_service"
)

// Service coordinates health checks.
type Service struct {
	store  StorePinger
	remote ServiceChecker
}

// New creates a Service. remote can be nil to skip the remote check.
func New(store StorePinger, remote ServiceChecker) *Service {
	return &Service{store: store, remote: remote}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.store.Ping(ctx); err != nil {
		checks[CheckTokenStore] = CheckError
	} else {
		checks[CheckTokenStore] = CheckOK
	}

	if s.remote != nil {
		if err := s.remote.HealthCheck(ctx); err != nil {
			checks[CheckSearchService] = CheckError
		} else {
			checks[CheckSearchService] = CheckOK
		}
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}
	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
