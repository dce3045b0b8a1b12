package health

import "context"

// StorePinger checks token store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// ServiceChecker checks that the remote search service answers.
type ServiceChecker interface {
	HealthCheck(ctx context.Context) error
}
