package scheduler_service

import (
	"context"
)

// ISchedulerService periodically re-polls the gateway for orders stuck in
// pending payment so that asynchronous sales still settle when the customer
// never comes back through the return url.
type ISchedulerService interface {
	Scheduler(ctx context.Context)
}
