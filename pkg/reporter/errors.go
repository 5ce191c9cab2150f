package reporter

import "errors"

var (
	// ErrSubmitRejected indicates the aggregation server refused a submission.
	ErrSubmitRejected = errors.New("submission rejected")
	// ErrInvalidSchedule indicates an unparseable cron schedule.
	ErrInvalidSchedule = errors.New("invalid schedule")
)
