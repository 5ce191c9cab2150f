package reporter

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/btcfi/oracle-aggregator/pkg/logging"
	"github.com/btcfi/oracle-aggregator/pkg/reporter/binance"
	"github.com/btcfi/oracle-aggregator/pkg/server/aggregator"
)

// fetchTimeout bounds one full fetch cycle including every backoff wait. It
// stays under the one-minute schedule so cycles never overlap.
const fetchTimeout = 50 * time.Second

// Source is the market data dependency of the reporter.
type Source interface {
	Name() string
	FetchClosePrice(ctx context.Context) (binance.PricePoint, error)
}

// Reporter fetches one price per schedule tick and submits it.
type Reporter struct {
	id        string
	source    Source
	submitter Submitter
	cron      *cron.Cron
	logger    *logging.Logger
}

// New creates a reporter firing on the given cron schedule (with a seconds
// field; the default configuration fires at the top of every minute, right
// after a bucket closes).
func New(id string, source Source, submitter Submitter, schedule string, logger *logging.Logger) (*Reporter, error) {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}

	r := &Reporter{
		id:        id,
		source:    source,
		submitter: submitter,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger,
	}

	if _, err := r.cron.AddFunc(schedule, r.tick); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}
	return r, nil
}

// Start runs the schedule until ctx is canceled.
func (r *Reporter) Start(ctx context.Context) error {
	r.logger.Info("Starting reporter", "reporter", r.id, "source", r.source.Name())
	r.cron.Start()

	<-ctx.Done()

	r.logger.Info("Stopping reporter", "reporter", r.id)
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	return ctx.Err()
}

// RunOnce performs a single fetch-and-submit cycle. The schedule calls this
// on every tick; a failed fetch skips the cycle, there is no outer retry.
func (r *Reporter) RunOnce(ctx context.Context) error {
	point, err := r.source.FetchClosePrice(ctx)
	if err != nil {
		return fmt.Errorf("fetch cycle skipped: %w", err)
	}

	sub := aggregator.Submission{
		Price:      point.Price(),
		ObservedAt: point.Timestamp.Unix(),
		Source:     point.Source,
		ReporterID: r.id,
	}

	if err := r.submitter.Submit(ctx, sub); err != nil {
		return fmt.Errorf("failed to submit fetched price: %w", err)
	}

	r.logger.Info("Submitted fetched price",
		"price", sub.Price,
		"source", sub.Source,
		"reporter", r.id)
	return nil
}

func (r *Reporter) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	if err := r.RunOnce(ctx); err != nil {
		r.logger.Error("Fetch cycle failed", "reporter", r.id, "error", err.Error())
	}
}
