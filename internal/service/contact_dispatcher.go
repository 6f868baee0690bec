package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/observability"
)

// ContactDispatcher hands a stored submission to the notification channels.
type ContactDispatcher interface {
	Dispatch(ctx context.Context, submission models.ContactSubmission)
}

// AsyncContactDispatcher delivers notifications on a detached goroutine so the
// caller's response never waits on, or fails because of, a delivery.
type AsyncContactDispatcher struct {
	deliveries []ContactDelivery
	timeout    time.Duration
	logger     zerolog.Logger
	wg         sync.WaitGroup
}

// NewAsyncContactDispatcher constructs a dispatcher over the given deliveries.
func NewAsyncContactDispatcher(timeout time.Duration, logger zerolog.Logger, deliveries ...ContactDelivery) *AsyncContactDispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AsyncContactDispatcher{
		deliveries: deliveries,
		timeout:    timeout,
		logger:     logger.With().Str("component", "contact_dispatcher").Logger(),
	}
}

// Dispatch returns immediately. Cancellation of ctx does not abort delivery.
func (d *AsyncContactDispatcher) Dispatch(ctx context.Context, submission models.ContactSubmission) {
	if len(d.deliveries) == 0 {
		return
	}

	detached := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		deliverCtx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()

		for _, delivery := range d.deliveries {
			d.deliver(deliverCtx, delivery, submission)
		}
	}()
}

// Wait blocks until every in-flight dispatch has finished.
func (d *AsyncContactDispatcher) Wait() {
	d.wg.Wait()
}

func (d *AsyncContactDispatcher) deliver(ctx context.Context, delivery ContactDelivery, submission models.ContactSubmission) {
	var err error
	func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				err = fmt.Errorf("delivery panicked: %v", recovered)
			}
		}()
		err = delivery.Deliver(ctx, submission)
	}()

	if err != nil {
		observability.ContactNotifications().WithLabelValues(delivery.Name(), "failed").Inc()
		d.logger.Warn().Err(err).
			Str("notifier", delivery.Name()).
			Uint("form_id", submission.ID).
			Msg("contact notification failed")
		return
	}

	observability.ContactNotifications().WithLabelValues(delivery.Name(), "sent").Inc()
}
