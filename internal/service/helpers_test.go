package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type contactRepoStub struct {
	mu      sync.Mutex
	nextID  uint
	created []models.ContactSubmission
	err     error
}

func (c *contactRepoStub) Create(_ context.Context, submission *models.ContactSubmission) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.nextID++
	submission.ID = c.nextID
	c.created = append(c.created, *submission)
	return nil
}

func (c *contactRepoStub) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.created)
}

type verifierStub struct {
	verified bool
	err      error
	calls    int
	token    string
	remoteIP string
}

func (v *verifierStub) Verify(_ context.Context, token, remoteIP string) (bool, error) {
	v.calls++
	v.token = token
	v.remoteIP = remoteIP
	return v.verified, v.err
}

type recordingDispatcher struct {
	mu         sync.Mutex
	dispatched []models.ContactSubmission
}

func (r *recordingDispatcher) Dispatch(_ context.Context, submission models.ContactSubmission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatched = append(r.dispatched, submission)
}

type deliveryStub struct {
	name      string
	mu        sync.Mutex
	delivered []models.ContactSubmission
	err       error
	panicking bool
}

func (d *deliveryStub) Name() string { return d.name }

func (d *deliveryStub) Deliver(ctx context.Context, submission models.ContactSubmission) error {
	if d.panicking {
		panic("boom")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, submission)
	return d.err
}

func (d *deliveryStub) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.delivered)
}

var errWebhookDown = errors.New("webhook down")
