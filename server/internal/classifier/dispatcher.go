package classifier

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DeliverFunc receives the outcome of one collaborator request. err is
// non-nil when generation failed for any reason.
type DeliverFunc func(statementID string, res Result, err error)

// Dispatcher runs collaborator requests in the background with at most one
// outstanding request per statement. Results are handed back keyed by
// statement id; results for forgotten statements are dropped.
type Dispatcher struct {
	log    *zap.Logger
	collab Collaborator
	ctx    context.Context

	mu       sync.Mutex
	inflight map[string]uint64
	next     uint64

	group errgroup.Group
}

// NewDispatcher creates a Dispatcher. Requests inherit ctx, so cancelling
// it aborts outstanding calls.
func NewDispatcher(ctx context.Context, log *zap.Logger, collab Collaborator) *Dispatcher {
	return &Dispatcher{
		log:      log,
		collab:   collab,
		ctx:      ctx,
		inflight: make(map[string]uint64),
	}
}

// Submit starts a request for statementID. It returns false without doing
// anything when a request for the same statement is still outstanding.
func (d *Dispatcher) Submit(statementID string, req Request, deliver DeliverFunc) bool {
	d.mu.Lock()
	if _, busy := d.inflight[statementID]; busy {
		d.mu.Unlock()
		d.log.Debug("Suppressing duplicate classification request", zap.String("statementID", statementID))
		return false
	}
	d.next++
	token := d.next
	d.inflight[statementID] = token
	d.mu.Unlock()

	d.group.Go(func() error {
		res, err := d.generate(req)
		if !d.finish(statementID, token) {
			d.log.Debug("Discarding classification result for removed statement", zap.String("statementID", statementID))
			return nil
		}
		if err != nil {
			d.log.Warn("Script generation failed, keeping rule-based scripts",
				zap.String("statementID", statementID), zap.Error(err))
		}
		deliver(statementID, res, err)
		return nil
	})
	return true
}

func (d *Dispatcher) generate(req Request) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("collaborator panic: %v", r)
		}
	}()
	return d.collab.Generate(d.ctx, req)
}

// finish clears the in-flight entry and reports whether the token was still
// current.
func (d *Dispatcher) finish(statementID string, token uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inflight[statementID] != token {
		return false
	}
	delete(d.inflight, statementID)
	return true
}

// InFlight reports whether a request for statementID is outstanding.
func (d *Dispatcher) InFlight(statementID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.inflight[statementID]
	return ok
}

// Forget marks any outstanding request for statementID as stale.
func (d *Dispatcher) Forget(statementID string) {
	d.mu.Lock()
	delete(d.inflight, statementID)
	d.mu.Unlock()
}

// Wait blocks until every submitted request has been delivered or dropped.
func (d *Dispatcher) Wait() {
	_ = d.group.Wait()
}
