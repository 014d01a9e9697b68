package upload

import (
	"context"
	"sync"

	"github.com/raykavin/chartwise/pkg/core"
	"github.com/raykavin/chartwise/pkg/logger"
)

// Phase is the lifecycle position of the latest submission
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is a snapshot of the controller.
// Result is set only in PhaseSuccess, Message only in PhaseFailed.
type State struct {
	Phase   Phase              `json:"phase"`
	Seq     uint64             `json:"seq"`
	File    string             `json:"file,omitempty"`
	Result  *core.UploadResult `json:"result,omitempty"`
	Message string             `json:"message,omitempty"`
	Err     error              `json:"-"`
}

// Uploader performs a single submission
type Uploader interface {
	Upload(ctx context.Context, file File) (*core.UploadResult, error)
}

// Controller owns the latest submission and its outcome.
// Each submission is tagged with a sequence number; an outcome is applied
// only while its number is still the latest issued.
type Controller struct {
	sync.Mutex
	uploader    Uploader
	log         logger.Logger
	seq         uint64
	state       State
	subscribers []func(State)
}

func NewController(uploader Uploader, log logger.Logger) *Controller {
	return &Controller{
		uploader: uploader,
		log:      log,
	}
}

// Subscribe registers fn for every state change. fn runs with the
// controller locked and must not call back into it.
func (c *Controller) Subscribe(fn func(State)) {
	c.Lock()
	defer c.Unlock()

	c.subscribers = append(c.subscribers, fn)
}

// State returns the current snapshot
func (c *Controller) State() State {
	c.Lock()
	defer c.Unlock()

	return c.state
}

// Reset discards any result and invalidates the submission in flight
func (c *Controller) Reset() {
	c.Lock()
	defer c.Unlock()

	c.seq++
	c.apply(State{Phase: PhaseIdle, Seq: c.seq})
}

// Submit uploads file and waits for the outcome. The prior result is cleared
// before the request is issued. The returned state is the controller state
// once this submission resolved, which belongs to a newer submission when
// this one was superseded.
func (c *Controller) Submit(ctx context.Context, file File) State {
	c.Lock()
	c.seq++
	seq := c.seq
	c.apply(State{Phase: PhaseSubmitting, Seq: seq, File: file.Name})
	c.Unlock()

	log := c.log.WithFields(map[string]any{"seq": seq, "file": file.Name})
	log.Debug("submission started")

	result, err := c.uploader.Upload(ctx, file)

	c.Lock()
	defer c.Unlock()

	if seq != c.seq {
		log.Warnf("discarding stale response, latest submission is %d", c.seq)
		return c.state
	}

	if err != nil {
		log.WithError(err).Error("submission failed")
		c.apply(State{
			Phase:   PhaseFailed,
			Seq:     seq,
			File:    file.Name,
			Message: FailureMessage(err),
			Err:     err,
		})
		return c.state
	}

	log.Info("submission succeeded")
	c.apply(State{Phase: PhaseSuccess, Seq: seq, File: file.Name, Result: result})
	return c.state
}

// apply replaces the state and notifies subscribers; callers hold the lock
func (c *Controller) apply(state State) {
	c.state = state
	for _, fn := range c.subscribers {
		fn(state)
	}
}
