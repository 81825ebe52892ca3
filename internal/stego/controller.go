// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package stego

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/toeirei/stegx/internal/logging"
	"github.com/toeirei/stegx/internal/security"
)

// DefaultDownloadName is the file name a hidden-message image is saved as.
const DefaultDownloadName = "stego_image.png"

// State is the lifecycle of a controller.
type State int

const (
	StateIdle State = iota
	StatePending
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateTerminal:
		return "terminal"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Saver stores the image returned by a successful hide and returns where it
// was written.
type Saver interface {
	Save(name string, data []byte) (string, error)
}

// Controller runs one operation through Idle -> Pending -> Terminal. At most
// one attempt is in flight; a submit received while pending is ignored.
type Controller struct {
	op           Operation
	builder      RequestBuilder
	exec         Executor
	saver        Saver
	downloadName string
	newID        func() string

	mu      sync.Mutex
	state   State
	outcome Outcome
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithSaver sets where hide payloads go and under which file name.
func WithSaver(s Saver, name string) ControllerOption {
	return func(c *Controller) {
		c.saver = s
		if name != "" {
			c.downloadName = name
		}
	}
}

// WithAttemptIDs replaces the attempt ID generator used in log lines.
func WithAttemptIDs(fn func() string) ControllerOption {
	return func(c *Controller) { c.newID = fn }
}

// NewController wires a controller for op.
func NewController(op Operation, builder RequestBuilder, exec Executor, opts ...ControllerOption) (*Controller, error) {
	if op != Hide && op != Extract {
		return nil, fmt.Errorf("unsupported operation %s", op)
	}
	if builder == nil {
		return nil, fmt.Errorf("builder is required")
	}
	if exec == nil {
		return nil, fmt.Errorf("executor is required")
	}

	c := &Controller{
		op:           op,
		builder:      builder,
		exec:         exec,
		saver:        &DirSaver{Dir: "."},
		downloadName: DefaultDownloadName,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Operation returns the operation this controller performs.
func (c *Controller) Operation() Operation { return c.op }

// Mode returns the backend contract of the controller's builder.
func (c *Controller) Mode() Mode { return c.builder.Mode() }

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending reports whether an attempt is in flight.
func (c *Controller) Pending() bool { return c.State() == StatePending }

// Outcome returns the live outcome (zero while idle or pending).
func (c *Controller) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// Submit validates form and, if valid, performs one request. The returned
// bool is false when the submit was ignored because another attempt is
// pending; the Outcome is then the zero value. Submit never panics and
// always leaves the controller non-pending when it accepted the attempt.
func (c *Controller) Submit(ctx context.Context, form FormState) (Outcome, bool) {
	id := c.newID()
	log := logging.With("op", c.op.String(), "attempt", id)

	c.mu.Lock()
	if c.state == StatePending {
		c.mu.Unlock()
		log.Debug("submit ignored, attempt already pending")
		return Outcome{}, false
	}

	in, err := Validate(c.op, form)
	if err != nil {
		out := Failure(err.Error(), err)
		c.state, c.outcome = StateTerminal, out
		c.mu.Unlock()
		log.Info("validation failed", "err", err)
		return out, true
	}
	c.state, c.outcome = StatePending, Outcome{}
	c.mu.Unlock()

	out := c.run(ctx, log, in)

	c.mu.Lock()
	c.state, c.outcome = StateTerminal, out
	c.mu.Unlock()

	if out.OK() {
		log.Info("attempt succeeded", "outcome", out.Kind.String())
	} else {
		log.Warn("attempt failed", "err", out.Err)
	}
	return out, true
}

type attemptLogger interface {
	Debug(msg any, keyvals ...any)
}

func (c *Controller) run(ctx context.Context, log attemptLogger, in ValidatedInput) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Failure(MessageTransportFailure, fmt.Errorf("internal error: %v", r))
		}
	}()

	spec, err := c.builder.Build(in)
	if err != nil {
		return failureFrom(err)
	}
	log.Debug("sending request", "spec", spec.String())

	raw, err := c.exec.Execute(ctx, spec)
	if err != nil {
		return failureFrom(err)
	}
	log.Debug("response received", "status", raw.StatusCode, "content_type", raw.ContentType, "bytes", len(raw.Body))

	out = Interpret(c.op, raw)
	if out.Kind == OutcomeSuccessWithPayload {
		out = c.deliver(out.Payload)
	}
	return out
}

// deliver saves the payload and releases it whatever the save result.
func (c *Controller) deliver(payload []byte) Outcome {
	defer security.Wipe(payload)

	path, err := c.saver.Save(c.downloadName, payload)
	if err != nil {
		serr := &SaveError{Name: c.downloadName, Err: err}
		return Failure(serr.Error(), serr)
	}
	out := Success(fmt.Sprintf(msgHiddenDownload, path))
	out.SavedPath = path
	return out
}

// failureFrom converts any error from building or executing into a Failure
// outcome with a user-facing message.
func failureFrom(err error) Outcome {
	var cfgErr *ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return Failure(cfgErr.Error(), err)
	case errors.Is(err, context.Canceled):
		return Failure(msgCancelled, err)
	}
	// Transport and encoding failures share one generic message.
	return Failure(MessageTransportFailure, err)
}
