package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/rentdesk/internal/logger"
)

var (
	// ErrSubmitInFlight is returned when a submission is already outstanding.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrInvalid is returned when the record fails validation.
	ErrInvalid = errors.New("record has validation errors")
	// ErrUnknownField is returned when updating a field the schema lacks.
	ErrUnknownField = errors.New("unknown field")
	// ErrReadOnlyField is returned when updating a derived field.
	ErrReadOnlyField = errors.New("field is read-only")
)

// Gateway accepts finalized records.
type Gateway interface {
	Submit(ctx context.Context, sub *Submission) (Record, error)
}

// FieldError is implemented by gateway errors that can be attributed to a
// single field.
type FieldError interface {
	error
	FieldName() string
}

// Option configures a Controller.
type Option func(*Controller)

// WithMessages renders issues into user-facing messages, e.g. from a
// translation catalogue. The default uses Issue.Message.
func WithMessages(fn func(Issue) string) Option {
	return func(c *Controller) {
		c.message = fn
	}
}

// Controller owns one wizard instance: the draft, the current step, the
// error map and the submission state.
type Controller struct {
	mu       sync.Mutex
	schema   *Schema
	gateway  Gateway
	message  func(Issue) string
	draft    Draft
	original Draft
	id       string
	step     int
	errs     ErrorMap
	formErr  string
	inFlight bool
	result   Record
}

// NewController creates a controller with an empty draft.
func NewController(schema *Schema, gw Gateway, opts ...Option) *Controller {
	c := &Controller{
		schema:  schema,
		gateway: gw,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Initialize(nil)
	return c
}

// Initialize resets the wizard. A nil record starts a new draft with the
// schema defaults; otherwise the draft is populated from the record for
// editing. No validation runs.
func (c *Controller) Initialize(existing Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing == nil {
		c.draft = c.schema.NewDraft()
		c.original = nil
		c.id = ""
	} else {
		c.draft = c.schema.DraftFromRecord(existing)
		c.original = c.draft.Clone()
		c.id = RecordID(existing)
	}
	c.step = 1
	c.errs = ErrorMap{}
	c.formErr = ""
	c.result = nil
}

// Schema returns the controller's schema.
func (c *Controller) Schema() *Schema {
	return c.schema
}

// Editing reports whether the wizard edits an existing record.
func (c *Controller) Editing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id != ""
}

// ID returns the id of the record being edited, or "".
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Step returns the current 1-based step index.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// StepCount returns the number of steps.
func (c *Controller) StepCount() int {
	return c.schema.StepCount()
}

// Draft returns a copy of the draft.
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Original returns a copy of the draft as loaded for editing, or nil.
func (c *Controller) Original() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.original == nil {
		return nil
	}
	return c.original.Clone()
}

// Value returns the raw draft value of a field.
func (c *Controller) Value(name string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft[name]
}

// Errors returns a copy of the validation error map.
func (c *Controller) Errors() ErrorMap {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(ErrorMap, len(c.errs))
	for k, v := range c.errs {
		out[k] = v
	}
	return out
}

// FormError returns the last gateway error not tied to a field.
func (c *Controller) FormError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formErr
}

// Submitting reports whether a submission is outstanding.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Result returns the record the gateway returned on success.
func (c *Controller) Result() Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// UpdateField stores value verbatim and recomputes dependent derived fields
// before returning. Numeric input is kept as typed; coercion happens only
// when validating.
func (c *Controller) UpdateField(name string, value any) error {
	f, ok := c.schema.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if f.ReadOnly {
		return fmt.Errorf("%w: %s", ErrReadOnlyField, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft[name] = value
	delete(c.errs, name)
	for _, dv := range c.schema.Derivations {
		if dv.DependsOn(name) {
			c.draft[dv.Target] = dv.Compute(c.draft)
		}
	}
	return nil
}

// GoNext validates the current step and advances on success. It returns
// true when the step changed so the view can scroll back to the top.
func (c *Controller) GoNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.schema.ValidateStep(c.step, c.draft)
	if !v.OK() {
		c.errs = v.Errors(c.message)
		logger.Debug("%s step %d: %d validation issue(s)", c.schema.Resource, c.step, len(v.Issues))
		return false
	}

	c.errs = ErrorMap{}
	if c.step >= c.schema.StepCount() {
		return false
	}
	c.step++
	logger.Debug("%s wizard advanced to step %d", c.schema.Resource, c.step)
	return true
}

// GoPrevious moves back one step without validating.
func (c *Controller) GoPrevious() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step > 1 {
		c.step--
	}
	c.errs = ErrorMap{}
}

// JumpToStep moves directly to step i without validating intermediate
// steps. Out-of-range indexes are ignored.
func (c *Controller) JumpToStep(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 1 || i > c.schema.StepCount() {
		return false
	}
	c.step = i
	return true
}

// PrepareSubmit validates the whole draft and, on success, marks a
// submission in flight and returns it. Call Send to deliver it.
func (c *Controller) PrepareSubmit() (*Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return nil, ErrSubmitInFlight
	}

	v := c.schema.ValidateAll(c.draft)
	if !v.OK() {
		c.errs = v.Errors(c.message)
		logger.Debug("%s submit blocked: %d validation issue(s)", c.schema.Resource, len(v.Issues))
		return nil, ErrInvalid
	}

	c.errs = ErrorMap{}
	c.formErr = ""
	c.inFlight = true
	return &Submission{
		Resource: c.schema.Resource,
		Singular: c.schema.Singular,
		ID:       c.id,
		Payload:  NewPayload(c.schema.Fields, v.Snapshot),
		Snapshot: v.Snapshot,
	}, nil
}

// Send delivers a prepared submission through the gateway and records the
// outcome. It is safe to call from a goroutine other than the one driving
// the wizard.
func (c *Controller) Send(ctx context.Context, sub *Submission) (Record, error) {
	rec, err := c.gateway.Submit(ctx, sub)
	c.CompleteSubmit(rec, err)
	return rec, err
}

// CompleteSubmit records a gateway outcome. On failure the draft and step
// are left untouched so the user can correct and resubmit.
func (c *Controller) CompleteSubmit(rec Record, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = false
	if err == nil {
		c.result = rec
		c.formErr = ""
		return
	}

	logger.Warn("%s %s failed: %v", c.schema.Resource, actionName(c.id), err)
	var fe FieldError
	if errors.As(err, &fe) {
		if _, ok := c.schema.Field(fe.FieldName()); ok {
			// The field error replaces the form-level banner message.
			c.errs = ErrorMap{fe.FieldName(): fe.Error()}
			c.formErr = ""
			return
		}
	}
	c.formErr = err.Error()
}

// Submit validates, sends and records the outcome in one call.
func (c *Controller) Submit(ctx context.Context) (Record, error) {
	sub, err := c.PrepareSubmit()
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, sub)
}

func actionName(id string) string {
	if id == "" {
		return "create"
	}
	return "update"
}
