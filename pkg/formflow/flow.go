package formflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/fields"
	"github.com/goliatone/go-formfill/pkg/metrics"
	"github.com/goliatone/go-formfill/pkg/model"
	"github.com/goliatone/go-formfill/pkg/notice"
	"github.com/goliatone/go-formfill/pkg/validation"
)

// Lifecycle states and events.
const (
	StateEditing   = "editing"
	StateSubmitted = "submitted"

	EventSubmit = "submit"
	EventReset  = "reset"
)

// Actions lists the navigation affordances for the current cursor. Next and
// Submit are never both true.
type Actions struct {
	Previous bool `json:"previous"`
	Next     bool `json:"next"`
	Submit   bool `json:"submit"`
}

// Option configures a Flow.
type Option func(*Flow)

func WithRegistry(reg *fields.Registry) Option {
	return func(f *Flow) {
		if reg != nil {
			f.registry = reg
		}
	}
}

func WithSubmitter(s Submitter) Option {
	return func(f *Flow) {
		if s != nil {
			f.submitter = s
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Flow) {
		f.metrics = m
	}
}

// WithRespondent attaches the logged in user to submissions.
func WithRespondent(identity model.UserIdentity) Option {
	return func(f *Flow) {
		f.respondent = identity
	}
}

// Flow is safe for concurrent use, but callers normally serialise access per
// respondent anyway.
type Flow struct {
	mu sync.Mutex

	def        model.FormDefinition
	data       model.FilledData
	cursor     int
	lifecycle  *fsm.FSM
	respondent model.UserIdentity
	submitting bool

	registry  *fields.Registry
	validator *validation.Validator
	submitter Submitter
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// New starts a flow at the first section with no values.
func New(def model.FormDefinition, opts ...Option) (*Flow, error) {
	if def.SectionCount() == 0 {
		return nil, ErrEmptyDefinition
	}

	f := &Flow{
		def:      def,
		data:     make(model.FilledData),
		registry: fields.Default(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.submitter == nil {
		f.submitter = LogSubmitter{Logger: f.logger}
	}
	f.validator = validation.New(validation.WithRegistry(f.registry))

	f.lifecycle = fsm.NewFSM(
		StateEditing,
		fsm.Events{
			{Name: EventSubmit, Src: []string{StateEditing}, Dst: StateSubmitted},
			{Name: EventReset, Src: []string{StateSubmitted}, Dst: StateEditing},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				f.logger.Debug("form lifecycle", zap.String("form", f.def.FormTitle), zap.String("from", e.Src), zap.String("to", e.Dst))
			},
		},
	)
	return f, nil
}

// Definition returns the form being filled.
func (f *Flow) Definition() model.FormDefinition {
	return f.def
}

// State returns the lifecycle state.
func (f *Flow) State() string {
	return f.lifecycle.Current()
}

// Submitted reports whether Submit has succeeded.
func (f *Flow) Submitted() bool {
	return f.State() == StateSubmitted
}

func (f *Flow) Cursor() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor
}

func (f *Flow) SectionCount() int {
	return f.def.SectionCount()
}

// Section returns the section under the cursor.
func (f *Flow) Section() model.FormSection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.def.Sections[f.cursor]
}

func (f *Flow) IsFirst() bool {
	return f.Cursor() == 0
}

func (f *Flow) IsLast() bool {
	return f.Cursor() == f.def.SectionCount()-1
}

// Actions reports which navigation controls apply. A submitted flow has none.
func (f *Flow) Actions() Actions {
	if f.Submitted() {
		return Actions{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	last := f.cursor == f.def.SectionCount()-1
	return Actions{
		Previous: f.cursor > 0,
		Next:     !last,
		Submit:   last,
	}
}

// Kind resolves the field kind for fieldID.
func (f *Flow) Kind(fieldID string) (fields.Kind, error) {
	field, ok := f.def.Field(fieldID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, fieldID)
	}
	return f.registry.For(field)
}

// Value returns the raw value for fieldID, empty when untouched.
func (f *Flow) Value(fieldID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.Get(fieldID)
}

// Selected decodes the value of fieldID through its kind.
func (f *Flow) Selected(fieldID string) []string {
	kind, err := f.Kind(fieldID)
	if err != nil {
		return nil
	}
	return kind.Decode(f.Value(fieldID))
}

// SetValue writes a raw value. Values can be written for any section; only
// validation is scoped to the current one.
func (f *Flow) SetValue(fieldID, value string) error {
	if _, ok := f.def.Field(fieldID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, fieldID)
	}
	if f.Submitted() {
		return ErrSubmitted
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[fieldID] = value
	return nil
}

// SetSelection encodes selected through the field kind and stores it.
func (f *Flow) SetSelection(fieldID string, selected []string) error {
	kind, err := f.Kind(fieldID)
	if err != nil {
		return err
	}
	return f.SetValue(fieldID, kind.Encode(selected))
}

// Toggle flips one option of a checkbox field.
func (f *Flow) Toggle(fieldID, option string) error {
	kind, err := f.Kind(fieldID)
	if err != nil {
		return err
	}
	box, ok := kind.(fields.Checkbox)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotMultiSelect, fieldID)
	}
	return f.SetValue(fieldID, box.Toggle(f.Value(fieldID), option))
}

// Data returns a copy of the values entered so far.
func (f *Flow) Data() model.FilledData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.Clone()
}

// Next validates the current section and advances when it passes. Every
// violation becomes an error notice. Returns whether the cursor moved.
func (f *Flow) Next(n notice.Notifier) bool {
	if f.Submitted() {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cursor >= f.def.SectionCount()-1 {
		return false
	}
	if !f.validateLocked(n) {
		return false
	}
	f.cursor++
	return true
}

// Previous moves back one section. The section being left is not validated.
func (f *Flow) Previous() bool {
	if f.Submitted() {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cursor == 0 {
		return false
	}
	f.cursor--
	return true
}

// Submit validates the last section and delivers the data. Validation
// failures are reported through n and returned as *validation.Error.
// Only one Submit is delivered at a time; a concurrent call gets ErrSubmitted.
func (f *Flow) Submit(ctx context.Context, n notice.Notifier) (model.FilledData, error) {
	f.mu.Lock()
	if f.submitting || f.Submitted() {
		f.mu.Unlock()
		return nil, ErrSubmitted
	}
	if f.cursor != f.def.SectionCount()-1 {
		f.mu.Unlock()
		return nil, ErrNotLastSection
	}
	violations := f.validator.Section(f.def.Sections[f.cursor], f.data)
	f.reportLocked(n, violations)
	if len(violations) > 0 {
		f.mu.Unlock()
		return nil, &validation.Error{Violations: violations}
	}
	data := f.data.Clone()
	f.submitting = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	ack, err := f.submitter.Submit(ctx, Submission{
		Respondent: f.respondent,
		FormTitle:  f.def.FormTitle,
		Version:    f.def.Version,
		Data:       data,
	})
	if err != nil {
		f.logger.Error("form submission failed", zap.String("form", f.def.FormTitle), zap.Error(err))
		notice.Error(n, err.Error())
		return nil, fmt.Errorf("formflow: submit: %w", err)
	}

	if err := f.lifecycle.Event(ctx, EventSubmit); err != nil {
		return nil, fmt.Errorf("formflow: submit: %w", err)
	}
	if ack == "" {
		ack = DefaultAck
	}
	notice.Success(n, ack)
	return data, nil
}

// Reset returns a submitted flow to the first section with no values.
func (f *Flow) Reset(ctx context.Context) error {
	if !f.Submitted() {
		return nil
	}
	f.mu.Lock()
	f.data = make(model.FilledData)
	f.cursor = 0
	f.mu.Unlock()
	return f.lifecycle.Event(ctx, EventReset)
}

func (f *Flow) validateLocked(n notice.Notifier) bool {
	violations := f.validator.Section(f.def.Sections[f.cursor], f.data)
	f.reportLocked(n, violations)
	return len(violations) == 0
}

func (f *Flow) reportLocked(n notice.Notifier, violations []validation.Violation) {
	for _, v := range violations {
		f.metrics.ValidationFailed(string(v.Rule))
		notice.Error(n, v.Message)
	}
}
