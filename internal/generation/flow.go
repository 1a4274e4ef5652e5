package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// State is the stage a flow invocation has reached.
type State string

// Invocation states. Every invocation starts Idle and ends Done or Failed;
// there is no retry or resumption.
const (
	StateIdle       State = "idle"
	StateRendering  State = "rendering"
	StateInvoking   State = "invoking"
	StateValidating State = "validating"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Flow runs one FlowSpec against a Backend, decoding validated output into Out.
// A Flow holds no per-invocation state and is safe for concurrent use.
type Flow[In any, Out any] struct {
	spec    *FlowSpec
	backend Backend
	logger  *slog.Logger
	fixed   []func(In) map[string]string
}

// FlowOption configures a Flow.
type FlowOption[In any] func(*flowOptions[In])

type flowOptions[In any] struct {
	fixed []func(In) map[string]string
}

// WithFixedOutput registers output string fields whose values are decided by
// the application rather than the model. After every backend call the
// returned fields overwrite whatever the model produced, including when the
// model omitted them.
func WithFixedOutput[In any](fn func(In) map[string]string) FlowOption[In] {
	return func(o *flowOptions[In]) {
		o.fixed = append(o.fixed, fn)
	}
}

// NewFlow creates a Flow. The spec and backend are required.
func NewFlow[In any, Out any](
	spec *FlowSpec,
	backend Backend,
	log *slog.Logger,
	opts ...FlowOption[In],
) (*Flow[In, Out], error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: flow spec cannot be nil", ErrInvalidConfig)
	}
	if backend == nil {
		return nil, fmt.Errorf("%w: flow %s: backend cannot be nil", ErrInvalidConfig, spec.Name())
	}
	if log == nil {
		log = slog.Default()
	}

	var o flowOptions[In]
	for _, opt := range opts {
		opt(&o)
	}

	return &Flow[In, Out]{
		spec:    spec,
		backend: backend,
		logger:  log.With(slog.String("flow", spec.Name())),
		fixed:   o.fixed,
	}, nil
}

// Spec returns the flow's definition.
func (f *Flow[In, Out]) Spec() *FlowSpec {
	return f.spec
}

// Run executes one invocation: validate input, render the prompt, call the
// backend once, apply fixed output fields, validate the output and decode it.
//
// Errors are *InputValidationError, *GenerationBackendError or
// *SchemaMismatchError.
func (f *Flow[In, Out]) Run(ctx context.Context, in In) (*Out, error) {
	log := logger.FromContextOrDefault(ctx, f.logger).With(slog.String("flow", f.spec.Name()))
	start := time.Now()
	state := StateIdle

	fail := func(err error) (*Out, error) {
		log.Warn("flow invocation failed",
			slog.String("state", string(state)),
			slog.String("error_type", fmt.Sprintf("%T", err)),
			slog.Duration("duration", time.Since(start)))
		log.Debug("flow state", slog.String("state", string(StateFailed)))
		return nil, err
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return fail(&InputValidationError{
			Flow:       f.spec.Name(),
			Violations: Violations{{Reason: "input cannot be encoded: " + err.Error()}},
		})
	}
	if violations := Validate(payload, f.spec.input); !violations.OK() {
		return fail(&InputValidationError{Flow: f.spec.Name(), Violations: violations})
	}

	state = f.transition(log, StateRendering)
	prompt, err := f.spec.template.Render(payload)
	if err != nil {
		var inputErr *InputValidationError
		if errors.As(err, &inputErr) {
			inputErr.Flow = f.spec.Name()
		}
		return fail(err)
	}

	state = f.transition(log, StateInvoking)
	req := &GenerationRequest{
		Flow:         f.spec.Name(),
		Prompt:       prompt.Text,
		Media:        prompt.Media,
		OutputSchema: f.spec.OutputSchema(),
		Model:        f.spec.Model(),
	}
	result, err := f.backend.Generate(ctx, req)
	if err != nil {
		return fail(f.backendError(err))
	}
	if result == nil || len(result.Raw) == 0 {
		return fail(f.backendError(ErrEmptyResponse))
	}

	state = f.transition(log, StateValidating)
	raw, err := f.applyFixed(log, in, result.Raw)
	if err != nil {
		return fail(&SchemaMismatchError{
			Flow:       f.spec.Name(),
			Violations: Violations{{Reason: "cannot apply fixed fields: " + err.Error()}},
		})
	}
	validated, err := ValidateOutput(f.spec.Name(), raw, f.spec.output)
	if err != nil {
		return fail(err)
	}

	var out Out
	if err := validated.Decode(&out); err != nil {
		return fail(err)
	}

	f.transition(log, StateDone)
	log.Info("flow invocation completed",
		slog.String("model", result.Model),
		slog.Int("media_count", len(prompt.Media)),
		slog.Duration("duration", time.Since(start)))
	return &out, nil
}

func (f *Flow[In, Out]) transition(log *slog.Logger, next State) State {
	log.Debug("flow state", slog.String("state", string(next)))
	return next
}

func (f *Flow[In, Out]) backendError(err error) error {
	var backendErr *GenerationBackendError
	if errors.As(err, &backendErr) {
		if backendErr.Flow == "" {
			backendErr.Flow = f.spec.Name()
		}
		return backendErr
	}
	return &GenerationBackendError{Flow: f.spec.Name(), Model: f.spec.Model(), Err: err}
}

// applyFixed overwrites the fixed output fields. Payloads that are not JSON
// objects are returned untouched so the validator reports them.
func (f *Flow[In, Out]) applyFixed(log *slog.Logger, in In, raw json.RawMessage) (json.RawMessage, error) {
	if len(f.fixed) == 0 || !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return raw, nil
	}

	values := make(map[string]string)
	for _, fn := range f.fixed {
		for k, v := range fn(in) {
			values[k] = v
		}
	}
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)

	out := []byte(raw)
	for _, name := range names {
		current := gjson.GetBytes(out, name)
		if current.Type == gjson.String && current.Str == values[name] {
			continue
		}
		log.Debug("overwriting model output field", slog.String("field", name),
			slog.Bool("was_present", current.Exists()))

		var err error
		out, err = sjson.SetBytes(out, name, values[name])
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
