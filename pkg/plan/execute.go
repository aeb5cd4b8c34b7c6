package plan

import (
	"fmt"
	"time"

	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/mutate"
	"github.com/aretw0/moedit/pkg/scope"
)

// StepResult describes one applied step.
type StepResult struct {
	Index    int           `json:"index"`
	Op       string        `json:"op"`
	Target   string        `json:"target,omitempty"`
	Delta    int           `json:"delta"`
	Duration time.Duration `json:"duration"`
}

// Report lists the applied steps in order.
type Report struct {
	Steps []StepResult `json:"steps"`
}

// StepError reports which step of a plan failed.
type StepError struct {
	Index int
	Op    string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type execConfig struct {
	indent          string
	allowDuplicates bool
	onStep          func(StepResult, error)
}

// Option configures Execute.
type Option func(*execConfig)

// WithIndent sets the indentation unit for inserted lines.
func WithIndent(unit string) Option {
	return func(c *execConfig) {
		c.indent = unit
	}
}

// WithAllowDuplicates lets duplicate names resolve to the first match and
// duplicate statements be edited together.
func WithAllowDuplicates() Option {
	return func(c *execConfig) {
		c.allowDuplicates = true
	}
}

// WithStepHook registers a callback invoked after every step, successful or not.
func WithStepHook(fn func(StepResult, error)) Option {
	return func(c *execConfig) {
		c.onStep = fn
	}
}

// Execute applies steps to text in order and returns the final text.
// On failure it returns a *StepError and the report of the steps applied so far.
func Execute(text string, steps []Operation, opts ...Option) (string, *Report, error) {
	cfg := &execConfig{indent: mutate.DefaultIndent}
	for _, opt := range opts {
		opt(cfg)
	}

	mopts := []mutate.Option{mutate.WithIndent(cfg.indent)}
	var sopts []scope.Option
	if cfg.allowDuplicates {
		mopts = append(mopts, mutate.WithAllowDuplicates())
		sopts = append(sopts, scope.WithAllowDuplicates())
	}

	report := &Report{}
	for i, op := range steps {
		start := time.Now()
		before := len(text)

		next, err := applyStep(text, op, sopts, mopts)
		res := StepResult{
			Index:    i,
			Op:       op.Kind(),
			Target:   op.Scope(),
			Duration: time.Since(start),
		}
		if err != nil {
			if cfg.onStep != nil {
				cfg.onStep(res, err)
			}
			return text, report, &StepError{Index: i, Op: op.Kind(), Err: err}
		}

		text = next
		res.Delta = len(text) - before
		report.Steps = append(report.Steps, res)
		if cfg.onStep != nil {
			cfg.onStep(res, nil)
		}
	}
	return text, report, nil
}

func applyStep(text string, op Operation, sopts []scope.Option, mopts []mutate.Option) (string, error) {
	if err := op.Validate(); err != nil {
		return "", domain.NewEditError(op.Kind(), domain.ErrInvalidArgument, op.Scope(), err.Error())
	}

	if op.Scope() == "" {
		return op.Apply(text, nil, mopts...)
	}

	path, err := domain.ParsePath(op.Scope())
	if err != nil {
		return "", err
	}
	span, err := scope.Resolve(text, path, sopts...)
	if err != nil {
		return "", err
	}
	return op.Apply(text, &span, mopts...)
}
