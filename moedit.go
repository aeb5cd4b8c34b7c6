package moedit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/moedit/pkg/adapters/file"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/mutate"
	"github.com/aretw0/moedit/pkg/outline"
	"github.com/aretw0/moedit/pkg/plan"
	"github.com/aretw0/moedit/pkg/ports"
	"github.com/aretw0/moedit/pkg/scope"
	"github.com/aretw0/moedit/pkg/session"
)

// Version is set at build time.
var Version = "dev"

// Editor is the high-level entry point of the library.
// It applies plans to stored documents and serializes edits per document.
type Editor struct {
	store           ports.DocumentStore
	locker          ports.DistributedLocker
	lockTTL         time.Duration
	sessions        *session.Manager
	hooks           domain.Hooks
	logger          *slog.Logger
	indent          string
	allowDuplicates bool
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithStore sets the document store (default: file store rooted at ".").
func WithStore(s ports.DocumentStore) Option {
	return func(e *Editor) {
		e.store = s
	}
}

// WithLocker enables cross-process locking of documents during edits.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Editor) {
		e.locker = l
	}
}

// WithLockTTL bounds how long a distributed lock outlives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Editor) {
		e.lockTTL = ttl
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(h domain.Hooks) Option {
	return func(e *Editor) {
		e.hooks = h
	}
}

// WithIndent sets the indentation unit for inserted lines (default: two spaces).
func WithIndent(unit string) Option {
	return func(e *Editor) {
		e.indent = unit
	}
}

// WithAllowDuplicates makes duplicate names resolve to their first occurrence
// instead of failing with domain.ErrAmbiguous.
func WithAllowDuplicates() Option {
	return func(e *Editor) {
		e.allowDuplicates = true
	}
}

// New initializes a new Editor.
func New(opts ...Option) (*Editor, error) {
	e := &Editor{indent: mutate.DefaultIndent}
	for _, opt := range opts {
		opt(e)
	}

	if e.store == nil {
		e.store = file.New(".")
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.indent == "" {
		return nil, fmt.Errorf("indent unit cannot be empty")
	}

	sopts := []session.Option{session.WithLogger(e.logger)}
	if e.locker != nil {
		sopts = append(sopts, session.WithLocker(e.locker))
	}
	if e.lockTTL > 0 {
		sopts = append(sopts, session.WithLockTTL(e.lockTTL))
	}
	e.sessions = session.NewManager(e.store, sopts...)
	return e, nil
}

// Store returns the document store in use.
func (e *Editor) Store() ports.DocumentStore {
	return e.store
}

// Documents lists the stored document IDs.
func (e *Editor) Documents(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Document loads one stored document.
func (e *Editor) Document(ctx context.Context, id string) (domain.Document, error) {
	return e.sessions.Load(ctx, id)
}

// Resolve locates the block named by path in the stored document id.
func (e *Editor) Resolve(ctx context.Context, id, path string) (domain.Span, error) {
	span, _, err := e.Trace(ctx, id, path)
	return span, err
}

// Trace is Resolve that also returns the resolution steps attempted.
// The trace is returned even when resolution fails.
func (e *Editor) Trace(ctx context.Context, id, path string) (domain.Span, domain.Trace, error) {
	doc, err := e.sessions.Load(ctx, id)
	if err != nil {
		return domain.Span{}, nil, err
	}
	return e.resolve(ctx, doc, path)
}

// ResolveText locates the block named by path in text.
func (e *Editor) ResolveText(ctx context.Context, text, path string) (domain.Span, domain.Trace, error) {
	return e.resolve(ctx, domain.Document{Text: text}, path)
}

func (e *Editor) resolve(ctx context.Context, doc domain.Document, path string) (domain.Span, domain.Trace, error) {
	start := time.Now()
	var trace domain.Trace

	p, err := domain.ParsePath(path)
	if err != nil {
		return domain.Span{}, nil, err
	}

	opts := []scope.Option{scope.WithTrace(&trace)}
	if e.allowDuplicates {
		opts = append(opts, scope.WithAllowDuplicates())
	}
	span, err := scope.Resolve(doc.Text, p, opts...)

	domain.Emit(ctx, e.hooks.OnResolve, &domain.EditEvent{
		Type:       domain.EventResolve,
		DocumentID: doc.ID,
		Target:     path,
		Duration:   time.Since(start),
		Err:        err,
	})
	if err != nil {
		e.logger.Debug("resolve failed", "document", doc.ID, "path", path, "err", err)
	}
	return span, trace, err
}

// Outline returns the block tree of the stored document id.
func (e *Editor) Outline(ctx context.Context, id string) ([]*outline.Block, error) {
	doc, err := e.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	blocks, err := outline.Scan(doc.Text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return blocks, nil
}

// Result is the outcome of applying a plan.
type Result struct {
	Document domain.Document `json:"document"`
	Report   *plan.Report    `json:"report"`
}

// Apply runs the plan against its input document and saves the result under
// its destination. Nothing is saved when a step fails; the returned error is
// then a *plan.StepError and the Result holds the steps applied so far.
func (e *Editor) Apply(ctx context.Context, p *plan.Plan) (*Result, error) {
	if p.Input == "" {
		return nil, fmt.Errorf("plan has no input document")
	}

	res := &Result{}
	dest := p.Destination()
	e.logger.Info("applying plan", "input", p.Input, "output", dest, "steps", len(p.Steps))

	if dest == p.Input {
		doc, err := e.sessions.Update(ctx, p.Input, func(ctx context.Context, text string) (string, error) {
			out, report, err := e.execute(ctx, p.Input, text, p.Steps)
			res.Report = report
			return out, err
		})
		if err != nil {
			return res, err
		}
		res.Document = doc
		e.saved(ctx, doc)
		return res, nil
	}

	src, err := e.sessions.Load(ctx, p.Input)
	if err != nil {
		return nil, err
	}
	out, report, err := e.execute(ctx, p.Input, src.Text, p.Steps)
	res.Report = report
	if err != nil {
		return res, err
	}

	res.Document = domain.Document{ID: dest, Text: out}
	if err := e.sessions.Save(ctx, res.Document); err != nil {
		return res, fmt.Errorf("failed to save %s: %w", dest, err)
	}
	e.saved(ctx, res.Document)
	return res, nil
}

// ApplyText runs steps against text without touching the store.
func (e *Editor) ApplyText(ctx context.Context, text string, steps []plan.Operation) (string, *plan.Report, error) {
	return e.execute(ctx, "", text, steps)
}

func (e *Editor) execute(ctx context.Context, id, text string, steps []plan.Operation) (string, *plan.Report, error) {
	hook := func(r plan.StepResult, err error) {
		domain.Emit(ctx, e.hooks.OnStep, &domain.EditEvent{
			Type:       domain.EventStepApply,
			DocumentID: id,
			Op:         r.Op,
			Target:     r.Target,
			Delta:      r.Delta,
			Duration:   r.Duration,
			Err:        err,
		})
		if err != nil {
			e.logger.Warn("step failed", "document", id, "step", r.Index+1, "op", r.Op, "target", r.Target, "err", err)
			return
		}
		e.logger.Debug("step applied", "document", id, "step", r.Index+1, "op", r.Op, "target", r.Target, "delta", r.Delta)
	}

	opts := []plan.Option{plan.WithIndent(e.indent), plan.WithStepHook(hook)}
	if e.allowDuplicates {
		opts = append(opts, plan.WithAllowDuplicates())
	}
	return plan.Execute(text, steps, opts...)
}

func (e *Editor) saved(ctx context.Context, doc domain.Document) {
	domain.Emit(ctx, e.hooks.OnSave, &domain.EditEvent{
		Type:       domain.EventSave,
		DocumentID: doc.ID,
	})
	e.logger.Info("document saved", "document", doc.ID, "bytes", len(doc.Text))
}
