package plan

import (
	"fmt"

	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/mutate"
)

// Operation names accepted in the "op" field of a step.
const (
	OpAddComponent   = mutate.OpInsertComponent
	OpAddParameter   = mutate.OpInsertParameter
	OpSetParameter   = mutate.OpEditParameter
	OpEditConnection = mutate.OpEditConnection
	OpAddConnection  = mutate.OpInsertConnection
	OpClone          = mutate.OpClone
	OpExtend         = mutate.OpExtends
)

// Operation is one decoded step.
type Operation interface {
	// Kind returns the op name, e.g. "add_component".
	Kind() string
	// Scope returns the dotted target path, or "" for the whole document.
	Scope() string
	// Validate checks the required fields.
	Validate() error
	// Apply runs the edit. span is nil when the step has no target.
	Apply(doc string, span *domain.Span, opts ...mutate.Option) (string, error)
}

// Base holds the fields shared by every step.
type Base struct {
	Op     string `mapstructure:"op" json:"op"`
	Target string `mapstructure:"target" json:"target,omitempty"`
}

func (b Base) Kind() string  { return b.Op }
func (b Base) Scope() string { return b.Target }

// AddComponent inserts a component declaration.
type AddComponent struct {
	Base             `mapstructure:",squash"`
	domain.Component `mapstructure:",squash"`
}

func (s *AddComponent) Validate() error { return s.Component.Validate() }

func (s *AddComponent) Apply(doc string, span *domain.Span, opts ...mutate.Option) (string, error) {
	return withinSpan(doc, span, func(text string) (string, error) {
		return mutate.InsertComponent(text, s.Component, opts...)
	})
}

// AddParameter inserts a parameter declaration.
type AddParameter struct {
	Base             `mapstructure:",squash"`
	domain.Parameter `mapstructure:",squash"`
}

func (s *AddParameter) Validate() error { return s.Parameter.Validate() }

func (s *AddParameter) Apply(doc string, span *domain.Span, opts ...mutate.Option) (string, error) {
	return withinSpan(doc, span, func(text string) (string, error) {
		return mutate.InsertParameter(text, s.Parameter, opts...)
	})
}

// SetParameter changes the value of an existing parameter.
type SetParameter struct {
	Base      `mapstructure:",squash"`
	Parameter string `mapstructure:"name" json:"name"`
	Value     string `mapstructure:"value" json:"value"`
}

func (s *SetParameter) Validate() error {
	if s.Parameter == "" || s.Value == "" {
		return fmt.Errorf("set_parameter requires name and value")
	}
	return nil
}

func (s *SetParameter) Apply(doc string, span *domain.Span, opts ...mutate.Option) (string, error) {
	return withinSpan(doc, span, func(text string) (string, error) {
		return mutate.EditParameter(text, s.Parameter, s.Value, opts...)
	})
}

// EditConnection rewrites the endpoints of a connect statement.
type EditConnection struct {
	Base `mapstructure:",squash"`
	From []string `mapstructure:"from" json:"from"`
	To   []string `mapstructure:"to" json:"to"`
}

func (s *EditConnection) Validate() error {
	if _, err := pair("from", s.From); err != nil {
		return err
	}
	_, err := pair("to", s.To)
	return err
}

func (s *EditConnection) Apply(doc string, span *domain.Span, opts ...mutate.Option) (string, error) {
	from, err := pair("from", s.From)
	if err != nil {
		return "", err
	}
	to, err := pair("to", s.To)
	if err != nil {
		return "", err
	}
	return withinSpan(doc, span, func(text string) (string, error) {
		return mutate.EditConnection(text, from, to, opts...)
	})
}

// AddConnection inserts a connect statement after the equation marker.
type AddConnection struct {
	Base    `mapstructure:",squash"`
	Connect []string `mapstructure:"connect" json:"connect"`
}

func (s *AddConnection) Validate() error {
	_, err := pair("connect", s.Connect)
	return err
}

func (s *AddConnection) Apply(doc string, span *domain.Span, opts ...mutate.Option) (string, error) {
	c, err := pair("connect", s.Connect)
	if err != nil {
		return "", err
	}
	return withinSpan(doc, span, func(text string) (string, error) {
		return mutate.InsertConnection(text, c, opts...)
	})
}

// Clone copies the target block under a new name, right after the original.
type Clone struct {
	Base    `mapstructure:",squash"`
	NewName string `mapstructure:"name" json:"name"`
}

func (s *Clone) Validate() error {
	if s.Target == "" {
		return fmt.Errorf("clone requires a target")
	}
	if s.NewName == "" {
		return fmt.Errorf("clone requires a new name")
	}
	return nil
}

func (s *Clone) Apply(doc string, span *domain.Span, opts ...mutate.Option) (string, error) {
	if span == nil {
		return "", fmt.Errorf("clone requires a resolved target")
	}
	return mutate.CloneBlock(doc, *span, s.NewName, opts...)
}

// Extend adds `extends <Base>;` to the owner block.
// The owner defaults to the last segment of the target. An owner naming a
// different block is looked up next to the target, in the same container.
type Extend struct {
	Base      `mapstructure:",squash"`
	Reference string `mapstructure:"base" json:"base"`
	Owner     string `mapstructure:"owner" json:"owner,omitempty"`
}

func (s *Extend) Validate() error {
	if s.Reference == "" {
		return fmt.Errorf("extend requires a base")
	}
	if s.Owner == "" && s.Target == "" {
		return fmt.Errorf("extend requires an owner or a target")
	}
	return nil
}

// Scope returns the path of the owner block: the target itself, or its
// sibling named by Owner.
func (s *Extend) Scope() string {
	if s.Target == "" || s.Owner == "" {
		return s.Target
	}
	path, err := domain.ParsePath(s.Target)
	if err != nil || path.Leaf() == s.Owner {
		return s.Target
	}
	return path.Sibling(s.Owner).String()
}

func (s *Extend) Apply(doc string, span *domain.Span, opts ...mutate.Option) (string, error) {
	owner := s.Owner
	if span != nil {
		owner = span.Name
		widened := mutate.Widen(doc, *span)
		span = &widened
	}
	return withinSpan(doc, span, func(text string) (string, error) {
		return mutate.AddExtends(text, s.Reference, owner, opts...)
	})
}

// withinSpan applies fn to the span text and writes the result back into doc,
// or applies fn to the whole document when span is nil.
func withinSpan(doc string, span *domain.Span, fn func(string) (string, error)) (string, error) {
	if span == nil {
		return fn(doc)
	}
	updated, err := fn(span.Text)
	if err != nil {
		return "", err
	}
	return mutate.Replace(doc, *span, updated)
}

func pair(field string, v []string) (domain.Connection, error) {
	if len(v) != 2 || v[0] == "" || v[1] == "" {
		return domain.Connection{}, fmt.Errorf("%s must list exactly two endpoints", field)
	}
	return domain.Connection{A: v[0], B: v[1]}, nil
}
