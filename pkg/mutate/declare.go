package mutate

import (
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/outline"
)

const (
	OpInsertComponent = "add_component"
	OpInsertParameter = "add_parameter"
)

// InsertComponent inserts `<type> <name>[(<args>)];` into the declaration
// section, on its own line right before the last equation section marker.
func InsertComponent(text string, c domain.Component, opts ...Option) (string, error) {
	if err := c.Validate(); err != nil {
		return "", domain.NewEditError(OpInsertComponent, domain.ErrInvalidArgument, c.Name, err.Error())
	}
	return insertDeclaration(OpInsertComponent, text, c.Declaration(), newOptions(opts))
}

// InsertParameter inserts `parameter <type> <name> = <value>[ "<annotation>"];`
// before the last equation section marker.
func InsertParameter(text string, p domain.Parameter, opts ...Option) (string, error) {
	if err := p.Validate(); err != nil {
		return "", domain.NewEditError(OpInsertParameter, domain.ErrInvalidArgument, p.Name, err.Error())
	}
	return insertDeclaration(OpInsertParameter, text, p.Declaration(), newOptions(opts))
}

func insertDeclaration(op, text, decl string, o *options) (string, error) {
	markers := outline.SectionMarkers(text)
	if len(markers) == 0 {
		return "", domain.NewEditError(op, domain.ErrAnchorNotFound, "equation", "no equation section in scope")
	}
	anchor := markers[len(markers)-1][0]
	nl := newline(text)

	start, indent, blank := lineAt(text, anchor)
	if blank {
		// The marker sits on its own line: add a full line above it.
		line := indent + o.indent + decl + nl
		return text[:start] + line + text[start:], nil
	}
	return text[:anchor] + decl + nl + indent + text[anchor:], nil
}
