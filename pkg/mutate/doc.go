// Package mutate implements the structural edits applied to a block or a
// whole document.
//
// Every mutator is a pure function: it takes text and returns new text or an
// error. A missing anchor or target is always reported through a
// domain.EditError, never by returning the input unchanged.
package mutate
