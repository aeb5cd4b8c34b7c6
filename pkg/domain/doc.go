/*
Package domain contains the core types shared by every part of moedit.

It defines the textual entities the editor works with (Document, Path, Span),
the parameters accepted by each edit operation, the error taxonomy and the
lifecycle hooks used for observability. This package is kept pure and free of
I/O so that the resolver, the mutators and the adapters can all depend on it.

# Key Entities

  - Document: the full text of one model file, identified by a store ID.
  - Path: a dotted address such as "Example.G.R4C3".
  - Span: the exact text of a resolved block plus its offset in the document.
  - Component, Parameter, Connection: the payloads of the edit operations.
*/
package domain
