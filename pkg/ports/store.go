package ports

import (
	"context"

	"github.com/aretw0/moedit/pkg/domain"
)

// DocumentStore defines the interface for reading and writing model documents.
// Stores deal in whole documents: there is no partial write.
type DocumentStore interface {
	// Load retrieves the document with the given ID.
	// Returns domain.ErrDocumentNotFound if the document does not exist.
	Load(ctx context.Context, id string) (domain.Document, error)

	// Save persists the document, replacing any previous content under the same ID.
	Save(ctx context.Context, doc domain.Document) error

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of the stored documents.
	List(ctx context.Context) ([]string, error)
}
