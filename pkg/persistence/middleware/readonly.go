package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/ports"
)

// ErrReadOnly is returned by Save and Delete on a read-only store.
var ErrReadOnly = errors.New("store is read-only")

type readOnlyMiddleware struct {
	ports.DocumentStore
}

// NewReadOnlyMiddleware rejects every write. Loads and lists pass through.
func NewReadOnlyMiddleware() Middleware {
	return func(next ports.DocumentStore) ports.DocumentStore {
		return readOnlyMiddleware{next}
	}
}

func (readOnlyMiddleware) Save(ctx context.Context, doc domain.Document) error {
	return fmt.Errorf("%w: cannot save %s", ErrReadOnly, doc.ID)
}

func (readOnlyMiddleware) Delete(ctx context.Context, id string) error {
	return fmt.Errorf("%w: cannot delete %s", ErrReadOnly, id)
}
