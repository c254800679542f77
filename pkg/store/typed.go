package store

import (
	"context"

	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/logging"
)

// Identified is a record that knows its id.
type Identified interface {
	RecordID() string
}

// GetAs loads one document into a T.
func GetAs[T any](ctx context.Context, s Store, collection, id string) (T, error) {
	var v T
	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		return v, err
	}
	err = doc.Decode(&v)
	return v, err
}

// ListAs decodes a whole collection, in creation order.
func ListAs[T any](ctx context.Context, s Store, collection string) ([]T, error) {
	docs, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](docs)
}

// SubscribeAs is Subscribe with decoded records. Documents that do not
// decode are skipped and logged.
func SubscribeAs[T any](s Store, collection string, fn func([]T)) (cancel func()) {
	return s.Subscribe(collection, func(docs []Document) {
		out := make([]T, 0, len(docs))
		for _, doc := range docs {
			var v T
			if err := doc.Decode(&v); err != nil {
				logging.Default().Warn().Err(err).Str("collection", collection).Str("id", doc.ID).Msg("Skipping undecodable document")
				continue
			}
			out = append(out, v)
		}
		fn(out)
	})
}

// Save creates record when it has no id or its id is not stored yet, and
// replaces the stored document otherwise. It returns the record id.
func Save[T Identified](ctx context.Context, s Store, collection string, record T) (string, error) {
	id := record.RecordID()
	if id == "" {
		return s.Create(ctx, collection, record)
	}
	_, err := s.Get(ctx, collection, id)
	switch {
	case errors.IsNotFound(err):
		return s.Create(ctx, collection, record)
	case err != nil:
		return "", err
	}
	if err := s.Replace(ctx, collection, id, record); err != nil {
		return "", err
	}
	return id, nil
}

func decodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
