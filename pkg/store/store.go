// Package store persists kitstash records as JSON documents grouped in
// collections ("paints", "kits", "projects").
//
// Writers get the created id back; readers either list a collection or
// subscribe to it and receive the full ordered list after every write.
// Two implementations are provided: an in-memory store for tests and
// ephemeral sessions, and a GORM store that keeps documents in a single
// SQLite table.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/records"
)

// Store is a document store with live collection subscriptions.
type Store interface {
	// Create stores record and returns its id. A record without an "id"
	// field gets a fresh one.
	Create(ctx context.Context, collection string, record any) (string, error)
	// Update merges fields into the stored document, one level deep.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Replace overwrites the stored document with record.
	Replace(ctx context.Context, collection, id string, record any) error
	// Delete removes a document.
	Delete(ctx context.Context, collection, id string) error
	// Get returns one document.
	Get(ctx context.Context, collection, id string) (Document, error)
	// List returns every document of a collection in creation order.
	List(ctx context.Context, collection string) ([]Document, error)
	// Subscribe calls fn with the current list now and after every write
	// to the collection, until cancel is called. Deliveries for one
	// collection never overlap and arrive in the order the lists were
	// loaded. fn must not write to the same collection.
	Subscribe(collection string, fn Listener) (cancel func())
	// Close releases the store.
	Close() error
}

// Listener receives the ordered documents of a collection.
type Listener func(docs []Document)

// Document is one stored record.
type Document struct {
	ID   string          `json:"id"`
	Seq  int64           `json:"-"`
	Body json.RawMessage `json:"body"`
}

// Decode unmarshals the document body into v.
func (d Document) Decode(v any) error {
	if err := json.Unmarshal(d.Body, v); err != nil {
		return errors.WrapParse("json", d.ID, err)
	}
	return nil
}

// fields is a decoded document body.
type fields map[string]any

// toFields converts a record into its top-level JSON fields.
func toFields(record any) (fields, error) {
	if record == nil {
		return nil, errors.NewValidationError("record", nil, "record is required")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, errors.NewValidationError("record", record, err.Error())
	}
	return decodeFields(data)
}

func decodeFields(data []byte) (fields, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var f fields
	if err := dec.Decode(&f); err != nil {
		return nil, errors.NewValidationError("record", string(data), "record must be a JSON object")
	}
	if f == nil {
		return nil, errors.NewValidationError("record", nil, "record must be a JSON object")
	}
	return f, nil
}

// id returns the record id carried in the body, if any.
func (f fields) id() string {
	if s, ok := f["id"].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// merge overlays patch onto f. The id is never changed.
func (f fields) merge(patch map[string]any) {
	for k, v := range patch {
		if k == "id" {
			continue
		}
		f[k] = v
	}
}

func (f fields) encode() (json.RawMessage, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, errors.NewValidationError("record", nil, err.Error())
	}
	return data, nil
}

// prepareCreate assigns an id when the record has none and encodes it.
func prepareCreate(collection string, record any) (string, json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return "", nil, err
	}
	f, err := toFields(record)
	if err != nil {
		return "", nil, err
	}
	id := f.id()
	if id == "" {
		id = records.NewID()
	}
	f["id"] = id
	body, err := f.encode()
	if err != nil {
		return "", nil, err
	}
	return id, body, nil
}

// prepareReplace encodes record under id.
func prepareReplace(collection, id string, record any) (json.RawMessage, error) {
	if err := checkKey(collection, id); err != nil {
		return nil, err
	}
	f, err := toFields(record)
	if err != nil {
		return nil, err
	}
	f["id"] = id
	return f.encode()
}

// applyUpdate merges patch into the stored body.
func applyUpdate(body json.RawMessage, id string, patch map[string]any) (json.RawMessage, error) {
	f, err := decodeFields(body)
	if err != nil {
		return nil, errors.WrapParse("json", id, err)
	}
	f.merge(patch)
	return f.encode()
}

func checkCollection(collection string) error {
	if strings.TrimSpace(collection) == "" {
		return errors.NewValidationError("collection", collection, "collection is required")
	}
	return nil
}

func checkKey(collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return errors.NewValidationError("id", id, "id is required")
	}
	return nil
}

func alreadyExists(collection, id string) error {
	return errors.NewResourceError("create", singular(collection), id, errors.ErrAlreadyExists)
}

func notFound(collection, id string) error {
	return errors.NewNotFoundError(singular(collection), id)
}

// singular turns "kits" into "kit" for messages.
func singular(collection string) string {
	return strings.TrimSuffix(collection, "s")
}
