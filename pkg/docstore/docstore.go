// Package docstore keeps schemaless JSON documents grouped by collection in a
// single relational table.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tychan/site-api/pkg/utilities"
)

// IDField is the key under which a document's id is exposed.
const IDField = "_id"

var ErrNotObject = errors.New("document body must be a JSON object")

// Document is one stored JSON object.
type Document struct {
	ID   string `db:"id"`
	Body []byte `db:"body"`
}

// Map decodes the body and sets IDField to the document id.
func (d Document) Map() (map[string]any, error) {
	m := map[string]any{}
	if err := json.Unmarshal(d.Body, &m); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", d.ID, err)
	}
	m[IDField] = d.ID
	return m, nil
}

type Store struct {
	db    *sqlx.DB
	newID func() string
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db, newID: utilities.NewSnowflakeID}
}

// Insert stores body in collection and returns the new document id.
func (s *Store) Insert(ctx context.Context, collection string, body []byte) (string, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil || probe == nil {
		return "", ErrNotObject
	}
	id := s.newID()
	q := s.db.Rebind(`INSERT INTO documents (id, collection, body) VALUES (?, ?, ?)`)
	// body goes over the wire as text so postgres parses it as jsonb, not bytea
	if _, err := s.db.ExecContext(ctx, q, id, collection, string(body)); err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

// Find returns every document of collection in insertion order.
func (s *Store) Find(ctx context.Context, collection string) ([]Document, error) {
	q := s.db.Rebind(`SELECT id, body FROM documents WHERE collection = ? ORDER BY created_at, id`)
	docs := []Document{}
	if err := s.db.SelectContext(ctx, &docs, q, collection); err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	return docs, nil
}
