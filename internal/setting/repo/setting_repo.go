package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/tychan/site-api/internal/setting/entity"
)

// Repo is the repository implementation for settings.
type Repo struct {
	db *sqlx.DB
}

// NewRepo constructs a new Repo with an existing connection.
func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

// Get returns the setting for (category, key) or sql.ErrNoRows.
func (r *Repo) Get(ctx context.Context, category, key string) (*entity.Setting, error) {
	var st entity.Setting
	q := r.db.Rebind(`SELECT id, category, key, metadata, record_meta FROM settings WHERE category = ? AND key = ?`)
	if err := r.db.GetContext(ctx, &st, q, category, key); err != nil {
		return nil, err
	}
	return &st, nil
}

// Upsert inserts st, or replaces the metadata of the existing (category, key)
// row. st.ID and st.RecordMeta are refreshed from the stored row.
func (r *Repo) Upsert(ctx context.Context, st *entity.Setting) error {
	q := r.db.Rebind(`INSERT INTO settings (id, category, key, metadata, record_meta) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (category, key) DO UPDATE SET metadata = excluded.metadata
		RETURNING id, record_meta`)
	// jsonb columns need text parameters
	return r.db.QueryRowxContext(ctx, q, st.ID, st.Category, st.Key, string(st.Metadata), string(st.RecordMeta)).
		Scan(&st.ID, &st.RecordMeta)
}

// ListByCategory returns every setting of category ordered by key.
func (r *Repo) ListByCategory(ctx context.Context, category string) ([]*entity.Setting, error) {
	q := r.db.Rebind(`SELECT id, category, key, metadata, record_meta FROM settings WHERE category = ? ORDER BY key`)
	out := []*entity.Setting{}
	if err := r.db.SelectContext(ctx, &out, q, category); err != nil {
		return nil, err
	}
	return out, nil
}
