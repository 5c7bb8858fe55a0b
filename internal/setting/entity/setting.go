package entity

// Setting is one page-content record, addressed by category and key.
// Metadata holds the JSON object the page reads its fields from.
type Setting struct {
	ID         string `db:"id" json:"id"`
	Category   string `db:"category" json:"category"`
	Key        string `db:"key" json:"key"`
	Metadata   []byte `db:"metadata" json:"-"`
	RecordMeta []byte `db:"record_meta" json:"-"`
}

// NewSetting creates a Setting with an empty record_meta.
func NewSetting(id, category, key string, metadata []byte) *Setting {
	return &Setting{ID: id, Category: category, Key: key, Metadata: metadata, RecordMeta: []byte("{}")}
}
