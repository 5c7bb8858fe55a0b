package setting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/tychan/site-api/internal/setting/entity"
	"github.com/tychan/site-api/internal/setting/repo"
	"github.com/tychan/site-api/pkg/utilities"
)

// Categories read by the content pages.
const (
	CategorySectionDisplayMode = "section_display_mode"
	CategoryItemDisplayName    = "items_and_display_name"

	FieldDisplayMode = "display_mode"
	FieldDisplayName = "display_name"
)

// Service encapsulates business logic for settings and depends on a repo.
type Service struct {
	repo *repo.Repo
}

// NewService constructs a Service with the provided repository.
func NewService(r *repo.Repo) *Service {
	return &Service{repo: r}
}

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidPayload = errors.New("metadata must be a JSON object")
)

// Get returns the setting for (category, key).
func (s *Service) Get(ctx context.Context, category, key string) (*entity.Setting, error) {
	st, err := s.repo.Get(ctx, category, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get setting %s/%s: %w", category, key, err)
	}
	return st, nil
}

// Lookup reads one metadata field. A missing row, a missing field and an
// empty value all report ErrNotFound.
func (s *Service) Lookup(ctx context.Context, category, key, path string) (gjson.Result, error) {
	st, err := s.Get(ctx, category, key)
	if err != nil {
		return gjson.Result{}, err
	}
	res := gjson.GetBytes(st.Metadata, path)
	if !res.Exists() || res.Type == gjson.Null || (res.Type == gjson.String && res.Str == "") {
		return gjson.Result{}, ErrNotFound
	}
	return res, nil
}

// Put creates or replaces the metadata stored under (category, key).
func (s *Service) Put(ctx context.Context, category, key string, metadata []byte) (*entity.Setting, error) {
	if category == "" || key == "" {
		return nil, errors.New("category and key are required")
	}
	if !gjson.ValidBytes(metadata) || !gjson.ParseBytes(metadata).IsObject() {
		return nil, ErrInvalidPayload
	}
	st := entity.NewSetting(utilities.NewSnowflakeID(), category, key, metadata)
	if err := s.repo.Upsert(ctx, st); err != nil {
		return nil, fmt.Errorf("put setting %s/%s: %w", category, key, err)
	}
	return st, nil
}

// List returns every setting in category.
func (s *Service) List(ctx context.Context, category string) ([]*entity.Setting, error) {
	return s.repo.ListByCategory(ctx, category)
}
