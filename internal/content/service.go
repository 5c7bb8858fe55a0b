package content

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/tidwall/gjson"

	"github.com/tychan/site-api/internal/content/entity"
	"github.com/tychan/site-api/internal/setting"
	"github.com/tychan/site-api/pkg/docstore"
)

// Document collections.
const (
	CollectionChangelog      = "log"
	CollectionProjectPreview = "project_preview"
)

// Page-content keys.
const (
	SectionChangelog     = "log"
	SectionDesignProject = "design_project"
	TitleChangelog       = "Log_title"
	TitleDesignProject   = "Design_project_title"
	previewSequencePath  = "dp51_display_sequence"
)

// NotFoundError is returned when a page-content setting is missing. Message is
// safe to show to clients.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ContentService serves the changelog and the project previews.
type ContentService struct {
	settings *setting.Service
	docs     *docstore.Store
}

func NewContentService(settings *setting.Service, docs *docstore.Store) *ContentService {
	return &ContentService{settings: settings, docs: docs}
}

type pageKeys struct {
	section, title            string
	modeMissing, titleMissing string
}

var (
	changelogKeys = pageKeys{SectionChangelog, TitleChangelog, `Display mode for "log" section not found.`, "Title of log page not found."}
	previewKeys   = pageKeys{SectionDesignProject, TitleDesignProject, "Display mode not found.", "Webpage title not found."}
)

// ListChangelog returns every changelog entry, newest version first, with the
// page display mode and title.
func (s *ContentService) ListChangelog(ctx context.Context) (*entity.ChangelogPage, error) {
	mode, title, err := s.pageMeta(ctx, changelogKeys)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.Find(ctx, CollectionChangelog)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(docs, func(a, b docstore.Document) int {
		return entity.VersionOf(b.Body).Compare(entity.VersionOf(a.Body))
	})
	logs, err := toMaps(docs)
	if err != nil {
		return nil, err
	}
	return &entity.ChangelogPage{PageLogTitle: title, DisplayMode: mode, Logs: logs}, nil
}

// AddChangelogEntry validates body and appends it to the changelog.
func (s *ContentService) AddChangelogEntry(ctx context.Context, body []byte) (string, error) {
	doc, err := ValidateChangelogEntry(body).Get()
	if err != nil {
		return "", err
	}
	return s.docs.Insert(ctx, CollectionChangelog, doc)
}

// ListProjectPreviews returns the project previews ordered by display sequence.
// Previews without a sequence come first.
func (s *ContentService) ListProjectPreviews(ctx context.Context) (*entity.ProjectPreviewPage, error) {
	mode, title, err := s.pageMeta(ctx, previewKeys)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.Find(ctx, CollectionProjectPreview)
	if err != nil {
		return nil, err
	}
	seq := func(d docstore.Document) float64 {
		res := gjson.GetBytes(d.Body, previewSequencePath)
		if !res.Exists() || res.Type == gjson.Null {
			return math.Inf(-1)
		}
		return res.Float()
	}
	slices.SortStableFunc(docs, func(a, b docstore.Document) int {
		x, y := seq(a), seq(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	})
	previews, err := toMaps(docs)
	if err != nil {
		return nil, err
	}
	return &entity.ProjectPreviewPage{PageTitle: title, DisplayMode: mode, AllDesignProjectsPreview: previews}, nil
}

func (s *ContentService) pageMeta(ctx context.Context, k pageKeys) (mode, title any, err error) {
	m, err := s.settings.Lookup(ctx, setting.CategorySectionDisplayMode, k.section, setting.FieldDisplayMode)
	if err != nil {
		return nil, nil, missing(err, k.modeMissing)
	}
	t, err := s.settings.Lookup(ctx, setting.CategoryItemDisplayName, k.title, setting.FieldDisplayName)
	if err != nil {
		return nil, nil, missing(err, k.titleMissing)
	}
	return m.Value(), t.Value(), nil
}

func missing(err error, message string) error {
	if errors.Is(err, setting.ErrNotFound) {
		return &NotFoundError{Message: message}
	}
	return fmt.Errorf("page content: %w", err)
}

func toMaps(docs []docstore.Document) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		m, err := d.Map()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
