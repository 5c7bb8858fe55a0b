package content_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tychan/site-api/internal/content"
	"github.com/tychan/site-api/internal/setting"
	settingrepo "github.com/tychan/site-api/internal/setting/repo"
	"github.com/tychan/site-api/internal/testutil"
	"github.com/tychan/site-api/pkg/docstore"
)

func newService(t *testing.T) (*content.ContentService, *sqlx.DB, *docstore.Store) {
	db := testutil.NewDB(t)
	docs := docstore.New(db)
	return content.NewContentService(setting.NewService(settingrepo.NewRepo(db)), docs), db, docs
}

func seedPages(t *testing.T, db *sqlx.DB) {
	testutil.SeedSetting(t, db, setting.CategorySectionDisplayMode, content.SectionChangelog, `{"display_mode":"timeline"}`)
	testutil.SeedSetting(t, db, setting.CategoryItemDisplayName, content.TitleChangelog, `{"display_name":"Change Log"}`)
	testutil.SeedSetting(t, db, setting.CategorySectionDisplayMode, content.SectionDesignProject, `{"display_mode":2}`)
	testutil.SeedSetting(t, db, setting.CategoryItemDisplayName, content.TitleDesignProject, `{"display_name":"Projects"}`)
}

func entry(major, minor, patch any) []byte {
	return []byte(fmt.Sprintf(`{"category":"fix","date":"2024-01-01","version":{"major":%v,"minor":%v,"patch":%v},"description":["x"]}`, major, minor, patch))
}

func TestListChangelogSortsByVersionDescending(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()
	seedPages(t, db)

	for _, e := range [][]byte{entry(1, 2, 0), entry(1, 10, 0), entry(2, 0, 0), entry(1, 10, 3)} {
		_, err := svc.AddChangelogEntry(ctx, e)
		require.NoError(t, err)
	}

	page, err := svc.ListChangelog(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Change Log", page.PageLogTitle)
	assert.Equal(t, "timeline", page.DisplayMode)

	var got []string
	for _, l := range page.Logs {
		v := l["version"].(map[string]any)
		got = append(got, fmt.Sprintf("%v.%v.%v", v["major"], v["minor"], v["patch"]))
		assert.NotEmpty(t, l["_id"])
	}
	assert.Equal(t, []string{"2.0.0", "1.10.3", "1.10.0", "1.2.0"}, got)
}

func TestListChangelogMissingPageContent(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	_, err := svc.ListChangelog(ctx)
	var nf *content.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, `Display mode for "log" section not found.`, nf.Message)

	testutil.SeedSetting(t, db, setting.CategorySectionDisplayMode, content.SectionChangelog, `{"display_mode":"list"}`)
	_, err = svc.ListChangelog(ctx)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Title of log page not found.", nf.Message)

	_, err = svc.ListProjectPreviews(ctx)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Display mode not found.", nf.Message)

	testutil.SeedSetting(t, db, setting.CategorySectionDisplayMode, content.SectionDesignProject, `{"display_mode":"grid"}`)
	_, err = svc.ListProjectPreviews(ctx)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Webpage title not found.", nf.Message)
}

func TestAddChangelogEntryStripsIdentity(t *testing.T) {
	svc, _, docs := newService(t)
	ctx := context.Background()

	id, err := svc.AddChangelogEntry(ctx, []byte(`{"_id":"mine","date":"2024-01-01","version":{"major":1,"minor":0,"patch":0}}`))
	require.NoError(t, err)

	stored, err := docs.Find(ctx, content.CollectionChangelog)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	m, err := stored[0].Map()
	require.NoError(t, err)
	assert.Equal(t, id, m["_id"])

	_, err = svc.AddChangelogEntry(ctx, []byte(`{"date":"01/02/2024","version":{"major":1,"minor":0,"patch":0}}`))
	assert.ErrorIs(t, err, content.ErrInvalidDate)
}

func TestListProjectPreviewsOrdered(t *testing.T) {
	svc, db, docs := newService(t)
	ctx := context.Background()
	seedPages(t, db)

	for _, body := range []string{
		`{"name":"c","dp51_display_sequence":3}`,
		`{"name":"a","dp51_display_sequence":1}`,
		`{"name":"none"}`,
		`{"name":"b","dp51_display_sequence":2}`,
	} {
		_, err := docs.Insert(ctx, content.CollectionProjectPreview, []byte(body))
		require.NoError(t, err)
	}

	page, err := svc.ListProjectPreviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Projects", page.PageTitle)
	assert.Equal(t, float64(2), page.DisplayMode)

	var names []any
	for _, p := range page.AllDesignProjectsPreview {
		names = append(names, p["name"])
	}
	assert.Equal(t, []any{"none", "a", "b", "c"}, names)
}
