package content

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestValidateChangelogEntry(t *testing.T) {
	doc, err := ValidateChangelogEntry([]byte(`{
		"_id": "abc", "id": 7,
		"category": "feature", "date": "2024-03-09",
		"version": {"major": "1", "minor": 10, "patch": "0"},
		"is_critical": false, "description": ["one", "two"]
	}`)).Get()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"category": "feature", "date": "2024-03-09",
		"version": {"major": 1, "minor": 10, "patch": 0},
		"is_critical": false, "description": ["one", "two"]
	}`, string(doc))
}

func TestValidateChangelogEntryRejects(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"array":           {`[]`, ErrInvalidEntry},
		"broken json":     {`{"date":`, ErrInvalidEntry},
		"missing date":    {`{"version":{"major":1,"minor":0,"patch":0}}`, ErrInvalidDate},
		"short date":      {`{"date":"2024-3-9","version":{"major":1,"minor":0,"patch":0}}`, ErrInvalidDate},
		"impossible date": {`{"date":"2024-02-30","version":{"major":1,"minor":0,"patch":0}}`, ErrInvalidDate},
		"date with time":  {`{"date":"2024-03-09T10:00:00Z","version":{"major":1,"minor":0,"patch":0}}`, ErrInvalidDate},
		"missing version": {`{"date":"2024-03-09"}`, ErrInvalidVersion},
		"text part":       {`{"date":"2024-03-09","version":{"major":"one","minor":0,"patch":0}}`, ErrInvalidVersion},
		"fraction":        {`{"date":"2024-03-09","version":{"major":1.5,"minor":0,"patch":0}}`, ErrInvalidVersion},
		"negative":        {`{"date":"2024-03-09","version":{"major":1,"minor":-1,"patch":0}}`, ErrInvalidVersion},
		"empty string":    {`{"date":"2024-03-09","version":{"major":1,"minor":0,"patch":""}}`, ErrInvalidVersion},
		"huge exponent":   {`{"date":"2024-03-09","version":{"major":1e30,"minor":0,"patch":0}}`, ErrInvalidVersion},
		"overflow number": {`{"date":"2024-03-09","version":{"major":99999999999999999999,"minor":0,"patch":0}}`, ErrInvalidVersion},
		"overflow string": {`{"date":"2024-03-09","version":{"major":"99999999999999999999","minor":0,"patch":0}}`, ErrInvalidVersion},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			res := ValidateChangelogEntry([]byte(c.body))
			assert.True(t, res.IsError())
			assert.ErrorIs(t, res.Error(), c.want)
		})
	}
}

func TestVersionPartWholeNumberForms(t *testing.T) {
	for raw, want := range map[string]int64{`7`: 7, `2.0`: 2, `1e3`: 1000, `"42"`: 42, `9223372036854775807`: math.MaxInt64} {
		n, err := versionPart(gjson.Parse(raw)).Get()
		assert.NoError(t, err, raw)
		assert.Equal(t, want, n, raw)
	}
}
