package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/samber/mo"
	"github.com/tidwall/gjson"

	"github.com/tychan/site-api/internal/content/entity"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidEntry   = errors.New("changelog entry must be a JSON object")
	ErrInvalidDate    = errors.New("date must be YYYY-MM-DD")
	ErrInvalidVersion = errors.New("version fields must be numeric")
)

// identity fields a client may not choose
var identityFields = []string{"_id", "id"}

// ValidateChangelogEntry checks a submitted entry and returns the document to
// store: identity fields removed and version parts as integers.
func ValidateChangelogEntry(body []byte) mo.Result[[]byte] {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return mo.Err[[]byte](ErrInvalidEntry)
	}
	date := gjson.GetBytes(body, "date")
	if date.Type != gjson.String || len(date.Str) != len(dateLayout) {
		return mo.Err[[]byte](ErrInvalidDate)
	}
	if _, err := time.Parse(dateLayout, date.Str); err != nil {
		return mo.Err[[]byte](ErrInvalidDate)
	}

	var v entity.Version
	for _, part := range []struct {
		name string
		dst  *int64
	}{{"major", &v.Major}, {"minor", &v.Minor}, {"patch", &v.Patch}} {
		n, err := versionPart(gjson.GetBytes(body, "version."+part.name)).Get()
		if err != nil {
			return mo.Err[[]byte](fmt.Errorf("version.%s: %w", part.name, err))
		}
		*part.dst = n
	}

	doc := map[string]any{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return mo.Err[[]byte](ErrInvalidEntry)
	}
	for _, k := range identityFields {
		delete(doc, k)
	}
	doc["version"] = v
	return mo.TupleToResult(json.Marshal(doc))
}

// versionPart accepts a non-negative integer given as a JSON number or a digit string.
func versionPart(res gjson.Result) mo.Result[int64] {
	switch res.Type {
	case gjson.Number:
		if n, err := strconv.ParseInt(res.Raw, 10, 64); err == nil {
			if n < 0 {
				return mo.Err[int64](ErrInvalidVersion)
			}
			return mo.Ok(n)
		}
		// 1.0 and 1e3 are whole numbers too; float64(MaxInt64) rounds up to 2^63
		if res.Num < 0 || res.Num >= math.MaxInt64 || res.Num != math.Trunc(res.Num) {
			return mo.Err[int64](ErrInvalidVersion)
		}
		return mo.Ok(int64(res.Num))
	case gjson.String:
		for _, c := range res.Str {
			if c < '0' || c > '9' {
				return mo.Err[int64](ErrInvalidVersion)
			}
		}
		n, err := strconv.ParseInt(res.Str, 10, 64)
		if err != nil {
			return mo.Err[int64](ErrInvalidVersion)
		}
		return mo.Ok(n)
	}
	return mo.Err[int64](ErrInvalidVersion)
}
