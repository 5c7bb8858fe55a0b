package entity

import (
	"cmp"

	"github.com/tidwall/gjson"
)

// Version is the semantic version of a changelog entry.
type Version struct {
	Major int64 `json:"major"`
	Minor int64 `json:"minor"`
	Patch int64 `json:"patch"`
}

// VersionOf reads version.{major,minor,patch} from a stored entry. Digit
// strings count as numbers; anything else reads as zero.
func VersionOf(body []byte) Version {
	parts := gjson.GetManyBytes(body, "version.major", "version.minor", "version.patch")
	return Version{Major: parts[0].Int(), Minor: parts[1].Int(), Patch: parts[2].Int()}
}

// Compare orders versions by major, then minor, then patch.
func (v Version) Compare(o Version) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, o.Patch)
}

// ChangelogEntry documents the expected shape of a changelog document.
// Entries are stored as submitted, so extra fields survive.
type ChangelogEntry struct {
	Category    string   `json:"category"`
	Date        string   `json:"date"`
	Version     Version  `json:"version"`
	IsCritical  bool     `json:"is_critical"`
	Description []string `json:"description"`
}

// ChangelogPage is the data of the changelog listing.
type ChangelogPage struct {
	PageLogTitle any              `json:"page_log_title"`
	DisplayMode  any              `json:"display_mode"`
	Logs         []map[string]any `json:"logs"`
}

// ProjectPreviewPage is the data of the project preview listing.
type ProjectPreviewPage struct {
	PageTitle                any              `json:"page_title"`
	DisplayMode              any              `json:"display_mode"`
	AllDesignProjectsPreview []map[string]any `json:"all_design_projects_preview"`
}
