// Package displayname renders a user's display name from the name fields stored
// on the user record and the user's chosen display mode.
//
// Only Western name order (first / middle / last) is supported. No locale or
// capitalization handling is applied.
package displayname

import "strings"

// Mode selects which template Format renders.
type Mode int

const (
	// ModeLegalFirst renders "legal_first legal_middle legal_last".
	ModeLegalFirst Mode = 1
	// ModeLegalLast renders "legal_last legal_middle legal_first".
	ModeLegalLast Mode = 2
	// ModePreferredFirst renders "preferred_first legal_middle legal_last".
	ModePreferredFirst Mode = 3
	// ModePreferredLast renders "legal_last legal_middle preferred_first".
	ModePreferredLast Mode = 4
	// ModeCustomized renders customized_display_name verbatim.
	ModeCustomized Mode = 5
)

// Fallback is returned for any mode outside 1..5.
const Fallback = ""

// Fields are the name fields of a user record. Absent optional values are empty strings.
type Fields struct {
	LegalFirstName        string
	LegalMiddleName       string
	LegalLastName         string
	PreferredFirstName    string
	CustomizedDisplayName string
	Mode                  Mode
}

// Valid reports whether m is one of the known display modes.
func (m Mode) Valid() bool {
	return m >= ModeLegalFirst && m <= ModeCustomized
}

// Format returns the display name for f. Empty parts are skipped so the result
// never carries doubled or edge whitespace.
func Format(f Fields) string {
	switch f.Mode {
	case ModeLegalFirst:
		return join(f.LegalFirstName, f.LegalMiddleName, f.LegalLastName)
	case ModeLegalLast:
		return join(f.LegalLastName, f.LegalMiddleName, f.LegalFirstName)
	case ModePreferredFirst:
		return join(f.PreferredFirstName, f.LegalMiddleName, f.LegalLastName)
	case ModePreferredLast:
		return join(f.LegalLastName, f.LegalMiddleName, f.PreferredFirstName)
	case ModeCustomized:
		return strings.TrimSpace(f.CustomizedDisplayName)
	default:
		return Fallback
	}
}

func join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
