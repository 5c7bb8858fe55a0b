package entity

import (
	"database/sql"

	"github.com/tychan/site-api/pkg/displayname"
)

// Status values shared by users and credentials.
const (
	StatusRetired = 0
	StatusActive  = 1
)

// CredentialTypeHash marks a credential whose content is a bcrypt hash.
const CredentialTypeHash = 1

// User is a row of the users table with the columns the login flows read.
type User struct {
	ID                    int64          `db:"id"`
	AccountName           string         `db:"account_name"`
	Role                  int            `db:"role"`
	LegalFirstName        string         `db:"legal_first_name"`
	LegalMiddleName       sql.NullString `db:"legal_middle_name"`
	LegalLastName         string         `db:"legal_last_name"`
	PreferredFirstName    sql.NullString `db:"preferred_first_name"`
	CustomizedDisplayName sql.NullString `db:"customized_display_name"`
	NameDisplayMode       int            `db:"name_display_mode"`
	Status                int            `db:"status"`
}

// NameFields maps the user's name columns for displayname.Format.
func (u *User) NameFields() displayname.Fields {
	return displayname.Fields{
		LegalFirstName:        u.LegalFirstName,
		LegalMiddleName:       u.LegalMiddleName.String,
		LegalLastName:         u.LegalLastName,
		PreferredFirstName:    u.PreferredFirstName.String,
		CustomizedDisplayName: u.CustomizedDisplayName.String,
		Mode:                  displayname.Mode(u.NameDisplayMode),
	}
}

// Credential is a row of user_passwords. At most one active row exists per
// (user_id, type).
type Credential struct {
	ID      int64  `db:"id"`
	UserID  int64  `db:"user_id"`
	Type    int    `db:"type"`
	Content string `db:"content"`
	Status  int    `db:"status"`
}

// UserSummary is returned by the account existence check.
type UserSummary struct {
	AccountName string `json:"account_name"`
}

// AuthView is returned after a successful password check.
type AuthView struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}
