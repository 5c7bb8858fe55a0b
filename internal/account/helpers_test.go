package account_test

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/tychan/site-api/internal/account/entity"
	"github.com/tychan/site-api/internal/testutil"
)

type fixture struct {
	t  *testing.T
	db *sqlx.DB
}

func (d *fixture) user(name string, status int) int64 {
	return testutil.SeedUser(d.t, d.db, testutil.User{
		AccountName:    name,
		LegalFirstName: "Jane",
		LegalLastName:  "Doe",
		DisplayMode:    1,
		Disabled:       status != entity.StatusActive,
	})
}
