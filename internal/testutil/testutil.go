// Package testutil provides a throwaway sqlite database with the full schema,
// row seeding helpers and HTTP helpers for package tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/tychan/site-api/pkg/database"
)

// AllowedOrigins mirrors the production allow-list.
var AllowedOrigins = []string{"http://localhost:4200", "https://www.tychan.net", "https://tychan.net"}

// NewDB opens a fresh sqlite database in t's temp dir and creates the schema.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.EnsureSchema(context.Background(), db), "create schema")
	return db
}

// Logger returns a logger that writes through t.Log.
func Logger(t *testing.T) *zap.SugaredLogger {
	return zaptest.NewLogger(t).Sugar()
}

// User is the subset of user columns tests care about.
type User struct {
	AccountName        string
	LegalFirstName     string
	LegalMiddleName    string
	LegalLastName      string
	PreferredFirstName string
	CustomizedName     string
	DisplayMode        int
	Sequence           int
	Disabled           bool
}

// SeedUser inserts u and returns its id.
func SeedUser(t *testing.T, db *sqlx.DB, u User) int64 {
	t.Helper()
	status := 1
	if u.Disabled {
		status = 0
	}
	if u.DisplayMode == 0 {
		u.DisplayMode = 1
	}
	var id int64
	err := db.Get(&id, `INSERT INTO users (account_name, legal_first_name, legal_middle_name, legal_last_name,
		preferred_first_name, customized_display_name, name_display_mode, sequence_number, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		u.AccountName, u.LegalFirstName, nullable(u.LegalMiddleName), u.LegalLastName,
		nullable(u.PreferredFirstName), nullable(u.CustomizedName), u.DisplayMode, u.Sequence, status)
	require.NoError(t, err, "seed user")
	return id
}

// SeedPassword stores a bcrypt hash of password as a credential row.
func SeedPassword(t *testing.T, db *sqlx.DB, userID int64, credType int, password string, status int) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO user_passwords (user_id, type, content, status) VALUES (?, ?, ?, ?)`,
		userID, credType, string(hash), status)
	require.NoError(t, err, "seed password")
}

// SeedCurrency inserts a currency and returns its id.
func SeedCurrency(t *testing.T, db *sqlx.DB, code string, sequence, status int) int64 {
	t.Helper()
	var id int64
	err := db.Get(&id, `INSERT INTO currencies (code, display_sequence, status) VALUES (?, ?, ?) RETURNING id`, code, sequence, status)
	require.NoError(t, err, "seed currency")
	return id
}

// SeedUnit inserts a unit and returns its id.
func SeedUnit(t *testing.T, db *sqlx.DB, code string, status int) int64 {
	t.Helper()
	var id int64
	err := db.Get(&id, `INSERT INTO units (code, status) VALUES (?, ?) RETURNING id`, code, status)
	require.NoError(t, err, "seed unit")
	return id
}

// SeedWallet inserts a wallet and returns its id.
func SeedWallet(t *testing.T, db *sqlx.DB, userID, currencyID int64, name string, status int) int64 {
	t.Helper()
	var id int64
	err := db.Get(&id, `INSERT INTO wallets (user_id, display_name, currency_id, status) VALUES (?, ?, ?, ?) RETURNING id`,
		userID, name, currencyID, status)
	require.NoError(t, err, "seed wallet")
	return id
}

// SeedSetting stores a page-content setting.
func SeedSetting(t *testing.T, db *sqlx.DB, category, key, metadata string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO settings (id, category, key, metadata) VALUES (?, ?, ?, ?)`,
		category+":"+key, category, key, metadata)
	require.NoError(t, err, "seed setting")
}

// Count returns the number of rows in table.
func Count(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

// MakeRequest creates an HTTP test request with an optional JSON body and origin.
func MakeRequest(method, path string, body any, origin string) *http.Request {
	var req *http.Request
	if body != nil {
		var raw []byte
		if s, ok := body.(string); ok {
			raw = []byte(s)
		} else {
			raw, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

// DecodeBody decodes the recorded response body into a generic map.
func DecodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
