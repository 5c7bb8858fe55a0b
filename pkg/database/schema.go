package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema creates every table the API reads or writes. Safe to call
// multiple times; each statement uses IF NOT EXISTS.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	ddl := postgresSchema
	if db.DriverName() == DriverSQLite {
		ddl = sqliteSchema
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
  id BIGSERIAL PRIMARY KEY,
  account_name TEXT NOT NULL UNIQUE,
  role INT NOT NULL DEFAULT 0,
  legal_first_name TEXT NOT NULL DEFAULT '',
  legal_middle_name TEXT,
  legal_last_name TEXT NOT NULL DEFAULT '',
  preferred_first_name TEXT,
  customized_display_name TEXT,
  name_display_mode INT NOT NULL DEFAULT 1,
  sequence_number INT NOT NULL DEFAULT 0,
  status SMALLINT NOT NULL DEFAULT 1,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_status_seq ON users(status, sequence_number);

CREATE TABLE IF NOT EXISTS user_passwords (
  id BIGSERIAL PRIMARY KEY,
  user_id BIGINT NOT NULL REFERENCES users(id),
  type SMALLINT NOT NULL,
  content TEXT NOT NULL,
  status SMALLINT NOT NULL DEFAULT 1,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_user_passwords_active ON user_passwords(user_id, type, status);

CREATE TABLE IF NOT EXISTS currencies (
  id BIGSERIAL PRIMARY KEY,
  code TEXT NOT NULL,
  display_sequence INT NOT NULL DEFAULT 0,
  status SMALLINT NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS units (
  id BIGSERIAL PRIMARY KEY,
  code TEXT NOT NULL,
  status SMALLINT NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS wallets (
  id BIGSERIAL PRIMARY KEY,
  user_id BIGINT NOT NULL REFERENCES users(id),
  display_name TEXT NOT NULL,
  currency_id BIGINT REFERENCES currencies(id),
  status SMALLINT NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS bills (
  id BIGSERIAL PRIMARY KEY,
  user_id BIGINT NOT NULL REFERENCES users(id),
  address_en TEXT,
  address_zh TEXT,
  organization_en TEXT,
  organization_zh TEXT,
  action TEXT,
  bill_datetime TIMESTAMPTZ,
  currency_id BIGINT NOT NULL REFERENCES currencies(id),
  subtotal NUMERIC(14,4),
  tax NUMERIC(14,4),
  tip NUMERIC(14,4),
  payer_id BIGINT REFERENCES users(id),
  paid_wallet_id BIGINT REFERENCES wallets(id),
  paid_amount NUMERIC(14,4),
  remarks TEXT,
  status SMALLINT NOT NULL DEFAULT 1,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS bill_items (
  id BIGSERIAL PRIMARY KEY,
  bill_id BIGINT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
  name_en TEXT NOT NULL,
  name_zh TEXT,
  amount NUMERIC(14,4),
  unit_id BIGINT REFERENCES units(id),
  qty NUMERIC(14,4) NOT NULL DEFAULT 1,
  description TEXT,
  price NUMERIC(14,4) NOT NULL DEFAULT 0,
  tax NUMERIC(14,4) NOT NULL DEFAULT 0,
  on_sale BOOLEAN NOT NULL DEFAULT false,
  private BOOLEAN NOT NULL DEFAULT false,
  status SMALLINT NOT NULL DEFAULT 1,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_bill_items_bill_id ON bill_items(bill_id);

CREATE TABLE IF NOT EXISTS settings (
  id varchar(32) PRIMARY KEY,
  category varchar(64) NOT NULL,
  key varchar(128) NOT NULL,
  metadata jsonb NOT NULL DEFAULT '{}'::jsonb,
  record_meta jsonb NOT NULL DEFAULT '{}'::jsonb,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  UNIQUE (category, key)
);

CREATE TABLE IF NOT EXISTS documents (
  id varchar(32) PRIMARY KEY,
  collection varchar(64) NOT NULL,
  body jsonb NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, created_at);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  account_name TEXT NOT NULL UNIQUE,
  role INTEGER NOT NULL DEFAULT 0,
  legal_first_name TEXT NOT NULL DEFAULT '',
  legal_middle_name TEXT,
  legal_last_name TEXT NOT NULL DEFAULT '',
  preferred_first_name TEXT,
  customized_display_name TEXT,
  name_display_mode INTEGER NOT NULL DEFAULT 1,
  sequence_number INTEGER NOT NULL DEFAULT 0,
  status INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS user_passwords (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id),
  type INTEGER NOT NULL,
  content TEXT NOT NULL,
  status INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS currencies (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  code TEXT NOT NULL,
  display_sequence INTEGER NOT NULL DEFAULT 0,
  status INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS units (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  code TEXT NOT NULL,
  status INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS wallets (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id),
  display_name TEXT NOT NULL,
  currency_id INTEGER REFERENCES currencies(id),
  status INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS bills (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id),
  address_en TEXT,
  address_zh TEXT,
  organization_en TEXT,
  organization_zh TEXT,
  action TEXT,
  bill_datetime TEXT,
  currency_id INTEGER NOT NULL REFERENCES currencies(id),
  subtotal NUMERIC,
  tax NUMERIC,
  tip NUMERIC,
  payer_id INTEGER REFERENCES users(id),
  paid_wallet_id INTEGER REFERENCES wallets(id),
  paid_amount NUMERIC,
  remarks TEXT,
  status INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS bill_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  bill_id INTEGER NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
  name_en TEXT NOT NULL,
  name_zh TEXT,
  amount NUMERIC,
  unit_id INTEGER REFERENCES units(id),
  qty NUMERIC NOT NULL DEFAULT 1,
  description TEXT,
  price NUMERIC NOT NULL DEFAULT 0,
  tax NUMERIC NOT NULL DEFAULT 0,
  on_sale INTEGER NOT NULL DEFAULT 0,
  private INTEGER NOT NULL DEFAULT 0,
  status INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
  id TEXT PRIMARY KEY,
  category TEXT NOT NULL,
  key TEXT NOT NULL,
  metadata TEXT NOT NULL DEFAULT '{}',
  record_meta TEXT NOT NULL DEFAULT '{}',
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (category, key)
);

CREATE TABLE IF NOT EXISTS documents (
  id TEXT PRIMARY KEY,
  collection TEXT NOT NULL,
  body TEXT NOT NULL,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
