package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tychan/site-api/internal/account/entity"
)

// AccountRepo provides data access for users and their credentials using sqlx.
type AccountRepo struct {
	db *sqlx.DB
}

func NewAccountRepo(db *sqlx.DB) *AccountRepo { return &AccountRepo{db: db} }

// GetActiveByAccountName returns an active user or sql.ErrNoRows. Disabled
// accounts are indistinguishable from missing ones.
func (r *AccountRepo) GetActiveByAccountName(ctx context.Context, accountName string) (*entity.User, error) {
	q := r.db.Rebind(`SELECT id, account_name, role, legal_first_name, legal_middle_name, legal_last_name,
		preferred_first_name, customized_display_name, name_display_mode, status
	  FROM users WHERE account_name = ? AND status = ?`)
	var u entity.User
	if err := r.db.GetContext(ctx, &u, q, accountName, entity.StatusActive); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetActiveCredential returns the newest active credential of the given type
// or sql.ErrNoRows.
func (r *AccountRepo) GetActiveCredential(ctx context.Context, userID int64, credType int) (*entity.Credential, error) {
	q := r.db.Rebind(`SELECT id, user_id, type, content, status FROM user_passwords
	  WHERE user_id = ? AND type = ? AND status = ? ORDER BY id DESC LIMIT 1`)
	var c entity.Credential
	if err := r.db.GetContext(ctx, &c, q, userID, credType, entity.StatusActive); err != nil {
		return nil, err
	}
	return &c, nil
}

// RotateHash retires every active hash credential of the user and stores hash
// as the new active one, in a single transaction.
func (r *AccountRepo) RotateHash(ctx context.Context, userID int64, hash string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	retire := tx.Rebind(`UPDATE user_passwords SET status = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE user_id = ? AND type = ? AND status = ?`)
	if _, err := tx.ExecContext(ctx, retire, entity.StatusRetired, userID, entity.CredentialTypeHash, entity.StatusActive); err != nil {
		return fmt.Errorf("retire previous password: %w", err)
	}

	insert := tx.Rebind(`INSERT INTO user_passwords (user_id, type, content, status) VALUES (?, ?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, insert, userID, entity.CredentialTypeHash, hash, entity.StatusActive); err != nil {
		return fmt.Errorf("insert password: %w", err)
	}
	return tx.Commit()
}
