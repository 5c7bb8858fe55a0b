package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/tychan/site-api/internal/billing/entity"
)

// BillRepo provides data access for bills and the billing reference tables.
type BillRepo struct {
	db *sqlx.DB
}

func NewBillRepo(db *sqlx.DB) *BillRepo { return &BillRepo{db: db} }

const insertBill = `INSERT INTO bills (user_id, address_en, address_zh, organization_en, organization_zh, action,
	bill_datetime, currency_id, subtotal, tax, tip, payer_id, paid_wallet_id, paid_amount, remarks)
  VALUES (:user_id, :address_en, :address_zh, :organization_en, :organization_zh, :action,
	:bill_datetime, :currency_id, :subtotal, :tax, :tip, :payer_id, :paid_wallet_id, :paid_amount, :remarks)
  RETURNING id`

const insertItems = `INSERT INTO bill_items (bill_id, name_en, name_zh, amount, unit_id, qty, description, price, tax, on_sale, private)
  VALUES (:bill_id, :name_en, :name_zh, :amount, :unit_id, :qty, :description, :price, :tax, :on_sale, :private)`

// Create stores the header and all of its items in one transaction and
// returns the new bill id. Nothing is kept when any insert fails.
func (r *BillRepo) Create(ctx context.Context, b *entity.Bill) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	q, args, err := tx.BindNamed(insertBill, b)
	if err != nil {
		return 0, fmt.Errorf("bind bill: %w", err)
	}
	var id int64
	if err := tx.GetContext(ctx, &id, q, args...); err != nil {
		return 0, fmt.Errorf("insert bill: %w", err)
	}

	items := make([]entity.BillItem, len(b.Items))
	for i, it := range b.Items {
		it.BillID = id
		items[i] = it
	}
	if _, err := tx.NamedExecContext(ctx, insertItems, items); err != nil {
		return 0, fmt.Errorf("insert bill items: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit bill: %w", err)
	}
	b.ID = id
	return id, nil
}

// MissingReference returns the first "table id" the bill points at that has
// no row, or "" when every referenced row exists.
func (r *BillRepo) MissingReference(ctx context.Context, b *entity.Bill) (string, error) {
	type ref struct {
		table string
		id    int64
	}
	refs := []ref{{"users", b.UserID}, {"currencies", b.CurrencyID}}
	if b.PayerID != nil {
		refs = append(refs, ref{"users", *b.PayerID})
	}
	if b.PaidWalletID != nil {
		refs = append(refs, ref{"wallets", *b.PaidWalletID})
	}
	for _, it := range b.Items {
		if it.UnitID != nil {
			refs = append(refs, ref{"units", *it.UnitID})
		}
	}
	for _, rf := range lo.Uniq(refs) {
		var n int
		q := r.db.Rebind(`SELECT COUNT(*) FROM ` + rf.table + ` WHERE id = ?`)
		if err := r.db.GetContext(ctx, &n, q, rf.id); err != nil {
			return "", fmt.Errorf("check %s %d: %w", rf.table, rf.id, err)
		}
		if n == 0 {
			return fmt.Sprintf("%s %d", rf.table, rf.id), nil
		}
	}
	return "", nil
}

func (r *BillRepo) ListActiveUsers(ctx context.Context) ([]entity.UserName, error) {
	q := r.db.Rebind(`SELECT id, legal_first_name, legal_middle_name, legal_last_name, preferred_first_name,
		customized_display_name, name_display_mode
	  FROM users WHERE status = ? ORDER BY sequence_number, id`)
	out := []entity.UserName{}
	err := r.db.SelectContext(ctx, &out, q, entity.StatusActive)
	return out, err
}

func (r *BillRepo) ListActiveCurrencies(ctx context.Context) ([]entity.Code, error) {
	q := r.db.Rebind(`SELECT id, code FROM currencies WHERE status = ? ORDER BY display_sequence, id`)
	out := []entity.Code{}
	err := r.db.SelectContext(ctx, &out, q, entity.StatusActive)
	return out, err
}

func (r *BillRepo) ListActiveWallets(ctx context.Context) ([]entity.Wallet, error) {
	q := r.db.Rebind(`SELECT id, user_id, currency_id, display_name FROM wallets WHERE status = ? ORDER BY id`)
	out := []entity.Wallet{}
	err := r.db.SelectContext(ctx, &out, q, entity.StatusActive)
	return out, err
}

func (r *BillRepo) ListActiveUnits(ctx context.Context) ([]entity.Code, error) {
	q := r.db.Rebind(`SELECT id, code FROM units WHERE status = ? ORDER BY id`)
	out := []entity.Code{}
	err := r.db.SelectContext(ctx, &out, q, entity.StatusActive)
	return out, err
}

// ListBillNames returns the free-text header fields of active bills, oldest first.
func (r *BillRepo) ListBillNames(ctx context.Context) ([]entity.BillNames, error) {
	q := r.db.Rebind(`SELECT address_en, address_zh, organization_en, organization_zh, action
	  FROM bills WHERE status = ? ORDER BY id`)
	out := []entity.BillNames{}
	err := r.db.SelectContext(ctx, &out, q, entity.StatusActive)
	return out, err
}

// ListItemNames returns the names of active bill items, oldest first.
func (r *BillRepo) ListItemNames(ctx context.Context) ([]entity.ItemNames, error) {
	q := r.db.Rebind(`SELECT name_en, name_zh FROM bill_items WHERE status = ? ORDER BY id`)
	out := []entity.ItemNames{}
	err := r.db.SelectContext(ctx, &out, q, entity.StatusActive)
	return out, err
}
