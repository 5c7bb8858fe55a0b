package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/tychan/site-api/internal/billing/entity"
	billrepo "github.com/tychan/site-api/internal/billing/repo"
	"github.com/tychan/site-api/pkg/displayname"
)

// Names of the reference sets, as used in "Failed to get all <set>." messages.
const (
	SetUsers      = "users"
	SetCurrencies = "currencies"
	SetWallets    = "wallets"
	SetUnits      = "units"
	SetBillNames  = "bills' title"
	SetItemNames  = "bill items' title"
)

var (
	ErrMissingFields = errors.New("missing required fields or bill_items array is empty")
	ErrItemName      = errors.New("bill item name_en is required")
	// ErrUnknownReference means a user, currency, wallet or unit id has no row.
	ErrUnknownReference = errors.New("bill references a missing row")
)

// LookupError reports which reference set could not be read.
type LookupError struct {
	Set string
	Err error
}

func (e *LookupError) Error() string { return fmt.Sprintf("failed to get all %s: %v", e.Set, e.Err) }
func (e *LookupError) Unwrap() error { return e.Err }

// Message is the client-facing text for the failure.
func (e *LookupError) Message() string { return fmt.Sprintf("Failed to get all %s.", e.Set) }

// BillingService creates bills and lists the reference data the bill forms need.
type BillingService struct {
	repo *billrepo.BillRepo
}

func NewBillingService(r *billrepo.BillRepo) *BillingService {
	return &BillingService{repo: r}
}

// CreateBill validates b, fills item defaults and stores the bill with its items.
func (s *BillingService) CreateBill(ctx context.Context, b *entity.Bill) (int64, error) {
	if b == nil || b.UserID == 0 || b.CurrencyID == 0 || len(b.Items) == 0 {
		return 0, ErrMissingFields
	}
	normalize(b)
	for _, it := range b.Items {
		if it.NameEn == "" {
			return 0, ErrItemName
		}
	}
	missing, err := s.repo.MissingReference(ctx, b)
	if err != nil {
		return 0, err
	}
	if missing != "" {
		return 0, fmt.Errorf("%w: %s", ErrUnknownReference, missing)
	}
	return s.repo.Create(ctx, b)
}

// normalize blanks empty text to NULL and applies the item defaults:
// qty 1, price 0 and tax 0.
func normalize(b *entity.Bill) {
	for _, p := range []**string{&b.AddressEn, &b.AddressZh, &b.OrganizationEn, &b.OrganizationZh, &b.Action, &b.DateTime, &b.Remarks} {
		*p = blankToNil(*p)
	}
	for i := range b.Items {
		it := &b.Items[i]
		it.NameEn = strings.TrimSpace(it.NameEn)
		it.NameZh = blankToNil(it.NameZh)
		it.Description = blankToNil(it.Description)
		if it.Amount.Valid && it.Amount.Decimal.IsZero() {
			it.Amount = decimal.NullDecimal{}
		}
		if !it.Qty.Valid || it.Qty.Decimal.IsZero() {
			it.Qty = decimal.NewNullDecimal(decimal.NewFromInt(1))
		}
		if !it.Price.Valid {
			it.Price = decimal.NewNullDecimal(decimal.Zero)
		}
		if !it.Tax.Valid {
			it.Tax = decimal.NewNullDecimal(decimal.Zero)
		}
		if it.UnitID != nil && *it.UnitID == 0 {
			it.UnitID = nil
		}
	}
	if b.PayerID != nil && *b.PayerID == 0 {
		b.PayerID = nil
	}
	if b.PaidWalletID != nil && *b.PaidWalletID == 0 {
		b.PaidWalletID = nil
	}
}

func blankToNil(p *string) *string {
	return lo.EmptyableToPtr(strings.TrimSpace(lo.FromPtr(p)))
}

// InitValues returns the dropdown data for the new bill form.
func (s *BillingService) InitValues(ctx context.Context) (*entity.InitValues, error) {
	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	currencies, err := s.codes(ctx, SetCurrencies, s.repo.ListActiveCurrencies)
	if err != nil {
		return nil, err
	}
	wallets, err := s.wallets(ctx)
	if err != nil {
		return nil, err
	}
	units, err := s.codes(ctx, SetUnits, s.repo.ListActiveUnits)
	if err != nil {
		return nil, err
	}
	return &entity.InitValues{Users: users, Currencies: currencies, Wallets: wallets, Units: units}, nil
}

// ListReferenceData returns the lookup sets plus the distinct names used on
// earlier bills and items, in first-seen order.
func (s *BillingService) ListReferenceData(ctx context.Context) (*entity.ReferenceData, error) {
	base, err := s.InitValues(ctx)
	if err != nil {
		return nil, err
	}
	bills, err := s.repo.ListBillNames(ctx)
	if err != nil {
		return nil, &LookupError{Set: SetBillNames, Err: err}
	}
	items, err := s.repo.ListItemNames(ctx)
	if err != nil {
		return nil, &LookupError{Set: SetItemNames, Err: err}
	}
	return &entity.ReferenceData{
		Users:          base.Users,
		Currencies:     base.Currencies,
		Wallets:        base.Wallets,
		Units:          base.Units,
		AddressEn:      distinct(bills, func(b entity.BillNames) *string { return b.AddressEn }),
		AddressZh:      distinct(bills, func(b entity.BillNames) *string { return b.AddressZh }),
		OrganizationEn: distinct(bills, func(b entity.BillNames) *string { return b.OrganizationEn }),
		OrganizationZh: distinct(bills, func(b entity.BillNames) *string { return b.OrganizationZh }),
		Action:         distinct(bills, func(b entity.BillNames) *string { return b.Action }),
		ItemNameEn:     distinct(items, func(i entity.ItemNames) *string { return &i.NameEn }),
		ItemNameZh:     distinct(items, func(i entity.ItemNames) *string { return i.NameZh }),
	}, nil
}

func (s *BillingService) users(ctx context.Context) ([]entity.Option, error) {
	rows, err := s.repo.ListActiveUsers(ctx)
	if err != nil {
		return nil, &LookupError{Set: SetUsers, Err: err}
	}
	return lo.Map(rows, func(u entity.UserName, _ int) entity.Option {
		return entity.Option{ID: u.ID, DisplayName: displayname.Format(u.NameFields())}
	}), nil
}

func (s *BillingService) codes(ctx context.Context, set string, list func(context.Context) ([]entity.Code, error)) ([]entity.Option, error) {
	rows, err := list(ctx)
	if err != nil {
		return nil, &LookupError{Set: set, Err: err}
	}
	return lo.Map(rows, func(c entity.Code, _ int) entity.Option {
		return entity.Option{ID: c.ID, DisplayName: c.Code}
	}), nil
}

func (s *BillingService) wallets(ctx context.Context) ([]entity.Wallet, error) {
	rows, err := s.repo.ListActiveWallets(ctx)
	if err != nil {
		return nil, &LookupError{Set: SetWallets, Err: err}
	}
	return rows, nil
}

// distinct projects rows to trimmed non-empty strings without duplicates.
func distinct[T any](rows []T, field func(T) *string) []string {
	names := lo.FilterMap(rows, func(r T, _ int) (string, bool) {
		v := strings.TrimSpace(lo.FromPtr(field(r)))
		return v, v != ""
	})
	return lo.Uniq(names)
}
