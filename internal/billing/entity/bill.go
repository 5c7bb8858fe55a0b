package entity

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/tychan/site-api/pkg/displayname"
)

const StatusActive = 1

// Bill is a bill header as submitted by the form and as stored in bills.
// JSON names follow the form payload.
type Bill struct {
	ID             int64               `db:"id" json:"id"`
	UserID         int64               `db:"user_id" json:"bill_user_id"`
	AddressEn      *string             `db:"address_en" json:"address_en"`
	AddressZh      *string             `db:"address_zh" json:"address_zh"`
	OrganizationEn *string             `db:"organization_en" json:"organization_en"`
	OrganizationZh *string             `db:"organization_zh" json:"organization_zh"`
	Action         *string             `db:"action" json:"action"`
	DateTime       *string             `db:"bill_datetime" json:"date_time"`
	CurrencyID     int64               `db:"currency_id" json:"bill_currency_id"`
	Subtotal       decimal.NullDecimal `db:"subtotal" json:"bill_subtotal"`
	Tax            decimal.NullDecimal `db:"tax" json:"bill_tax"`
	Tip            decimal.NullDecimal `db:"tip" json:"bill_tips"`
	PayerID        *int64              `db:"payer_id" json:"bill_payer_id"`
	PaidWalletID   *int64              `db:"paid_wallet_id" json:"paid_wallet_id"`
	PaidAmount     decimal.NullDecimal `db:"paid_amount" json:"paid_amount"`
	Remarks        *string             `db:"remarks" json:"remarks"`
	Items          []BillItem          `db:"-" json:"bill_items"`
}

// BillItem is one line of a bill. Qty, Price and Tax always hold a value
// once the bill has been normalized.
type BillItem struct {
	BillID      int64               `db:"bill_id" json:"-"`
	NameEn      string              `db:"name_en" json:"name_en"`
	NameZh      *string             `db:"name_zh" json:"name_zh"`
	Amount      decimal.NullDecimal `db:"amount" json:"amount"`
	UnitID      *int64              `db:"unit_id" json:"unit_id"`
	Qty         decimal.NullDecimal `db:"qty" json:"qty"`
	Description *string             `db:"description" json:"description"`
	Price       decimal.NullDecimal `db:"price" json:"price"`
	Tax         decimal.NullDecimal `db:"tax" json:"tax"`
	OnSale      bool                `db:"on_sale" json:"on_sale"`
	Private     bool                `db:"private" json:"private"`
}

// UserName carries the columns needed to label a user.
type UserName struct {
	ID                    int64   `db:"id"`
	LegalFirstName        string  `db:"legal_first_name"`
	LegalMiddleName       *string `db:"legal_middle_name"`
	LegalLastName         string  `db:"legal_last_name"`
	PreferredFirstName    *string `db:"preferred_first_name"`
	CustomizedDisplayName *string `db:"customized_display_name"`
	NameDisplayMode       int     `db:"name_display_mode"`
}

func (u UserName) NameFields() displayname.Fields {
	return displayname.Fields{
		LegalFirstName:        u.LegalFirstName,
		LegalMiddleName:       lo.FromPtr(u.LegalMiddleName),
		LegalLastName:         u.LegalLastName,
		PreferredFirstName:    lo.FromPtr(u.PreferredFirstName),
		CustomizedDisplayName: lo.FromPtr(u.CustomizedDisplayName),
		Mode:                  displayname.Mode(u.NameDisplayMode),
	}
}

// Code is a reference row labelled by its code (currencies, units).
type Code struct {
	ID   int64  `db:"id"`
	Code string `db:"code"`
}

type Wallet struct {
	ID          int64  `db:"id" json:"id"`
	UserID      int64  `db:"user_id" json:"user_id"`
	CurrencyID  *int64 `db:"currency_id" json:"currency_id"`
	DisplayName string `db:"display_name" json:"display_name"`
}

// BillNames are the free-text header fields of a stored bill.
type BillNames struct {
	AddressEn      *string `db:"address_en"`
	AddressZh      *string `db:"address_zh"`
	OrganizationEn *string `db:"organization_en"`
	OrganizationZh *string `db:"organization_zh"`
	Action         *string `db:"action"`
}

type ItemNames struct {
	NameEn string  `db:"name_en"`
	NameZh *string `db:"name_zh"`
}

// Option is an {id, display_name} pair for form dropdowns.
type Option struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

// ReferenceData backs the bill list page.
type ReferenceData struct {
	Users          []Option `json:"all_users"`
	Currencies     []Option `json:"all_currencies"`
	Wallets        []Wallet `json:"all_wallets"`
	Units          []Option `json:"all_units"`
	AddressEn      []string `json:"all_bill_address_en"`
	AddressZh      []string `json:"all_bill_address_zh"`
	OrganizationEn []string `json:"all_bill_organization_en"`
	OrganizationZh []string `json:"all_bill_organization_zh"`
	Action         []string `json:"all_bill_action"`
	ItemNameEn     []string `json:"all_bill_item_name_en"`
	ItemNameZh     []string `json:"all_bill_item_name_zh"`
}

// InitValues backs the new bill form.
type InitValues struct {
	Users      []Option `json:"users"`
	Currencies []Option `json:"currencies"`
	Wallets    []Wallet `json:"wallets"`
	Units      []Option `json:"units"`
}
