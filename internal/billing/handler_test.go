package billing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tychan/site-api/internal/billing"
	"github.com/tychan/site-api/internal/testutil"
)

func TestSubmitNewBillHandler(t *testing.T) {
	f := newFixture(t)
	h := billing.NewHandler(f.svc, testutil.Logger(t))

	payload := map[string]any{
		"bill_user_id":     f.user,
		"bill_currency_id": f.currency,
		"address_en":       "1 Queen's Road",
		"date_time":        "2024-05-01T19:30:00Z",
		"bill_subtotal":    "88.80",
		"bill_tips":        10,
		"paid_wallet_id":   f.wallet,
		"paid_amount":      98.8,
		"bill_items": []map[string]any{
			{"name_en": "Noodles", "price": 44.4, "qty": 2, "on_sale": true},
		},
	}
	w := httptest.NewRecorder()
	h.SubmitNewBill(w, testutil.MakeRequest(http.MethodPost, "/", payload, ""))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := testutil.DecodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 1, body["billId"])
	assert.Equal(t, 1, testutil.Count(t, f.db, "bill_items"))

	for name, bad := range map[string]any{
		"empty items": map[string]any{"bill_user_id": f.user, "bill_currency_id": f.currency, "bill_items": []any{}},
		"no currency": map[string]any{"bill_user_id": f.user, "bill_items": []map[string]any{{"name_en": "x"}}},
		"not json":    `{"bill_user_id":`,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.SubmitNewBill(w, testutil.MakeRequest(http.MethodPost, "/", bad, ""))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"success":false,"message":"Invalid payload: Missing required fields or bill_items array is empty."}`, w.Body.String())
		})
	}
	assert.Equal(t, 1, testutil.Count(t, f.db, "bills"))

	w = httptest.NewRecorder()
	h.SubmitNewBill(w, testutil.MakeRequest(http.MethodPost, "/", map[string]any{
		"bill_user_id": f.user, "bill_currency_id": 999, "bill_items": []map[string]any{{"name_en": "x"}},
	}, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid payload: referenced user, currency, wallet or unit does not exist."}`, w.Body.String())
	assert.Equal(t, 1, testutil.Count(t, f.db, "bills"))
}

func TestGetNewBillInitValueHandler(t *testing.T) {
	f := newFixture(t)
	h := billing.NewHandler(f.svc, testutil.Logger(t))

	w := httptest.NewRecorder()
	h.GetNewBillInitValue(w, testutil.MakeRequest(http.MethodGet, "/", nil, ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{
		"users":[{"id":1,"display_name":"Jane Doe"}],
		"currencies":[{"id":1,"display_name":"HKD"}],
		"wallets":[{"id":1,"user_id":1,"currency_id":1,"display_name":"Octopus"}],
		"units":[{"id":1,"display_name":"kg"}]}}`, w.Body.String())
}

func TestGetAllBillsReadFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	h := billing.NewHandler(f.svc, testutil.Logger(t))
	_, err := f.db.Exec(`DROP TABLE wallets`)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.GetAllBills(w, testutil.MakeRequest(http.MethodGet, "/", nil, ""))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Failed to get all wallets."}`, w.Body.String())
}
