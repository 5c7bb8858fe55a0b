package account_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tychan/site-api/internal/account"
	"github.com/tychan/site-api/internal/account/entity"
	"github.com/tychan/site-api/internal/account/repo"
	"github.com/tychan/site-api/internal/testutil"
)

func newHandler(t *testing.T) (*account.Handler, *fixture) {
	db := testutil.NewDB(t)
	svc := account.NewAccountService(repo.NewAccountRepo(db), account.BcryptHasher{Cost: bcrypt.MinCost})
	return account.NewHandler(svc, testutil.Logger(t)), &fixture{t: t, db: db}
}

func serve(h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, testutil.MakeRequest(http.MethodPost, "/", body, ""))
	return w
}

func TestCheckUserHandler(t *testing.T) {
	h, f := newHandler(t)
	f.user("jane", entity.StatusActive)

	w := serve(h.CheckUser, map[string]string{"account_name": "jane"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"user":{"account_name":"jane"}}`, w.Body.String())

	w = serve(h.CheckUser, map[string]string{"account_name": "nobody"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := testutil.DecodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "data")

	w = serve(h.CheckUser, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyPasswordHandlerBodiesAreIdentical(t *testing.T) {
	h, f := newHandler(t)
	jane := f.user("jane", entity.StatusActive)
	testutil.SeedPassword(t, f.db, jane, entity.CredentialTypeHash, "s3cret", entity.StatusActive)
	f.user("nopw", entity.StatusActive)

	ok := serve(h.VerifyPassword, map[string]string{"account_name": "jane", "password": "s3cret"})
	require.Equal(t, http.StatusOK, ok.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":1,"display_name":"Jane Doe"}}`, ok.Body.String())

	missing := serve(h.VerifyPassword, map[string]string{"account_name": "nobody", "password": "s3cret"})
	noCred := serve(h.VerifyPassword, map[string]string{"account_name": "nopw", "password": "s3cret"})
	wrong := serve(h.VerifyPassword, map[string]string{"account_name": "jane", "password": "wrong"})

	for _, w := range []*httptest.ResponseRecorder{missing, noCred, wrong} {
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	assert.Equal(t, missing.Body.Bytes(), noCred.Body.Bytes())
	assert.Equal(t, missing.Body.Bytes(), wrong.Body.Bytes())
	assert.JSONEq(t, `{"success":false,"message":"Invalid credentials"}`, missing.Body.String())
}

func TestGeneratePasswordHandler(t *testing.T) {
	h, _ := newHandler(t)

	w := serve(h.GeneratePassword, map[string]string{"password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)
	body := testutil.DecodeBody(t, w)
	assert.Equal(t, true, body["success"])
	hash, _ := body["message"].(string)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))

	w = serve(h.GeneratePassword, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(h.GeneratePassword, map[string]string{"password": strings.Repeat("a", 73)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Password must be at most 72 bytes."}`, w.Body.String())
}

func TestSetPasswordHandler(t *testing.T) {
	h, f := newHandler(t)
	f.user("jane", entity.StatusActive)

	cases := []struct {
		name    string
		body    map[string]string
		status  int
		message string
	}{
		{"missing account", map[string]string{"password": "x"}, http.StatusBadRequest, "Missing account name."},
		{"missing password", map[string]string{"account_name": "jane"}, http.StatusBadRequest, "Missing password."},
		{"unknown account", map[string]string{"account_name": "nobody", "password": "x"}, http.StatusBadRequest, "Account does not exist."},
		{"password too long", map[string]string{"account_name": "jane", "password": strings.Repeat("a", 73)}, http.StatusBadRequest, "Password must be at most 72 bytes."},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := serve(h.SetPassword, c.body)
			assert.Equal(t, c.status, w.Code)
			assert.Equal(t, c.message, testutil.DecodeBody(t, w)["message"])
		})
	}

	w := serve(h.SetPassword, map[string]string{"account_name": "jane", "password": "fresh"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = serve(h.VerifyPassword, map[string]string{"account_name": "jane", "password": "fresh"})
	assert.Equal(t, http.StatusOK, w.Code)
}
