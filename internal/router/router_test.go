package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tychan/site-api/internal/router"
	"github.com/tychan/site-api/internal/testutil"
	"github.com/tychan/site-api/pkg/config"
)

func newServer(t *testing.T) (http.Handler, *sqlx.DB) {
	db := testutil.NewDB(t)
	cfg := &config.Config{AllowedOrigins: testutil.AllowedOrigins, BcryptCost: 4}
	return router.RegisterRoutes(testutil.Logger(t), db, cfg), db
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPreflightShortCircuits(t *testing.T) {
	h, db := newServer(t)

	paths := []string{
		"/api/account/login/check-user",
		"/api/account/login/verify-password",
		"/api/account/password-generator",
		"/api/account/set-password",
		"/api/projects/get-projects-preview-data",
		"/api/tySectionLog",
		"/api/tywebapp/bill/get-all-bills",
		"/api/tywebapp/bill/get-new-bill-init-value",
		"/api/tywebapp/bill/submitNewBill",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			w := do(h, testutil.MakeRequest(http.MethodOptions, p, `{"bill_user_id":1}`, "https://tychan.net"))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, w.Body.String())
			assert.Equal(t, "https://tychan.net", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
		})
	}
	assert.Zero(t, testutil.Count(t, db, "bills"))
}

func TestCredentialsFlagPerRoute(t *testing.T) {
	h, _ := newServer(t)

	w := do(h, testutil.MakeRequest(http.MethodOptions, "/api/account/set-password", nil, "http://localhost:4200"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = do(h, testutil.MakeRequest(http.MethodOptions, "/api/tySectionLog", nil, "http://localhost:4200"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestDisallowedOriginGetsNull(t *testing.T) {
	h, _ := newServer(t)

	w := do(h, testutil.MakeRequest(http.MethodGet, "/api/tywebapp/bill/get-new-bill-init-value", nil, "https://evil.example"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(h, testutil.MakeRequest(http.MethodGet, "/api/tywebapp/bill/get-new-bill-init-value", nil, ""))
	assert.Equal(t, "null", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPasswordRoundTripThroughRouter(t *testing.T) {
	h, db := newServer(t)
	testutil.SeedUser(t, db, testutil.User{AccountName: "tai", LegalFirstName: "Tai", LegalLastName: "Chan", DisplayMode: 2})
	origin := "https://www.tychan.net"

	w := do(h, testutil.MakeRequest(http.MethodPost, "/api/account/login/check-user", map[string]string{"account_name": "tai"}, origin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))

	w = do(h, testutil.MakeRequest(http.MethodPost, "/api/account/set-password", map[string]string{"account_name": "tai", "password": "pw-1"}, origin))
	require.Equal(t, http.StatusOK, w.Code)

	w = do(h, testutil.MakeRequest(http.MethodPost, "/api/account/login/verify-password", map[string]string{"account_name": "tai", "password": "pw-1"}, origin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":1,"display_name":"Chan Tai"}}`, w.Body.String())
}

func TestWrongMethodIsRejected(t *testing.T) {
	h, _ := newServer(t)
	w := do(h, testutil.MakeRequest(http.MethodGet, "/api/account/set-password", nil, ""))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newServer(t)

	w := do(h, testutil.MakeRequest(http.MethodGet, "/health", nil, ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	do(h, testutil.MakeRequest(http.MethodGet, "/api/tySectionLog", nil, ""))

	w = do(h, testutil.MakeRequest(http.MethodGet, "/metrics", nil, ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `site_api_http_requests_total{method="GET",route="/api/tySectionLog",status="404"} 1`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := newServer(t)
	req := testutil.MakeRequest(http.MethodGet, "/health", nil, "")
	req.Header.Set("X-Request-ID", "abc-123")
	w := do(h, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRecoverMiddleware(t *testing.T) {
	h := router.RecoverMiddleware(testutil.Logger(t))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := do(h, testutil.MakeRequest(http.MethodGet, "/", nil, ""))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal Server Error"}`, w.Body.String())
}
