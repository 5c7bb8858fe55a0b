package router

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tychan/site-api/internal/account"
	accountrepo "github.com/tychan/site-api/internal/account/repo"
	"github.com/tychan/site-api/internal/billing"
	billrepo "github.com/tychan/site-api/internal/billing/repo"
	"github.com/tychan/site-api/internal/content"
	"github.com/tychan/site-api/internal/setting"
	settingrepo "github.com/tychan/site-api/internal/setting/repo"
	"github.com/tychan/site-api/pkg/config"
	"github.com/tychan/site-api/pkg/docstore"
	"github.com/tychan/site-api/pkg/envelope"
)

const requestIDHeader = "X-Request-ID"

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware logs each request at debug level and tags it with a
// request id, reusing the caller's X-Request-ID when present.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			// ensure status is set
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// RecoverMiddleware turns a panic into the generic 500 body.
func RecoverMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					logger.Errorw("panic serving request", "path", r.URL.Path, "panic", v, "request_id", w.Header().Get(requestIDHeader))
					envelope.Internal(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Clickjacking protection
			w.Header().Set("X-Frame-Options", "DENY")

			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			// JSON only; nothing on this API should load sub-resources.
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none';")
			}

			// HSTS only when served over TLS.
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

type routes struct {
	mux     *http.ServeMux
	metrics *Metrics
}

// handle mounts hs on path behind the CORS policy p, plus an OPTIONS pattern
// for preflight.
func (rt *routes) handle(p envelope.Policy, path string, hs methods) {
	wrapped := rt.metrics.Instrument(path, envelope.CORS(p)(hs))
	for method := range hs {
		rt.mux.Handle(method+" "+path, wrapped)
	}
	rt.mux.Handle(http.MethodOptions+" "+path, wrapped)
}

// RegisterRoutes wires services to their endpoints on an http.ServeMux.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()
	metrics := NewMetrics()
	rt := &routes{mux: mux, metrics: metrics}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			logger.Warnw("health check failed", "err", err)
			envelope.Fail(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// authenticated flows send credentials, public content does not
	private := envelope.Policy{AllowedOrigins: cfg.AllowedOrigins, AllowCredentials: true}
	public := envelope.Policy{AllowedOrigins: cfg.AllowedOrigins}

	// account routes
	accountSvc := account.NewAccountService(accountrepo.NewAccountRepo(db), account.BcryptHasher{Cost: cfg.BcryptCost})
	accountHandler := account.NewHandler(accountSvc, logger)
	rt.handle(private, "/api/account/login/check-user", methods{http.MethodPost: accountHandler.CheckUser})
	rt.handle(private, "/api/account/login/verify-password", methods{http.MethodPost: accountHandler.VerifyPassword})
	rt.handle(private, "/api/account/password-generator", methods{http.MethodPost: accountHandler.GeneratePassword})
	rt.handle(private, "/api/account/set-password", methods{http.MethodPost: accountHandler.SetPassword})

	// content routes
	settingSvc := setting.NewService(settingrepo.NewRepo(db))
	contentSvc := content.NewContentService(settingSvc, docstore.New(db))
	contentHandler := content.NewHandler(contentSvc, logger)
	rt.handle(public, "/api/projects/get-projects-preview-data", methods{http.MethodGet: contentHandler.ListProjectPreviews})
	rt.handle(public, "/api/tySectionLog", methods{
		http.MethodGet:  contentHandler.ListChangelog,
		http.MethodPost: contentHandler.AddChangelogEntry,
	})

	// billing routes
	billingSvc := billing.NewBillingService(billrepo.NewBillRepo(db))
	billingHandler := billing.NewHandler(billingSvc, logger)
	rt.handle(private, "/api/tywebapp/bill/get-all-bills", methods{http.MethodGet: billingHandler.GetAllBills})
	rt.handle(private, "/api/tywebapp/bill/get-new-bill-init-value", methods{http.MethodGet: billingHandler.GetNewBillInitValue})
	rt.handle(private, "/api/tywebapp/bill/submitNewBill", methods{http.MethodPost: billingHandler.SubmitNewBill})

	// wrap with recovery, security headers, then logging
	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(RecoverMiddleware(logger)(mux)))
	return handler
}

// methods dispatches on the request method.
type methods map[string]http.HandlerFunc

func (m methods) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := m[r.Method]; ok {
		h(w, r)
		return
	}
	w.WriteHeader(http.StatusMethodNotAllowed)
}
