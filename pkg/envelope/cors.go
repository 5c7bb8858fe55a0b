package envelope

import (
	"net/http"
	"slices"
)

const (
	allowMethods = "GET, POST, OPTIONS"
	allowHeaders = "Content-Type, Authorization"
)

// Policy is the CORS configuration of a single route.
type Policy struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// AllowOrigin returns the value for Access-Control-Allow-Origin: the request
// origin when it exactly matches an allowed origin, otherwise "null".
func (p Policy) AllowOrigin(origin string) string {
	if origin != "" && slices.Contains(p.AllowedOrigins, origin) {
		return origin
	}
	return "null"
}

// Apply sets the CORS headers for a request with the given origin.
func (p Policy) Apply(h http.Header, origin string) {
	h.Set("Access-Control-Allow-Origin", p.AllowOrigin(origin))
	h.Set("Access-Control-Allow-Methods", allowMethods)
	h.Set("Access-Control-Allow-Headers", allowHeaders)
	if p.AllowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	h.Add("Vary", "Origin")
}

// CORS returns a middleware applying p. Preflight requests are answered with
// 200 and an empty body before next is reached.
func CORS(p Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p.Apply(w.Header(), r.Header.Get("Origin"))
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
