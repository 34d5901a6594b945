package app

import (
	"context"
	"net/http"
	"strings"

	"github.com/goadesign/goa"
	"github.com/goadesign/goa/cors"
)

// OriginPolicy lists the origins allowed to issue cross origin requests. The
// entries are cors.MatchOrigin patterns such as "https://*.example.com". An
// empty policy answers no CORS request at all.
type OriginPolicy struct {
	AllowedOrigins []string
	MaxAge         string
}

// NewOriginPolicy returns a policy allowing the given origin patterns.
func NewOriginPolicy(origins ...string) OriginPolicy {
	return OriginPolicy{AllowedOrigins: origins, MaxAge: "600"}
}

// Allows returns true if the given origin matches one of the allowed
// patterns.
func (p OriginPolicy) Allows(origin string) bool {
	for _, pattern := range p.AllowedOrigins {
		if pattern == "" {
			continue
		}
		if cors.MatchOrigin(origin, pattern) {
			return true
		}
	}
	return false
}

// handle applies the CORS response headers corresponding to the origin for a
// route served with the given methods.
func (p OriginPolicy) handle(h goa.Handler, methods ...string) goa.Handler {
	allowMethods := strings.Join(methods, ", ")
	return func(ctx context.Context, rw http.ResponseWriter, req *http.Request) error {
		origin := req.Header.Get("Origin")
		if origin == "" {
			// Not a CORS request
			return h(ctx, rw, req)
		}
		if !p.Allows(origin) {
			return h(ctx, rw, req)
		}
		ctx = goa.WithLogContext(ctx, "origin", origin)
		rw.Header().Set("Access-Control-Allow-Origin", origin)
		rw.Header().Set("Vary", "Origin")
		if p.MaxAge != "" {
			rw.Header().Set("Access-Control-Max-Age", p.MaxAge)
		}
		rw.Header().Set("Access-Control-Allow-Credentials", "false")
		if acrm := req.Header.Get("Access-Control-Request-Method"); acrm != "" {
			// We are handling a preflight request
			rw.Header().Set("Access-Control-Allow-Methods", allowMethods)
			rw.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		}
		return h(ctx, rw, req)
	}
}
