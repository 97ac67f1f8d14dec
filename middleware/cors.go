// middleware/cors.go
package middleware

import (
	"net/http"

	"github.com/dalemusser/inkwell/config"
	"github.com/dalemusser/inkwell/httperr"
	"github.com/go-chi/cors"
)

// CORSRejectedMessage is the message of the error raised for a disallowed origin.
const CORSRejectedMessage = "Not allowed by CORS"

// CORSMethods are the methods cross-origin callers may use.
var CORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// OriginPolicy decides which caller origins receive CORS grants.
type OriginPolicy struct {
	Mode    config.CORSMode
	Origins []string
}

// PolicyFromConfig builds the policy for the resolved CORS mode.
func PolicyFromConfig(cfg config.CORSConfig) OriginPolicy {
	return OriginPolicy{Mode: cfg.Mode, Origins: cfg.AllowedOrigins()}
}

// Allowed reports whether origin is permitted. Matching is exact: no wildcard,
// subdomain, scheme or port normalization. In multi mode an empty origin
// (same-origin or non-browser caller) is always permitted.
func (p OriginPolicy) Allowed(origin string) bool {
	if origin == "" && p.Mode != config.CORSModeSingle {
		return true
	}
	for _, o := range p.Origins {
		if o == origin {
			return true
		}
	}
	return false
}

// CORS returns the CORS middleware for p. Credentialed requests are allowed and
// methods are limited to CORSMethods.
//
// In multi mode a request carrying a disallowed Origin never reaches routing:
// an error with message CORSRejectedMessage and no status is forwarded to fwd.
// In single mode a disallowed origin is not an error; the response simply
// carries no CORS headers and the browser enforces the policy.
func CORS(p OriginPolicy, fwd httperr.Forwarder) func(next http.Handler) http.Handler {
	grant := cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return p.Allowed(origin)
		},
		AllowedMethods:   CORSMethods,
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return func(next http.Handler) http.Handler {
		granted := grant(next)
		if p.Mode == config.CORSModeSingle {
			return granted
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !p.Allowed(r.Header.Get("Origin")) {
				fwd.Forward(w, r, httperr.Msg(CORSRejectedMessage))
				return
			}
			granted.ServeHTTP(w, r)
		})
	}
}
