// middleware/cookies.go
package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

type cookiesKey struct{}

// ParseCookies returns a middleware that parses the Cookie header into a
// name → value map on the request context. Percent-encoded values are
// decoded; values that fail to decode are kept verbatim. When a name repeats,
// the first occurrence wins. Requests without cookies get an empty map.
func ParseCookies() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			jar := make(map[string]string)
			for _, c := range r.Cookies() {
				if _, seen := jar[c.Name]; seen {
					continue
				}
				jar[c.Name] = decodeCookieValue(c.Value)
			}
			ctx := context.WithValue(r.Context(), cookiesKey{}, jar)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func decodeCookieValue(v string) string {
	if !strings.Contains(v, "%") {
		return v
	}
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}

// Cookies returns the parsed cookie map, or nil if ParseCookies did not run.
func Cookies(r *http.Request) map[string]string {
	jar, _ := r.Context().Value(cookiesKey{}).(map[string]string)
	return jar
}

// Cookie returns one parsed cookie value.
func Cookie(r *http.Request, name string) (string, bool) {
	v, ok := Cookies(r)[name]
	return v, ok
}
