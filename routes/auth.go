package routes

import (
	"net/http"
	"time"

	"github.com/dalemusser/inkwell/httputil"
	"github.com/dalemusser/inkwell/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AccessTokenCookie names the session cookie issued at sign-in.
const AccessTokenCookie = "access_token"

// Auth mounts the auth group. POST /signout clears the session cookie and
// does not touch the database.
func Auth(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Post("/signout", func(w http.ResponseWriter, r *http.Request) {
		_, had := middleware.Cookie(r, AccessTokenCookie)
		d.Logger.Debug("signout", zap.Bool("had_token", had))

		http.SetCookie(w, &http.Cookie{
			Name:     AccessTokenCookie,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
		})
		httputil.WriteJSON(w, http.StatusOK, "User has been signed out")
	})
	return r
}
