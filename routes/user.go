package routes

import (
	"net/http"

	"github.com/dalemusser/inkwell/httputil"
	"github.com/go-chi/chi/v5"
)

// User mounts the user group. GET /test is a connectivity probe that never
// touches the database.
func User(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "API is working!"})
	})
	return r
}
