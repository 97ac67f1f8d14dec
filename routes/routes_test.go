package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/inkwell/database"
	"github.com/dalemusser/inkwell/httperr"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	// An invalid URI yields a handle that reports ErrUnavailable.
	h, _ := database.Open("invalid://", "blog", database.DefaultPoolConfig())
	return Deps{
		DB:     h,
		Logger: zap.NewNop(),
		Errors: httperr.ForwarderFunc(func(w http.ResponseWriter, r *http.Request, err error) {
			httperr.Write(w, err)
		}),
	}
}

func mount(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Mount("/api/user", User(d))
	r.Mount("/api/auth", Auth(d))
	r.Mount("/api/post", Post(d))
	r.Mount("/api/comment", Comment(d))
	return r
}

func TestUser_Test(t *testing.T) {
	rec := httptest.NewRecorder()
	mount(testDeps(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/test", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "API is working!") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestAuth_SignoutClearsCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "abc"})
	rec := httptest.NewRecorder()
	mount(testDeps(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var msg string
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil || msg != "User has been signed out" {
		t.Errorf("body = %s (err %v)", rec.Body.String(), err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != AccessTokenCookie || cookies[0].MaxAge >= 0 {
		t.Errorf("cookies = %+v, want expired %s", cookies, AccessTokenCookie)
	}
}

func TestDatabaseGroups_Unavailable(t *testing.T) {
	for _, path := range []string{"/api/post/getposts", "/api/comment/getPostComments/65f0c0ffee"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mount(testDeps(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != http.StatusServiceUnavailable {
				t.Errorf("status = %d, want 503", rec.Code)
			}
			var body httperr.Response
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Message != "database unavailable" || body.Success {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestPost_InvalidPaging(t *testing.T) {
	rec := httptest.NewRecorder()
	mount(testDeps(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/post/getposts?limit=-3", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
