package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	"navippon/ratelim"
)

// The review handlers read the experience id from the "id" route parameter;
// this pins the registered patterns to that name so the two cannot drift
// apart again.
func TestReviewRoutesCarryExperienceIDParam(t *testing.T) {
	router := httprouter.New()
	AddReviewsRoutes(router, ratelim.NewRateLimiter())

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/experiences/exp123/reviews"},
		{http.MethodPost, "/api/experiences/exp123/reviews"},
		{http.MethodPut, "/api/experiences/exp123/reviews/rev456"},
		{http.MethodDelete, "/api/experiences/exp123/reviews/rev456"},
	}

	for _, tc := range cases {
		handle, ps, _ := router.Lookup(tc.method, tc.path)
		if handle == nil {
			t.Fatalf("%s %s is not registered", tc.method, tc.path)
		}
		if got := ps.ByName("id"); got != "exp123" {
			t.Errorf("%s %s: ps.ByName(\"id\") = %q, want \"exp123\"", tc.method, tc.path, got)
		}
		if got := ps.ByName("experienceid"); got != "" {
			t.Errorf("%s %s: unexpected experienceid param %q", tc.method, tc.path, got)
		}
	}
}

// Admin routes must reject anonymous callers with 401 from the single auth
// layer inside RequireAdmin, not reach the handler.
func TestAdminRoutesRejectAnonymous(t *testing.T) {
	router := httprouter.New()
	rl := ratelim.NewRateLimiter()
	AddAdminRoutes(router, rl)
	AddCategoryRoutes(router, rl)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/users"},
		{http.MethodDelete, "/api/admin/users/u1"},
		{http.MethodPost, "/api/categories"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want %d", tc.method, tc.path, rec.Code, http.StatusUnauthorized)
		}
	}
}
