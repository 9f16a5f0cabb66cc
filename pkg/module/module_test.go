package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/wraith/pkg/module"
)

func TestModuleStripsPrefix(t *testing.T) {
	var gotPath string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	m := module.New("/api", inner)

	router := module.NewRouter()
	router.Mount(m)

	req := httptest.NewRequest("GET", "/api/pipeline", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if gotPath != "/pipeline" {
		t.Errorf("inner path = %s, want /pipeline", gotPath)
	}
}

func TestModuleMiddlewareOrder(t *testing.T) {
	var order []string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})

	m := module.New("/api", inner)
	for _, tag := range []string{"first", "second"} {
		tag := tag
		m.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		})
	}

	req := httptest.NewRequest("GET", "/api/x", nil)
	m.Serve(httptest.NewRecorder(), req)

	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "handler" {
		t.Errorf("order = %v", order)
	}
}

func TestRouterFallsBackToNative(t *testing.T) {
	router := module.NewRouter()
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestNewPanicsOnInvalidPrefix(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%q) did not panic", prefix)
				}
			}()
			module.New(prefix, http.NewServeMux())
		}()
	}
}
