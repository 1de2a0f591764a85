package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/quotes-app/internal/models"
	"github.com/diewo77/quotes-app/internal/policy"
	"github.com/diewo77/quotes-app/view"
)

func TestMain(m *testing.M) {
	view.SetBaseDir("../../templates")
	view.ResetForTests()
	os.Exit(m.Run())
}

func setupServerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Role{}, &models.Plan{}, &models.User{}, &models.Customer{}, &models.Product{}, &models.Quote{}, &models.QuoteItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	policy.SeedPlans(db)
	return db
}

func TestHealthEndpoints(t *testing.T) {
	db := setupServerTestDB(t)
	srv := New(db)

	for _, path := range []string{"/health", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"ok"`) {
			t.Errorf("%s: body = %s", path, rec.Body.String())
		}
	}
}

func TestRequireAuthDeniesAnonymous(t *testing.T) {
	db := setupServerTestDB(t)
	srv := New(db)

	// Browser request: redirected to the login page.
	req := httptest.NewRequest(http.MethodGet, "/quotes", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirected to %q", loc)
	}

	// API request: a bare 401.
	req = httptest.NewRequest(http.MethodGet, "/quotes", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSignupLoginFlow(t *testing.T) {
	db := setupServerTestDB(t)
	srv := New(db)

	form := url.Values{"email": {"new@example.com"}, "password": {"secret123"}, "prenom": {"Ada"}}
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("signup: expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("signup did not set a session cookie")
	}

	// The session cookie grants access to protected pages.
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard with session: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRecoverBoundaryRendersFallback(t *testing.T) {
	panics := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	guarded := withRecover(panics)

	// HTML clients get the localized fallback panel with a way back.
	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `href="/"`) {
		t.Errorf("fallback panel has no way home: %s", body)
	}

	// JSON clients get a structured error.
	req = httptest.NewRequest(http.MethodGet, "/anything", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal_error") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
