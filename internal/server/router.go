package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/quotes-app/auth"
	"github.com/diewo77/quotes-app/httpx"
	"github.com/diewo77/quotes-app/internal/handlers"
	"github.com/diewo77/quotes-app/internal/middleware"
	"github.com/diewo77/quotes-app/internal/models"
	"github.com/diewo77/quotes-app/internal/policy"
	"github.com/diewo77/quotes-app/internal/services"
	"github.com/diewo77/quotes-app/view"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight DB check (SELECT 1) – ignore detailed errors in body
		if err := db.Exec("SELECT 1").Error; err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, werr := w.Write([]byte(`{"status":"degraded"}`)); werr != nil {
				_ = werr
			}
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	// Product endpoints (catalog). List/Create via /products; update/delete via
	// /products/update & /products/delete for simplicity.
	ph := handlers.NewProductHandler(db)
	mux.Handle("/products", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ph.List(w, r)
		case http.MethodPost:
			ph.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/products/update", requireAuth(ph.Update))
	mux.Handle("/products/delete", requireAuth(ph.Delete))

	// Customer endpoints
	ch := handlers.NewCustomerHandler(db)
	mux.Handle("/customers", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ch.List(w, r)
		case http.MethodPost:
			ch.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))

	// Quote endpoints
	qh := handlers.NewQuoteHandler(db, services.NewQuoteService(), policy.NewQuoteGate(db))
	mux.Handle("/quotes", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			qh.List(w, r)
		case http.MethodPost:
			qh.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/quotes/new", requireAuth(qh.New))
	mux.Handle("/quotes/edit", requireAuth(qh.Edit))
	mux.Handle("/quotes/update", requireAuth(qh.Update))
	mux.Handle("/quotes/status", requireAuth(qh.Status))
	//revive:enable:unused-parameter

	// Plan upgrade page (paywall CTA target)
	plh := handlers.NewPlanHandler(db)
	mux.Handle("/upgrade", requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			plh.Choose(w, r)
			return
		}
		plh.Show(w, r)
	}))

	// Dashboard and landing page
	dh := handlers.NewDashboardHandler(db)
	mux.Handle("/dashboard", requireAuth(dh.Show))
	mux.Handle("/", auth.Middleware(http.HandlerFunc(dh.Home)))

	// Static assets with long-lived caching (hashed names come from the manifest)
	mux.Handle("/static/", http.StripPrefix("/static/", cacheStatic(http.FileServer(http.Dir("static")))))

	return middleware.Prefs(withRecover(withLogging(mux)))
}

func requireAuth(h http.HandlerFunc) http.Handler {
	return auth.Middleware(auth.RequireAuth(h))
}

func cacheStatic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Versioned URLs (?v= or manifest hash) are safe to cache hard.
		if r.URL.RawQuery != "" {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		next.ServeHTTP(w, r)
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRecover is the top-level error boundary: a panic anywhere below is
// replaced by a localized fallback panel (HTML) or a bare 500 (JSON) offering
// the user a way back. Panic details are only logged in a dev build.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if os.Getenv("DEV") == "1" {
					log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				}
				if httpx.WantsJSON(r) {
					httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
					return
				}
				w.WriteHeader(http.StatusInternalServerError)
				if err := view.Render(w, r, "error.html", nil); err != nil {
					if _, werr := w.Write([]byte("internal error")); werr != nil {
						_ = werr
					}
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}
