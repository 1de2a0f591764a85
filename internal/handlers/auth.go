package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/quotes-app/auth"
	"github.com/diewo77/quotes-app/httpx"
	"github.com/diewo77/quotes-app/internal/models"
	"github.com/diewo77/quotes-app/view"
)

// ensureDefaultRole fetches or creates the base "user" role.
func ensureDefaultRole(db *gorm.DB) (*models.Role, error) {
	var role models.Role
	if err := db.Where("name = ?", "user").First(&role).Error; err == nil {
		return &role, nil
	}
	role = models.Role{Name: "user", Description: "Default user role"}
	if err := db.Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// freePlan fetches or creates the free plan new signups start on.
func freePlan(db *gorm.DB) (*models.Plan, error) {
	var plan models.Plan
	if err := db.Where("name = ?", "free").First(&plan).Error; err == nil {
		return &plan, nil
	}
	plan = models.Plan{Name: "free", QuoteLimit: 5}
	if err := db.Create(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

type AuthHandler struct{ DB *gorm.DB }

// Explicit constant for 303 See Other (Post/Redirect/Get)
const statusSeeOther = 303

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/signup", h.signup)
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.logout)
}

// renderTemplate uses the shared view.Render to ensure layout, partials, funcs, and caching.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name+".html", data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		if _, werr := w.Write([]byte("template error")); werr != nil {
			_ = werr
		}
	}
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "signup", nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	pass := r.FormValue("password")
	prenom := strings.TrimSpace(r.FormValue("prenom"))
	nom := strings.TrimSpace(r.FormValue("nom"))
	if email == "" || pass == "" {
		renderTemplate(w, r, "signup", map[string]any{"Error": "email and password required"})
		return
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	role, err := ensureDefaultRole(h.DB)
	if err != nil {
		renderTemplate(w, r, "signup", map[string]any{"Error": "could not ensure role"})
		return
	}
	plan, err := freePlan(h.DB)
	if err != nil {
		renderTemplate(w, r, "signup", map[string]any{"Error": "could not ensure plan"})
		return
	}
	user := models.User{Email: email, Password: string(hash), Prenom: prenom, Nom: nom, RoleID: role.ID, PlanID: plan.ID}
	if err := h.DB.Create(&user).Error; err != nil {
		renderTemplate(w, r, "signup", map[string]any{"Error": "could not create user"})
		return
	}
	auth.CreateSession(w, user.ID)
	// PRG redirect (303)
	http.Redirect(w, r, "/dashboard", statusSeeOther)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		// If already logged in, verify user still exists, then redirect to dashboard.
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			uid, ok = auth.ParseSession(r)
		}
		if ok && uid != 0 {
			var count int64
			if err := h.DB.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err == nil && count > 0 {
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
				return
			}
			// Stale session: clear and continue to render login
			auth.ClearSession(w)
		}
		renderTemplate(w, r, "login", nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	pass := r.FormValue("password")
	if email == "" || pass == "" {
		renderTemplate(w, r, "login", map[string]any{"Error": "email and password required"})
		return
	}
	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		renderTemplate(w, r, "login", map[string]any{"Error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(pass)) != nil {
		renderTemplate(w, r, "login", map[string]any{"Error": "invalid credentials"})
		return
	}
	auth.CreateSession(w, user.ID)
	http.Redirect(w, r, "/dashboard", statusSeeOther)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", statusSeeOther)
}
