package handlers

import (
	"net/http"
	"net/url"

	"gorm.io/gorm"

	"github.com/diewo77/quotes-app/auth"
	"github.com/diewo77/quotes-app/httpx"
	"github.com/diewo77/quotes-app/internal/models"
)

type DashboardHandler struct{ DB *gorm.DB }

func NewDashboardHandler(db *gorm.DB) *DashboardHandler { return &DashboardHandler{DB: db} }

// Home: GET / – landing page, or straight to the dashboard when logged in.
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok && uid != 0 {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "index", nil)
}

// Show: GET /dashboard – per-user counts and the most recent quotes.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var quoteCount, productCount, customerCount int64
	h.DB.Model(&models.Quote{}).Where("user_id = ?", uid).Count(&quoteCount)
	h.DB.Model(&models.Product{}).Where("user_id = ?", uid).Count(&productCount)
	h.DB.Model(&models.Customer{}).Where("user_id = ?", uid).Count(&customerCount)

	var recent []models.Quote
	h.DB.Preload("Customer").Where("user_id = ?", uid).Order("id desc").Limit(5).Find(&recent)

	var user models.User
	h.DB.Preload("Plan").First(&user, uid)

	data := map[string]any{
		"QuoteCount":    quoteCount,
		"ProductCount":  productCount,
		"CustomerCount": customerCount,
		"Recent":        recent,
		"Plan":          user.Plan,
	}
	// One-shot flash cookie, cleared on read.
	if c, err := r.Cookie("flash"); err == nil && c.Value != "" {
		if msg, err := url.QueryUnescape(c.Value); err == nil {
			data["Flash"] = msg
		}
		http.SetCookie(w, &http.Cookie{Name: "flash", Value: "", Path: "/", MaxAge: -1})
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"quotes":    quoteCount,
			"products":  productCount,
			"customers": customerCount,
		})
		return
	}
	renderTemplate(w, r, "dashboard", data)
}
