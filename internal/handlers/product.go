package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/quotes-app/auth"
	"github.com/diewo77/quotes-app/httpx"
	"github.com/diewo77/quotes-app/internal/models"
	"github.com/diewo77/quotes-app/internal/services"
	"github.com/diewo77/quotes-app/validation"
	"github.com/diewo77/quotes-app/view"
)

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler { return &ProductHandler{DB: db} }

// List: GET /products – the catalog, optionally filtered by ?q=.
// The search is the picker's: a stable, case-insensitive substring match on
// the composed "Name (SKU)" label, applied in memory so the ordering and
// matching are exactly what the picker shows.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var catalog []models.Product
	if err := h.DB.Where("user_id = ?", uid).Order("id asc").Find(&catalog).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	filtered := services.FilterCatalog(catalog, query)
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": filtered, "total": len(filtered)})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := map[string]any{"Products": filtered, "Total": len(filtered), "Query": query}
	if err := view.Render(w, r, "products.html", data); err != nil {
		if _, werr := w.Write([]byte("template render error:" + err.Error())); werr != nil {
			_ = werr
		}
	}
}

// Create: POST /products – JSON or form
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	if uid == 0 {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var input struct {
		SKU         string  `json:"sku"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		UnitPrice   float64 `json:"unit_price"`
		Currency    string  `json:"currency"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		input.SKU = r.FormValue("sku")
		input.Name = r.FormValue("name")
		input.Description = r.FormValue("description")
		input.UnitPrice = services.DisplayFloat(r.FormValue("unit_price"))
		input.Currency = r.FormValue("currency")
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.NonNegativeFloat("unit_price", input.UnitPrice, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	p := models.Product{
		UserID:      uid,
		SKU:         strings.ToUpper(strings.TrimSpace(input.SKU)),
		Name:        input.Name,
		Description: input.Description,
		UnitPrice:   input.UnitPrice,
		Currency:    choose(input.Currency, "EUR"),
	}
	if err := h.DB.Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "duplicate") || strings.Contains(strings.ToLower(err.Error()), "unique") {
			httpx.JSONError(w, http.StatusConflict, "sku_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "product_create_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, p)
		return
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// Update allows editing name, description, price; SKU immutable for simplicity.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	p, ok := h.loadOwned(w, r, uid)
	if !ok {
		return
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Name        *string  `json:"name"`
			Description *string  `json:"description"`
			UnitPrice   *float64 `json:"unit_price"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		if body.Name != nil {
			p.Name = *body.Name
		}
		if body.Description != nil {
			p.Description = *body.Description
		}
		if body.UnitPrice != nil && *body.UnitPrice >= 0 {
			p.UnitPrice = *body.UnitPrice
		}
	} else {
		if v := r.FormValue("name"); v != "" {
			p.Name = v
		}
		if v := r.FormValue("description"); v != "" {
			p.Description = v
		}
		if v := r.FormValue("unit_price"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
				p.UnitPrice = f
			}
		}
	}
	if err := h.DB.Save(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, p)
		return
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// Delete soft-deletes a product; existing quote lines keep their copied
// description and price, only the catalog entry disappears from the picker.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	p, ok := h.loadOwned(w, r, uid)
	if !ok {
		return
	}
	if err := h.DB.Delete(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": p.ID})
		return
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *ProductHandler) loadOwned(w http.ResponseWriter, r *http.Request, uid uint) (models.Product, bool) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		idStr = r.FormValue("id")
	}
	id, _ := strconv.Atoi(idStr)
	if id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return models.Product{}, false
	}
	var p models.Product
	if err := h.DB.First(&p, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return models.Product{}, false
	}
	if p.UserID != uid {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return models.Product{}, false
	}
	return p, true
}

func choose(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
