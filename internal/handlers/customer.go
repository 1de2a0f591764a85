package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/quotes-app/auth"
	"github.com/diewo77/quotes-app/httpx"
	"github.com/diewo77/quotes-app/internal/models"
	"github.com/diewo77/quotes-app/validation"
	"github.com/diewo77/quotes-app/view"
)

type CustomerHandler struct {
	DB *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler { return &CustomerHandler{DB: db} }

// List: GET /customers – HTML or JSON
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var customers []models.Customer
	if err := h.DB.Where("user_id = ?", uid).Order("nom asc").Find(&customers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_customers", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": customers, "total": len(customers)})
		return
	}
	_ = view.Render(w, r, "customers.html", map[string]any{"Customers": customers})
}

// Create: POST /customers – JSON or form
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	if uid == 0 {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var input struct {
		Nom       string `json:"nom"`
		Contact   string `json:"contact"`
		Email     string `json:"email"`
		Telephone string `json:"telephone"`
		TVAIntra  string `json:"tva_intra"`
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
		input.Nom = r.FormValue("nom")
		input.Contact = r.FormValue("contact")
		input.Email = r.FormValue("email")
		input.Telephone = r.FormValue("telephone")
		input.TVAIntra = r.FormValue("tva_intra")
	}
	v := validation.Violations{}
	validation.Required("nom", input.Nom, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	c := models.Customer{
		UserID:    uid,
		Nom:       strings.TrimSpace(input.Nom),
		Contact:   input.Contact,
		Email:     input.Email,
		Telephone: input.Telephone,
		TVAIntra:  input.TVAIntra,
	}
	if err := h.DB.Create(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "customer_create_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, c)
		return
	}
	http.Redirect(w, r, "/customers", http.StatusSeeOther)
}
