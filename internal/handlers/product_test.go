package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/quotes-app/internal/models"
)

func TestListProductsSearchMatchesPickerLabel(t *testing.T) {
	db := setupQuoteTestDB(t)
	fx := seedQuoteFixtures(t, db)
	h := NewProductHandler(db)

	// "usb" matches both the name and the SKU half of "USB-C Cable (USB-100)".
	req := httptest.NewRequest(http.MethodGet, "/products?q=usb", nil)
	req.Header.Set("Accept", "application/json")
	req = asUser(req, fx.user.ID)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Items []models.Product `json:"items"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("total = %d, want 1", resp.Total)
	}
	if resp.Items[0].SKU != "USB-100" {
		t.Errorf("matched %q", resp.Items[0].SKU)
	}

	// Empty query returns the whole catalog, in id order.
	req = httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Accept", "application/json")
	req = asUser(req, fx.user.ID)
	rec = httptest.NewRecorder()
	h.List(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("empty query total = %d, want 2", resp.Total)
	}
	if resp.Items[0].ID > resp.Items[1].ID {
		t.Errorf("catalog not in id order")
	}
}

func TestListProductsScopedToUser(t *testing.T) {
	db := setupQuoteTestDB(t)
	fx := seedQuoteFixtures(t, db)
	h := NewProductHandler(db)

	other := models.User{Email: "neighbor@example.com", Password: "x"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed other user: %v", err)
	}
	foreign := models.Product{UserID: other.ID, SKU: "USB-900", Name: "USB Hub", UnitPrice: 30}
	if err := db.Create(&foreign).Error; err != nil {
		t.Fatalf("seed foreign product: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/products?q=usb", nil)
	req.Header.Set("Accept", "application/json")
	req = asUser(req, fx.user.ID)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	var resp struct {
		Items []models.Product `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, p := range resp.Items {
		if p.UserID != fx.user.ID {
			t.Errorf("leaked product %q from user %d", p.SKU, p.UserID)
		}
	}
}

func TestCreateProduct(t *testing.T) {
	db := setupQuoteTestDB(t)
	fx := seedQuoteFixtures(t, db)
	h := NewProductHandler(db)

	payload := map[string]any{"sku": "svc-010", "name": "Support plan", "unit_price": 99.0}
	req := asUser(jsonRequest(t, http.MethodPost, "/products", payload), fx.user.ID)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var p models.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if p.SKU != "SVC-010" {
		t.Errorf("SKU not normalized: %q", p.SKU)
	}
	if p.Currency != "EUR" {
		t.Errorf("default currency = %q", p.Currency)
	}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	db := setupQuoteTestDB(t)
	fx := seedQuoteFixtures(t, db)
	h := NewProductHandler(db)

	payload := map[string]any{"sku": "USB-100", "name": "Another cable", "unit_price": 5.0}
	req := asUser(jsonRequest(t, http.MethodPost, "/products", payload), fx.user.ID)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "sku_already_exists") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCreateProductValidation(t *testing.T) {
	db := setupQuoteTestDB(t)
	fx := seedQuoteFixtures(t, db)
	h := NewProductHandler(db)

	payload := map[string]any{"sku": "BAD-1", "name": "", "unit_price": -3.0}
	req := asUser(jsonRequest(t, http.MethodPost, "/products", payload), fx.user.ID)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, field := range []string{"name", "unit_price"} {
		if _, ok := resp.Details[field]; !ok {
			t.Errorf("missing violation for %q", field)
		}
	}
}

func TestDeleteProductSoftDeletes(t *testing.T) {
	db := setupQuoteTestDB(t)
	fx := seedQuoteFixtures(t, db)
	h := NewProductHandler(db)
	target := fx.products[0]

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/products/delete?id=%d", target.ID), nil)
	req.Header.Set("Accept", "application/json")
	req = asUser(req, fx.user.ID)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var visible int64
	db.Model(&models.Product{}).Where("id = ?", target.ID).Count(&visible)
	if visible != 0 {
		t.Errorf("deleted product still visible in default scope")
	}
	var total int64
	db.Unscoped().Model(&models.Product{}).Where("id = ?", target.ID).Count(&total)
	if total != 1 {
		t.Errorf("soft delete removed the row entirely")
	}
}

func TestDeleteProductForbiddenForOtherUser(t *testing.T) {
	db := setupQuoteTestDB(t)
	fx := seedQuoteFixtures(t, db)
	h := NewProductHandler(db)

	other := models.User{Email: "thief@example.com", Password: "x"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed other user: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/products/delete?id=%d", fx.products[0].ID), nil)
	req.Header.Set("Accept", "application/json")
	req = asUser(req, other.ID)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCreateAndListCustomers(t *testing.T) {
	db := setupQuoteTestDB(t)
	fx := seedQuoteFixtures(t, db)
	h := NewCustomerHandler(db)

	payload := map[string]any{"nom": "Beta SAS", "email": "contact@beta.example"}
	req := asUser(jsonRequest(t, http.MethodPost, "/customers", payload), fx.user.ID)
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("Accept", "application/json")
	req = asUser(req, fx.user.ID)
	rec = httptest.NewRecorder()
	h.List(rec, req)

	var resp struct {
		Items []models.Customer `json:"items"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	// nom asc: ACME before Beta
	if resp.Items[0].Nom != "ACME SARL" || resp.Items[1].Nom != "Beta SAS" {
		t.Errorf("ordering = %q, %q", resp.Items[0].Nom, resp.Items[1].Nom)
	}
}

func TestCreateCustomerRequiresNom(t *testing.T) {
	db := setupQuoteTestDB(t)
	fx := seedQuoteFixtures(t, db)
	h := NewCustomerHandler(db)

	req := asUser(jsonRequest(t, http.MethodPost, "/customers", map[string]any{"nom": "  "}), fx.user.ID)
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
