package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/quotes-app/auth"
	"github.com/diewo77/quotes-app/gate"
	"github.com/diewo77/quotes-app/httpx"
	"github.com/diewo77/quotes-app/internal/middleware"
	"github.com/diewo77/quotes-app/internal/models"
	"github.com/diewo77/quotes-app/internal/services"
	"github.com/diewo77/quotes-app/internal/widgets"
	"github.com/diewo77/quotes-app/view"
)

const dateLayout = "2006-01-02"

// QuoteHandler binds the quote draft engine to HTTP, dual-format (HTML form
// flow and JSON API) like the other handlers.
type QuoteHandler struct {
	DB   *gorm.DB
	Svc  *services.QuoteService
	Gate *gate.Gate[uint]
}

func NewQuoteHandler(db *gorm.DB, svc *services.QuoteService, g *gate.Gate[uint]) *QuoteHandler {
	return &QuoteHandler{DB: db, Svc: svc, Gate: g}
}

// List: GET /quotes – HTML or JSON
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	dbq := h.DB.Where("user_id = ?", uid)
	if q != "" {
		safe := regexp.MustCompile(`[^a-zA-Z0-9 \-_]`).ReplaceAllString(q, "")
		like := "%" + strings.ToLower(safe) + "%"
		dbq = dbq.Where("lower(status) LIKE ? OR lower(quote_number) LIKE ?", like, like)
	}
	var total int64
	dbq.Model(&models.Quote{}).Count(&total)
	var quotes []models.Quote
	if err := dbq.Preload("Customer").Order("id desc").Limit(limit).Offset(offset).Find(&quotes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_quotes", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": quotes, "total": total, "limit": limit, "offset": offset})
		return
	}
	_ = view.Render(w, r, "quotes.html", map[string]any{"Quotes": quotes, "Total": total, "PageSize": limit, "Query": q})
}

// New: GET /quotes/new – create-mode form with fresh defaults.
func (h *QuoteHandler) New(w http.ResponseWriter, r *http.Request) {
	draft := h.Svc.NewDraft(time.Now())
	h.renderForm(w, r, &draft, nil, false)
}

// Edit: GET /quotes/edit?id= – edit-mode form, hydrated from the persisted
// quote and its items. Every GET rebuilds the visible form from a fresh read:
// last fetch wins, in-flight edits are not merged.
func (h *QuoteHandler) Edit(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	q, items, ok := h.loadQuote(w, r)
	if !ok {
		return
	}
	if err := h.Gate.Authorize(r.Context(), uid, gate.ActionView, "quote", q); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	draft := h.Svc.Hydrate(q, items)
	h.renderForm(w, r, &draft, nil, false)
}

// Create: POST /quotes – JSON or form
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	// Submission is gated on an authenticated user before anything else:
	// no user, no persistence call.
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	draft, err := h.parseDraft(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	draft.ID = 0
	draft.Status = models.StatusDraft

	// HTML form flow: non-save actions mutate the draft and re-render.
	if action := r.FormValue("form_action"); action != "" && action != "save" {
		h.applyFormAction(draft, action)
		h.renderForm(w, r, draft, nil, false)
		return
	}

	if v := h.Svc.Validate(draft); !v.Empty() {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		h.renderForm(w, r, draft, v, false)
		return
	}
	if !h.validItemProducts(uid, draft) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_products", nil)
		return
	}
	// Plan quota: a denied create surfaces the upgrade prompt, not a 403.
	if err := h.Gate.Authorize(r.Context(), uid, gate.ActionCreate, "quote", nil); err != nil {
		if errors.Is(err, gate.ErrQuotaExceeded) {
			if httpx.WantsJSON(r) {
				httpx.JSONError(w, http.StatusPaymentRequired, "quote_limit_reached", nil)
				return
			}
			h.renderForm(w, r, draft, nil, true)
			return
		}
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}

	// Defensive recomputation happens inside Flatten, on the final snapshot.
	quote, items := h.Svc.Flatten(draft, uid)
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quote).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].QuoteID = quote.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		// Not retried automatically; the form stays populated for manual retry.
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_quote", nil)
			return
		}
		h.renderFormWithSubmitError(w, r, draft)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, map[string]any{
			"id":           quote.ID,
			"quote_number": quote.QuoteNumber,
			"status":       quote.Status,
			"subtotal":     quote.Subtotal,
			"tax_amount":   quote.TaxAmount,
			"total":        quote.Total,
		})
		return
	}
	middleware.Flash(w, r, "save")
	http.Redirect(w, r, "/quotes", http.StatusSeeOther)
}

// Update: POST /quotes/update?id= – JSON or form. Items are replaced
// wholesale; the document is one ordered list, not a diff.
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	existing, _, found := h.loadQuote(w, r)
	if !found {
		return
	}
	if err := h.Gate.Authorize(r.Context(), uid, gate.ActionUpdate, "quote", existing); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	draft, err := h.parseDraft(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	draft.ID = existing.ID
	if draft.Status == "" {
		draft.Status = existing.Status
	}

	if action := r.FormValue("form_action"); action != "" && action != "save" {
		h.applyFormAction(draft, action)
		h.renderForm(w, r, draft, nil, false)
		return
	}

	if v := h.Svc.Validate(draft); !v.Empty() {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		h.renderForm(w, r, draft, v, false)
		return
	}
	if !h.validItemProducts(uid, draft) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_products", nil)
		return
	}

	quote, items := h.Svc.Flatten(draft, existing.UserID)
	quote.CreatedAt = existing.CreatedAt
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&quote).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].QuoteID = quote.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_quote", nil)
			return
		}
		h.renderFormWithSubmitError(w, r, draft)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"id":         quote.ID,
			"status":     quote.Status,
			"subtotal":   quote.Subtotal,
			"tax_amount": quote.TaxAmount,
			"total":      quote.Total,
		})
		return
	}
	middleware.Flash(w, r, "save")
	http.Redirect(w, r, "/quotes", http.StatusSeeOther)
}

// allowed status transitions
var statusTransitions = map[string][]string{
	models.StatusDraft:    {models.StatusSent},
	models.StatusSent:     {models.StatusAccepted, models.StatusRejected},
	models.StatusAccepted: {models.StatusConverted},
}

// Status: POST /quotes/status?id=&status=
func (h *QuoteHandler) Status(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	q, _, ok := h.loadQuote(w, r)
	if !ok {
		return
	}
	if err := h.Gate.Authorize(r.Context(), uid, gate.ActionUpdate, "quote", q); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	next := r.URL.Query().Get("status")
	if next == "" {
		next = r.FormValue("status")
	}
	if !models.ValidStatus(next) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
		return
	}
	allowed := false
	for _, s := range statusTransitions[q.Status] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_transition", map[string]string{"from": q.Status, "to": next})
		return
	}
	if err := h.DB.Model(&q).Update("status", next).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_status", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": next})
		return
	}
	http.Redirect(w, r, "/quotes", http.StatusSeeOther)
}

// loadQuote fetches the quote in ?id= with its ordered items. Writes the
// error response itself and returns ok=false when the quote is unavailable.
func (h *QuoteHandler) loadQuote(w http.ResponseWriter, r *http.Request) (models.Quote, []models.QuoteItem, bool) {
	idStr := r.URL.Query().Get("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return models.Quote{}, nil, false
	}
	var q models.Quote
	if err := h.DB.First(&q, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		} else {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_quote", nil)
		}
		return models.Quote{}, nil, false
	}
	var items []models.QuoteItem
	if err := h.DB.Where("quote_id = ?", q.ID).Order("position asc").Find(&items).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_quote", nil)
		return models.Quote{}, nil, false
	}
	return q, items, true
}

// parseDraft reads a draft from a JSON body or an HTML form.
func (h *QuoteHandler) parseDraft(r *http.Request) (*services.QuoteDraft, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return h.parseDraftJSON(r)
	}
	return h.parseDraftForm(r)
}

func (h *QuoteHandler) parseDraftJSON(r *http.Request) (*services.QuoteDraft, error) {
	type itemReq struct {
		ProductID   *uint   `json:"product_id"`
		Description string  `json:"description"`
		Quantity    float64 `json:"quantity"`
		UnitPrice   float64 `json:"unit_price"`
	}
	type draftReq struct {
		CustomerID   uint      `json:"customer_id"`
		QuoteNumber  string    `json:"quote_number"`
		IssueDate    string    `json:"issue_date"`
		ExpiryDate   string    `json:"expiry_date"`
		Status       string    `json:"status"`
		TaxRate      float64   `json:"tax_rate"`
		TaxInclusive bool      `json:"tax_inclusive"`
		Notes        string    `json:"notes"`
		Items        []itemReq `json:"items"`
	}
	var req draftReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	d := &services.QuoteDraft{
		CustomerID:   req.CustomerID,
		QuoteNumber:  req.QuoteNumber,
		Status:       req.Status,
		TaxRate:      req.TaxRate,
		TaxInclusive: req.TaxInclusive,
		Notes:        req.Notes,
	}
	now := time.Now()
	d.IssueDate = parseDate(req.IssueDate, now)
	d.ExpiryDate = parseDate(req.ExpiryDate, now.AddDate(0, 1, 0))
	for _, it := range req.Items {
		d.Items = append(d.Items, services.LineItem{
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	if len(d.Items) == 0 {
		d.Items = h.Svc.NewDraft(now).Items
	}
	return d, nil
}

func (h *QuoteHandler) parseDraftForm(r *http.Request) (*services.QuoteDraft, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	now := time.Now()
	d := &services.QuoteDraft{
		QuoteNumber:  r.FormValue("quote_number"),
		Status:       r.FormValue("status"),
		TaxRate:      services.DisplayFloat(r.FormValue("tax_rate")),
		TaxInclusive: r.FormValue("tax_inclusive") == "on" || r.FormValue("tax_inclusive") == "1",
		Notes:        r.FormValue("notes"),
	}
	if id, err := strconv.Atoi(r.FormValue("customer_id")); err == nil && id > 0 {
		d.CustomerID = uint(id)
	}
	d.IssueDate = parseDate(r.FormValue("issue_date"), now)
	d.ExpiryDate = parseDate(r.FormValue("expiry_date"), now.AddDate(0, 1, 0))

	count, _ := strconv.Atoi(r.FormValue("item_count"))
	for i := 0; i < count; i++ {
		item := services.LineItem{
			Description: r.FormValue(field(i, "description")),
			// Display-side coercion: unparseable numbers become 0 here and
			// are caught by the strict validation pass at submit.
			Quantity:  services.DisplayFloat(r.FormValue(field(i, "quantity"))),
			UnitPrice: services.DisplayFloat(r.FormValue(field(i, "unit_price"))),
		}
		if pid, err := strconv.Atoi(r.FormValue(field(i, "product_id"))); err == nil && pid > 0 {
			id := uint(pid)
			item.ProductID = &id
		}
		d.Items = append(d.Items, item)
	}
	if len(d.Items) == 0 {
		d.Items = h.Svc.NewDraft(now).Items
	}
	return d, nil
}

func field(i int, name string) string {
	return "items." + strconv.Itoa(i) + "." + name
}

func parseDate(s string, def time.Time) time.Time {
	if t, err := time.Parse(dateLayout, strings.TrimSpace(s)); err == nil {
		return t
	}
	return def
}

// applyFormAction runs one engine operation from the no-JS form flow:
// "add_item", "remove_item:2", "pick:1:42" (line 1, product 42),
// "custom:1" (clear the catalog ref of line 1).
func (h *QuoteHandler) applyFormAction(d *services.QuoteDraft, action string) {
	parts := strings.Split(action, ":")
	switch parts[0] {
	case "add_item":
		h.Svc.AddItem(d)
	case "remove_item":
		if len(parts) == 2 {
			if i, err := strconv.Atoi(parts[1]); err == nil {
				h.Svc.RemoveItem(d, i)
			}
		}
	case "pick":
		if len(parts) == 3 {
			i, err1 := strconv.Atoi(parts[1])
			pid, err2 := strconv.Atoi(parts[2])
			if err1 == nil && err2 == nil {
				var p models.Product
				if err := h.DB.First(&p, pid).Error; err == nil {
					h.Svc.SelectProduct(d, i, &p)
				}
			}
		}
	case "custom":
		if len(parts) == 2 {
			if i, err := strconv.Atoi(parts[1]); err == nil {
				h.Svc.SelectProduct(d, i, nil)
			}
		}
	}
}

// validItemProducts checks that every referenced catalog product exists and
// belongs to the submitting user.
func (h *QuoteHandler) validItemProducts(uid uint, d *services.QuoteDraft) bool {
	ids := make([]uint, 0, len(d.Items))
	for _, it := range d.Items {
		if it.ProductID != nil {
			ids = append(ids, *it.ProductID)
		}
	}
	if len(ids) == 0 {
		return true
	}
	var count int64
	if err := h.DB.Model(&models.Product{}).Where("id IN ? AND user_id = ?", ids, uid).Count(&count).Error; err != nil {
		return false
	}
	return count == int64(len(uniqueIDs(ids)))
}

func uniqueIDs(ids []uint) []uint {
	seen := map[uint]bool{}
	var out []uint
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// pickerRow is one product-picker palette, pre-filtered for its line item.
// SelectedID is 0 when the row has no catalog selection (custom item).
type pickerRow struct {
	Index      int
	Query      string
	Items      []widgets.PaletteItem
	SelectedID uint
	Open       bool
}

// buildPickers keys one palette per line item. A row whose item references a
// catalog product carries that as its exclusive selection; a "picker_query.N"
// form value filters the row's entries.
func buildPickers(r *http.Request, d *services.QuoteDraft, catalog []models.Product) []pickerRow {
	items := services.CatalogPaletteItems(catalog)
	set := widgets.NewPickerSet(items, len(d.Items))
	rows := make([]pickerRow, 0, len(d.Items))
	for i, it := range d.Items {
		p := set.Row(i)
		if it.ProductID != nil {
			p.Select(*it.ProductID)
		}
		p.Query = r.FormValue("picker_query." + strconv.Itoa(i))
		if p.Query != "" {
			p.Open = true
		}
		row := pickerRow{
			Index: i,
			Query: p.Query,
			Items: p.Filtered(),
			Open:  p.Open,
		}
		if p.SelectedID != nil {
			row.SelectedID = *p.SelectedID
		}
		rows = append(rows, row)
	}
	return rows
}

// datePickerData flattens a DatePicker into template-friendly fields.
func datePickerData(sel time.Time, now time.Time) map[string]any {
	p := widgets.NewDatePicker(sel)
	p.Pick(sel)
	return map[string]any{
		"Month":    p.Calendar.Month(),
		"Weeks":    p.Calendar.Grid(now),
		"Selected": sel.Format(dateLayout),
		"Open":     p.Open,
	}
}

// renderForm renders the quote form with live totals, the customer list and
// the product catalog for the pickers.
func (h *QuoteHandler) renderForm(w http.ResponseWriter, r *http.Request, d *services.QuoteDraft, errs map[string]string, showUpgrade bool) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var customers []models.Customer
	_ = h.DB.Where("user_id = ?", uid).Order("nom asc").Find(&customers).Error
	var catalog []models.Product
	_ = h.DB.Where("user_id = ?", uid).Order("id asc").Find(&catalog).Error

	now := time.Now()
	totals := h.Svc.ComputeTotals(d)
	data := map[string]any{
		"Draft":        d,
		"Totals":       totals,
		"Customers":    customers,
		"Catalog":      catalog,
		"ItemCount":    len(d.Items),
		"ShowUpgrade":  showUpgrade,
		"Pickers":      buildPickers(r, d, catalog),
		"IssuePicker":  datePickerData(d.IssueDate, now),
		"ExpiryPicker": datePickerData(d.ExpiryDate, now),
	}
	if len(errs) > 0 {
		data["Errors"] = errs
	}
	if d.ID != 0 {
		data["Mode"] = "edit"
	} else {
		data["Mode"] = "create"
	}
	if err := view.Render(w, r, "quote_form.html", data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		if _, werr := w.Write([]byte("template render error:" + err.Error())); werr != nil {
			_ = werr
		}
	}
}

func (h *QuoteHandler) renderFormWithSubmitError(w http.ResponseWriter, r *http.Request, d *services.QuoteDraft) {
	w.WriteHeader(http.StatusInternalServerError)
	h.renderForm(w, r, d, map[string]string{"_submit": "submit_failed"}, false)
}
