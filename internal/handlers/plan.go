package handlers

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/diewo77/quotes-app/auth"
	"github.com/diewo77/quotes-app/httpx"
	"github.com/diewo77/quotes-app/internal/models"
)

// PlanHandler serves the upgrade page. There is no billing integration;
// switching plans takes effect immediately.
type PlanHandler struct{ DB *gorm.DB }

func NewPlanHandler(db *gorm.DB) *PlanHandler { return &PlanHandler{DB: db} }

// Show: GET /upgrade – plan comparison.
func (h *PlanHandler) Show(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var plans []models.Plan
	if err := h.DB.Order("monthly_price asc").Find(&plans).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_plans", nil)
		return
	}
	var user models.User
	h.DB.First(&user, uid)
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"plans": plans, "current": user.PlanID})
		return
	}
	renderTemplate(w, r, "upgrade", map[string]any{"Plans": plans, "CurrentID": user.PlanID})
}

// Choose: POST /upgrade – switch the current user to the submitted plan.
func (h *PlanHandler) Choose(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, _ := strconv.Atoi(r.FormValue("plan_id"))
	if id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_plan", nil)
		return
	}
	var plan models.Plan
	if err := h.DB.First(&plan, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "plan_not_found", nil)
		return
	}
	if err := h.DB.Model(&models.User{}).Where("id = ?", uid).Update("plan_id", plan.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "plan_update_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"plan": plan.Name})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
