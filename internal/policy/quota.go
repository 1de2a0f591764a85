package policy

import (
	"context"

	"github.com/diewo77/quotes-app/gate"
	"github.com/diewo77/quotes-app/internal/models"
	"gorm.io/gorm"
)

// QuotaPolicy layers the subscription plan's quote quota on top of ownership.
// Creation is denied with gate.ErrQuotaExceeded once a limited plan's count
// is reached; handlers map that to the upgrade modal / 402 response. All
// other actions fall through to the ownership check.
type QuotaPolicy struct {
	DB    *gorm.DB
	inner gate.Policy[uint]
}

func NewQuotaPolicy(db *gorm.DB) *QuotaPolicy {
	return &QuotaPolicy{DB: db, inner: NewOwnershipPolicy()}
}

func (p *QuotaPolicy) Can(ctx context.Context, userID uint, action gate.Action, resource any) error {
	if action == gate.ActionCreate {
		if err := p.checkQuota(userID); err != nil {
			return err
		}
	}
	return p.inner.Can(ctx, userID, action, resource)
}

func (p *QuotaPolicy) checkQuota(userID uint) error {
	var user models.User
	if err := p.DB.Preload("Plan").First(&user, userID).Error; err != nil {
		return gate.ErrUnauthorized
	}
	// No plan assigned behaves like the free tier default.
	limit := user.Plan.QuoteLimit
	if user.PlanID == 0 {
		limit = FreeQuoteLimit
	}
	if limit <= 0 {
		return nil // unlimited
	}
	var count int64
	if err := p.DB.Model(&models.Quote{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count >= int64(limit) {
		return gate.ErrQuotaExceeded
	}
	return nil
}

// FreeQuoteLimit is the default quota when no plan row exists yet.
const FreeQuoteLimit = 5

// NewQuoteGate builds the application gate with all resource policies
// registered. Plan lookups are cheap enough to hit the DB per create, so no
// caching layer sits in front of them.
func NewQuoteGate(db *gorm.DB) *gate.Gate[uint] {
	g := gate.NewGate[uint]()
	g.Register("quote", NewQuotaPolicy(db))
	g.Register("product", NewOwnershipPolicy())
	g.Register("customer", NewOwnershipPolicy())
	return g
}

// SeedPlans inserts the built-in plans when missing. Idempotent.
func SeedPlans(db *gorm.DB) {
	base := []models.Plan{
		{Name: "free", QuoteLimit: FreeQuoteLimit, MonthlyPrice: 0},
		{Name: "pro", QuoteLimit: 0, MonthlyPrice: 19},
	}
	for _, pl := range base {
		var existing models.Plan
		if err := db.Where("name = ?", pl.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&pl)
		}
	}
}
