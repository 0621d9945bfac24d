package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
)

func clonePromotion(p *hybridcontent.Promotion) *hybridcontent.Promotion {
	out := *p
	out.TargetRestaurants = list(p.TargetRestaurants)
	out.TargetCategories = list(p.TargetCategories)
	out.TargetMenuItems = list(p.TargetMenuItems)
	out.MaxUsagePerUser = clonePtr(p.MaxUsagePerUser)
	out.TotalUsageLimit = clonePtr(p.TotalUsageLimit)
	out.SEOData = cloneSEO(p.SEOData)
	return &out
}

func (r *Repository) promoCodeTaken(code string, except int64) bool {
	if code == "" {
		return false
	}
	for _, existing := range r.promotions {
		if existing.ID != except && existing.PromoCode == code {
			return true
		}
	}
	return false
}

func (r *Repository) CreatePromotion(ctx context.Context, promotion *hybridcontent.Promotion) (*hybridcontent.Promotion, error) {
	if err := promotion.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.promoCodeTaken(promotion.PromoCode, 0) {
		return nil, duplicate("insert", "promo_code "+promotion.PromoCode)
	}

	row := clonePromotion(promotion)
	row.ID, row.CreatedAt = r.allocate()
	row.UpdatedAt = row.CreatedAt
	r.promotions[row.ID] = row
	return clonePromotion(row), nil
}

func (r *Repository) GetPromotion(ctx context.Context, id int64) (*hybridcontent.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.promotions[id]; ok {
		return clonePromotion(p), nil
	}
	return nil, nil
}

func (r *Repository) GetPromotionByCode(ctx context.Context, code string) (*hybridcontent.Promotion, error) {
	if code == "" {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.promotions {
		if p.PromoCode == code {
			return clonePromotion(p), nil
		}
	}
	return nil, nil
}

func (r *Repository) ListPromotions(ctx context.Context, limit, offset int) ([]*hybridcontent.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := sortedValues(r.promotions, func(p *hybridcontent.Promotion) int64 { return p.ID })

	slices.SortStableFunc(all, func(a, b *hybridcontent.Promotion) int {
		return cmp.Or(b.ValidFrom.Compare(a.ValidFrom), cmp.Compare(b.ID, a.ID))
	})

	out := []*hybridcontent.Promotion{}
	for _, p := range page(all, limit, offset) {
		out = append(out, clonePromotion(p))
	}
	return out, nil
}

// activePromotions returns promotions live at the repository clock, soonest
// expiry first.
func (r *Repository) activePromotions(match func(*hybridcontent.Promotion) bool) []*hybridcontent.Promotion {
	now := r.now()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*hybridcontent.Promotion{}
	for _, p := range r.promotions {
		if p.ActiveAt(now) && match(p) {
			out = append(out, clonePromotion(p))
		}
	}
	slices.SortFunc(out, func(a, b *hybridcontent.Promotion) int {
		return cmp.Or(a.ValidUntil.Compare(b.ValidUntil), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func (r *Repository) ListActivePromotions(ctx context.Context) ([]*hybridcontent.Promotion, error) {
	return r.activePromotions(func(*hybridcontent.Promotion) bool { return true }), nil
}

func (r *Repository) ListPromotionsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*hybridcontent.Promotion, error) {
	return r.activePromotions(func(p *hybridcontent.Promotion) bool {
		return p.AppliesToRestaurant(restaurantExternalID)
	}), nil
}

func (r *Repository) UpdatePromotion(ctx context.Context, id int64, patch hybridcontent.PromotionPatch) (*hybridcontent.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.promotions[id]
	if !ok {
		return nil, nil
	}

	row := clonePromotion(existing)
	apply(&row.Title, patch.Title)
	apply(&row.Description, patch.Description)
	apply(&row.ShortDescription, patch.ShortDescription)
	apply(&row.ImageURL, patch.ImageURL)
	apply(&row.BannerImageURL, patch.BannerImageURL)
	apply(&row.PromotionType, patch.PromotionType)
	apply(&row.DiscountType, patch.DiscountType)
	apply(&row.DiscountValue, patch.DiscountValue)
	apply(&row.MinimumOrderValue, patch.MinimumOrderValue)
	apply(&row.ValidFrom, patch.ValidFrom)
	apply(&row.ValidUntil, patch.ValidUntil)
	apply(&row.IsActive, patch.IsActive)
	applyList(&row.TargetRestaurants, patch.TargetRestaurants)
	applyList(&row.TargetCategories, patch.TargetCategories)
	applyList(&row.TargetMenuItems, patch.TargetMenuItems)
	applyPtr(&row.MaxUsagePerUser, patch.MaxUsagePerUser)
	applyPtr(&row.TotalUsageLimit, patch.TotalUsageLimit)
	apply(&row.PromoCode, patch.PromoCode)
	apply(&row.Terms, patch.Terms)
	apply(&row.SEOData, patch.SEOData)

	if r.promoCodeTaken(row.PromoCode, id) {
		return nil, duplicate("query one", "promo_code "+row.PromoCode)
	}
	row.UpdatedAt = r.now().UTC()
	r.promotions[id] = row
	return clonePromotion(row), nil
}

func (r *Repository) IncrementPromotionUsage(ctx context.Context, id int64) (*hybridcontent.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.promotions[id]
	if !ok {
		return nil, nil
	}
	if p.TotalUsageLimit != nil && p.CurrentUsageCount >= *p.TotalUsageLimit {
		return nil, hybridcontent.ErrUsageLimitReached
	}
	row := clonePromotion(p)
	row.CurrentUsageCount++
	row.UpdatedAt = r.now().UTC()
	r.promotions[id] = row
	return clonePromotion(row), nil
}

func (r *Repository) DeletePromotion(ctx context.Context, id int64) (*hybridcontent.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.promotions[id]
	if !ok {
		return nil, nil
	}
	delete(r.promotions, id)
	return p, nil
}
