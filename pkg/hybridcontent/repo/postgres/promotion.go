package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/contentstore"
)

const promotionColumns = `id, title, COALESCE(description, ''), COALESCE(short_description, ''),
	COALESCE(image_url, ''), COALESCE(banner_image_url, ''), COALESCE(promotion_type, ''),
	COALESCE(discount_type, ''), COALESCE(discount_value, 0)::float8,
	COALESCE(minimum_order_value, 0)::float8, valid_from, valid_until, is_active,
	target_restaurants, target_categories, target_menu_items, max_usage_per_user,
	total_usage_limit, current_usage_count, COALESCE(promo_code, ''), COALESCE(terms, ''),
	seo_data, created_at, updated_at`

// activeWindow matches enabled promotions whose validity window contains $1.
const activeWindow = `is_active = true AND valid_from <= $1 AND valid_until >= $1`

func scanPromotion(row pgx.CollectableRow) (*hybridcontent.Promotion, error) {
	var p hybridcontent.Promotion
	var (
		restaurants contentstore.JSON[[]string]
		categories  contentstore.JSON[[]string]
		items       contentstore.JSON[[]string]
		seo         contentstore.JSON[hybridcontent.SEOData]
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.ShortDescription,
		&p.ImageURL, &p.BannerImageURL, &p.PromotionType,
		&p.DiscountType, &p.DiscountValue,
		&p.MinimumOrderValue, &p.ValidFrom, &p.ValidUntil, &p.IsActive,
		&restaurants, &categories, &items, &p.MaxUsagePerUser,
		&p.TotalUsageLimit, &p.CurrentUsageCount, &p.PromoCode, &p.Terms,
		&seo, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.TargetRestaurants = restaurants.V
	p.TargetCategories = categories.V
	p.TargetMenuItems = items.V
	p.SEOData = seo.V
	return &p, nil
}

func (r *Repository) CreatePromotion(ctx context.Context, promotion *hybridcontent.Promotion) (*hybridcontent.Promotion, error) {
	if err := promotion.Validate(); err != nil {
		return nil, err
	}
	query := `
		INSERT INTO promotions (
			title, description, short_description, image_url, banner_image_url,
			promotion_type, discount_type, discount_value, minimum_order_value,
			valid_from, valid_until, is_active, target_restaurants, target_categories,
			target_menu_items, max_usage_per_user, total_usage_limit, current_usage_count,
			promo_code, terms, seo_data, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			NULLIF($19, ''), $20, $21, NOW(), NOW()
		)
		RETURNING ` + promotionColumns

	return contentstore.QueryOne(ctx, r.client, query, scanPromotion,
		promotion.Title,
		promotion.Description,
		promotion.ShortDescription,
		promotion.ImageURL,
		promotion.BannerImageURL,
		promotion.PromotionType,
		promotion.DiscountType,
		promotion.DiscountValue,
		promotion.MinimumOrderValue,
		promotion.ValidFrom,
		promotion.ValidUntil,
		promotion.IsActive,
		contentstore.JSONOf(contentstore.EmptyList(promotion.TargetRestaurants)),
		contentstore.JSONOf(contentstore.EmptyList(promotion.TargetCategories)),
		contentstore.JSONOf(contentstore.EmptyList(promotion.TargetMenuItems)),
		promotion.MaxUsagePerUser,
		promotion.TotalUsageLimit,
		promotion.CurrentUsageCount,
		promotion.PromoCode,
		promotion.Terms,
		contentstore.JSONOf(promotion.SEOData),
	)
}

func (r *Repository) GetPromotion(ctx context.Context, id int64) (*hybridcontent.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE id = $1`
	return contentstore.QueryOne(ctx, r.client, query, scanPromotion, id)
}

func (r *Repository) GetPromotionByCode(ctx context.Context, code string) (*hybridcontent.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE promo_code = $1`
	return contentstore.QueryOne(ctx, r.client, query, scanPromotion, code)
}

func (r *Repository) ListPromotions(ctx context.Context, limit, offset int) ([]*hybridcontent.Promotion, error) {
	limit, offset = hybridcontent.ClampPage(limit, offset)
	query := `
		SELECT ` + promotionColumns + `
		FROM promotions
		ORDER BY valid_from DESC, id DESC
		LIMIT $1 OFFSET $2`
	return contentstore.Query(ctx, r.client, query, scanPromotion, limit, offset)
}

func (r *Repository) ListActivePromotions(ctx context.Context) ([]*hybridcontent.Promotion, error) {
	query := `
		SELECT ` + promotionColumns + `
		FROM promotions
		WHERE ` + activeWindow + `
		ORDER BY valid_until, id`
	return contentstore.Query(ctx, r.client, query, scanPromotion, r.now())
}

func (r *Repository) ListPromotionsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*hybridcontent.Promotion, error) {
	query := `
		SELECT ` + promotionColumns + `
		FROM promotions
		WHERE ` + activeWindow + `
		  AND (jsonb_array_length(COALESCE(target_restaurants, '[]'::jsonb)) = 0
		       OR target_restaurants @> jsonb_build_array($2::text))
		ORDER BY valid_until, id`
	return contentstore.Query(ctx, r.client, query, scanPromotion, r.now(), restaurantExternalID)
}

func (r *Repository) UpdatePromotion(ctx context.Context, id int64, patch hybridcontent.PromotionPatch) (*hybridcontent.Promotion, error) {
	query, args := promotionUpdate(id, patch)
	return contentstore.QueryOne(ctx, r.client, query, scanPromotion, args...)
}

func promotionUpdate(id int64, patch hybridcontent.PromotionPatch) (string, []any) {
	b := newUpdate("promotions")
	setField(b, "title", patch.Title)
	setField(b, "description", patch.Description)
	setField(b, "short_description", patch.ShortDescription)
	setField(b, "image_url", patch.ImageURL)
	setField(b, "banner_image_url", patch.BannerImageURL)
	setField(b, "promotion_type", patch.PromotionType)
	setField(b, "discount_type", patch.DiscountType)
	setField(b, "discount_value", patch.DiscountValue)
	setField(b, "minimum_order_value", patch.MinimumOrderValue)
	setField(b, "valid_from", patch.ValidFrom)
	setField(b, "valid_until", patch.ValidUntil)
	setField(b, "is_active", patch.IsActive)
	setList(b, "target_restaurants", patch.TargetRestaurants)
	setList(b, "target_categories", patch.TargetCategories)
	setList(b, "target_menu_items", patch.TargetMenuItems)
	setField(b, "max_usage_per_user", patch.MaxUsagePerUser)
	setField(b, "total_usage_limit", patch.TotalUsageLimit)
	setNullable(b, "promo_code", patch.PromoCode)
	setField(b, "terms", patch.Terms)
	setJSON(b, "seo_data", patch.SEOData)
	return b.build(id, promotionColumns)
}

// IncrementPromotionUsage records one redemption. The row is locked for the
// duration of the check so concurrent redemptions cannot overshoot
// total_usage_limit.
func (r *Repository) IncrementPromotionUsage(ctx context.Context, id int64) (*hybridcontent.Promotion, error) {
	var updated *hybridcontent.Promotion
	err := r.client.Transaction(ctx, func(ctx context.Context, tx contentstore.Handle) error {
		current, err := contentstore.QueryOne(ctx, tx,
			`SELECT `+promotionColumns+` FROM promotions WHERE id = $1 FOR UPDATE`, scanPromotion, id)
		if err != nil || current == nil {
			return err
		}
		if current.TotalUsageLimit != nil && current.CurrentUsageCount >= *current.TotalUsageLimit {
			return hybridcontent.ErrUsageLimitReached
		}

		updated, err = contentstore.QueryOne(ctx, tx, `
			UPDATE promotions
			SET current_usage_count = current_usage_count + 1, updated_at = NOW()
			WHERE id = $1
			RETURNING `+promotionColumns, scanPromotion, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) DeletePromotion(ctx context.Context, id int64) (*hybridcontent.Promotion, error) {
	query := `DELETE FROM promotions WHERE id = $1 RETURNING ` + promotionColumns
	return contentstore.QueryOne(ctx, r.client, query, scanPromotion, id)
}
