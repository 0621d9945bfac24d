package resolver

import (
	"context"

	"github.com/tendant/hybrid-content/pkg/hybridcontent/cache"
)

// InvalidateRestaurant drops the cached views and content of a restaurant.
// Search results embed restaurant content, so they are purged too.
func (r *Resolver) InvalidateRestaurant(ctx context.Context, externalID string) error {
	r.cache.Delete(ctx,
		cache.CategoryHybridRestaurant.Key(externalID),
		cache.CategoryRestaurant.Key(externalID),
	)
	_, err := r.cache.InvalidateCategory(ctx, cache.CategorySearch)
	return err
}

// InvalidateMenu drops the cached menu of a restaurant.
func (r *Resolver) InvalidateMenu(ctx context.Context, restaurantExternalID string) {
	r.cache.Delete(ctx, cache.CategoryHybridMenu.Key(restaurantExternalID))
}

// InvalidateBlogPost drops a cached post and every featured list.
func (r *Resolver) InvalidateBlogPost(ctx context.Context, slugs ...string) error {
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, blogSlugKey(s))
		}
	}
	r.cache.Delete(ctx, keys...)
	_, err := r.cache.DeletePattern(ctx, cache.CategoryBlogPost.Key("featured", "*"))
	return err
}

// InvalidatePromotions drops every cached promotion list.
func (r *Resolver) InvalidatePromotions(ctx context.Context) error {
	_, err := r.cache.InvalidateCategory(ctx, cache.CategoryPromotion)
	return err
}

// InvalidateCategory purges a whole cache category.
func (r *Resolver) InvalidateCategory(ctx context.Context, c cache.Category) (cache.PurgeResult, error) {
	return r.cache.InvalidateCategory(ctx, c)
}
