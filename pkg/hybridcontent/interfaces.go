package hybridcontent

import (
	"context"
)

// Paging defaults shared by repository implementations.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ClampPage normalises a limit/offset pair.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Repository defines persistence for every content category.
//
// Lookups return (nil, nil) when no row matches. Update returns (nil, nil)
// when the id does not exist. Delete removes the row outright and returns
// the removed record so callers can invalidate cached views; it returns
// (nil, nil) when nothing was deleted.
type Repository interface {
	// Restaurant content
	CreateRestaurantContent(ctx context.Context, content *RestaurantContent) (*RestaurantContent, error)
	GetRestaurantContent(ctx context.Context, id int64) (*RestaurantContent, error)
	GetRestaurantContentByExternalID(ctx context.Context, externalID string) (*RestaurantContent, error)
	GetRestaurantContentBySlug(ctx context.Context, slug string) (*RestaurantContent, error)
	ListPublishedRestaurantContent(ctx context.Context, limit, offset int) ([]*RestaurantContent, error)
	UpdateRestaurantContent(ctx context.Context, id int64, patch RestaurantContentPatch) (*RestaurantContent, error)
	DeleteRestaurantContent(ctx context.Context, id int64) (*RestaurantContent, error)

	// Menu categories
	CreateMenuCategory(ctx context.Context, category *MenuCategory) (*MenuCategory, error)
	GetMenuCategory(ctx context.Context, id int64) (*MenuCategory, error)
	GetMenuCategoryByExternalID(ctx context.Context, externalID string) (*MenuCategory, error)
	ListMenuCategoriesByRestaurant(ctx context.Context, restaurantExternalID string) ([]*MenuCategory, error)
	UpdateMenuCategory(ctx context.Context, id int64, patch MenuCategoryPatch) (*MenuCategory, error)
	DeleteMenuCategory(ctx context.Context, id int64) (*MenuCategory, error)

	// Menu items
	CreateMenuItem(ctx context.Context, item *MenuItem) (*MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (*MenuItem, error)
	GetMenuItemByExternalID(ctx context.Context, externalID string) (*MenuItem, error)
	ListMenuItemsByCategory(ctx context.Context, categoryExternalID string) ([]*MenuItem, error)
	ListMenuItemsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int64, patch MenuItemPatch) (*MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int64) (*MenuItem, error)

	// Blog posts
	CreateBlogPost(ctx context.Context, post *BlogPost) (*BlogPost, error)
	GetBlogPost(ctx context.Context, id int64) (*BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*BlogPost, error)
	ListPublishedBlogPosts(ctx context.Context, limit, offset int) ([]*BlogPost, error)
	ListFeaturedBlogPosts(ctx context.Context, limit int) ([]*BlogPost, error)
	ListBlogPostsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*BlogPost, error)
	UpdateBlogPost(ctx context.Context, id int64, patch BlogPostPatch) (*BlogPost, error)
	DeleteBlogPost(ctx context.Context, id int64) (*BlogPost, error)

	// Promotions
	CreatePromotion(ctx context.Context, promotion *Promotion) (*Promotion, error)
	GetPromotion(ctx context.Context, id int64) (*Promotion, error)
	GetPromotionByCode(ctx context.Context, code string) (*Promotion, error)
	ListPromotions(ctx context.Context, limit, offset int) ([]*Promotion, error)
	ListActivePromotions(ctx context.Context) ([]*Promotion, error)
	ListPromotionsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*Promotion, error)
	UpdatePromotion(ctx context.Context, id int64, patch PromotionPatch) (*Promotion, error)
	IncrementPromotionUsage(ctx context.Context, id int64) (*Promotion, error)
	DeletePromotion(ctx context.Context, id int64) (*Promotion, error)
}
