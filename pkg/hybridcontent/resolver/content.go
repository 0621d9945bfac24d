package resolver

import (
	"context"
	"strconv"
	"time"

	"github.com/tendant/hybrid-content/pkg/hybridcontent/cache"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/cms"
)

type (
	restaurantDoc = *cms.Document[cms.RestaurantContentAttributes]
	blogPostDoc   = *cms.Document[cms.BlogPostAttributes]
	promotionDoc  = *cms.Document[cms.PromotionAttributes]
)

// readThrough serves key from the cache or calls fetch and caches what it
// found. Content store errors are returned and nothing is cached.
func readThrough[T any](ctx context.Context, r *Resolver, key string, ttl time.Duration, fetch func(context.Context) (T, bool, error)) (T, error) {
	if v, ok := cache.Get[T](ctx, r.cache, key); ok {
		return v, nil
	}
	v, ok, err := fetch(ctx)
	if err != nil || !ok {
		return v, err
	}
	r.store(ctx, key, v, ttl)
	return v, nil
}

func found[T any](v *T, err error) (*T, bool, error) {
	return v, v != nil, err
}

func list[T any](v []T, err error) ([]T, bool, error) {
	return v, err == nil, err
}

// RestaurantContent returns the content of a restaurant, or nil.
func (r *Resolver) RestaurantContent(ctx context.Context, externalID string) (restaurantDoc, error) {
	return readThrough(ctx, r, cache.CategoryRestaurant.Key(externalID), cache.CategoryRestaurant.TTL(),
		func(ctx context.Context) (restaurantDoc, bool, error) {
			return found(r.content.GetRestaurantContentByExternalID(ctx, externalID))
		})
}

func blogSlugKey(slug string) string {
	return cache.CategoryBlogPost.Key("slug", slug)
}

// BlogPostBySlug returns a blog post, or nil.
func (r *Resolver) BlogPostBySlug(ctx context.Context, slug string) (blogPostDoc, error) {
	return readThrough(ctx, r, blogSlugKey(slug), cache.CategoryBlogPost.TTL(),
		func(ctx context.Context) (blogPostDoc, bool, error) {
			return found(r.content.GetBlogPostBySlug(ctx, slug))
		})
}

// FeaturedBlogPosts returns up to limit featured posts.
func (r *Resolver) FeaturedBlogPosts(ctx context.Context, limit int) ([]blogPostDoc, error) {
	return readThrough(ctx, r, cache.CategoryBlogPost.Key("featured", strconv.Itoa(limit)), cache.CategoryBlogPost.TTL(),
		func(ctx context.Context) ([]blogPostDoc, bool, error) {
			return list(r.content.ListFeaturedBlogPosts(ctx, limit))
		})
}

// ActivePromotions returns the promotions redeemable now. Cached lists are
// re-checked against the clock so a promotion never outlives its window.
func (r *Resolver) ActivePromotions(ctx context.Context) ([]promotionDoc, error) {
	docs, err := readThrough(ctx, r, cache.CategoryPromotion.Key("active"), cache.CategoryPromotion.TTL(),
		func(ctx context.Context) ([]promotionDoc, bool, error) {
			return list(r.content.ListActivePromotions(ctx))
		})
	return r.stillActive(docs), err
}

// RestaurantPromotions returns the active promotions that apply to a
// restaurant.
func (r *Resolver) RestaurantPromotions(ctx context.Context, restaurantExternalID string) ([]promotionDoc, error) {
	docs, err := readThrough(ctx, r, cache.CategoryPromotion.Key("restaurant", restaurantExternalID), cache.CategoryPromotion.TTL(),
		func(ctx context.Context) ([]promotionDoc, bool, error) {
			return list(r.content.ListPromotionsByRestaurant(ctx, restaurantExternalID))
		})
	return r.stillActive(docs), err
}

func (r *Resolver) stillActive(docs []promotionDoc) []promotionDoc {
	if docs == nil {
		return nil
	}
	now := r.now()
	out := make([]promotionDoc, 0, len(docs))
	for _, d := range docs {
		v := d.Attributes.Validity
		if v.IsActive && !now.Before(v.From) && !now.After(v.Until) {
			out = append(out, d)
		}
	}
	return out
}
