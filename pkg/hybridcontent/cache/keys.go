package cache

import (
	"strings"
	"time"
)

// Category is a cache key namespace. Every key of a category starts with its
// prefix so the whole category can be purged with one pattern.
type Category string

const (
	CategoryRestaurant   Category = "restaurant"
	CategoryMenuCategory Category = "menu-category"
	CategoryMenuItem     Category = "menu-item"
	CategoryBlogPost     Category = "blog-post"
	CategoryPromotion    Category = "promotion"
	CategoryStaticPage   Category = "static-page"
	CategoryBanner       Category = "banner"
	CategorySearch       Category = "search"

	CategoryHybridRestaurant Category = "hybrid:restaurant"
	CategoryHybridMenu       Category = "hybrid:menu"
)

// Categories lists every known category.
var Categories = []Category{
	CategoryRestaurant,
	CategoryMenuCategory,
	CategoryMenuItem,
	CategoryBlogPost,
	CategoryPromotion,
	CategoryStaticPage,
	CategoryBanner,
	CategorySearch,
	CategoryHybridRestaurant,
	CategoryHybridMenu,
}

var ttls = map[Category]time.Duration{
	CategoryRestaurant:       3600 * time.Second,
	CategoryMenuCategory:     1800 * time.Second,
	CategoryMenuItem:         1800 * time.Second,
	CategoryBlogPost:         7200 * time.Second,
	CategoryPromotion:        900 * time.Second,
	CategoryStaticPage:       86400 * time.Second,
	CategoryBanner:           3600 * time.Second,
	CategorySearch:           900 * time.Second,
	CategoryHybridRestaurant: 900 * time.Second,
	CategoryHybridMenu:       1800 * time.Second,
}

// DefaultTTL applies to keys outside any known category.
const DefaultTTL = 900 * time.Second

// TTL returns the fixed time-to-live for entries of c.
func (c Category) TTL() time.Duration {
	if ttl, ok := ttls[c]; ok {
		return ttl
	}
	return DefaultTTL
}

func (c Category) Prefix() string {
	return string(c) + ":"
}

// Key joins parts under the category prefix.
func (c Category) Key(parts ...string) string {
	return c.Prefix() + strings.Join(parts, ":")
}

// Pattern matches every key of the category.
func (c Category) Pattern() string {
	return c.Prefix() + "*"
}

// ParseCategory resolves a category by name.
func ParseCategory(name string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}
