package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/contentstore"
)

func TestUpdateBuilder_OnlySetFields(t *testing.T) {
	patch := hybridcontent.RestaurantContentPatch{
		Story:       hybridcontent.Some("Family-run since 1972"),
		IsPublished: hybridcontent.Some(true),
	}

	query, args := restaurantContentUpdate(42, patch)

	assert.True(t, strings.HasPrefix(query,
		"UPDATE restaurant_contents SET story = $1, is_published = $2, updated_at = NOW() WHERE id = $3 RETURNING "))
	assert.Equal(t, []any{"Family-run since 1972", true, int64(42)}, args)
	assert.NotContains(t, query, "slug =")
	assert.NotContains(t, query, "awards =")
}

func TestUpdateBuilder_EmptyPatchTouchesTimestamp(t *testing.T) {
	query, args := menuCategoryUpdate(7, hybridcontent.MenuCategoryPatch{})

	assert.True(t, strings.HasPrefix(query, "UPDATE menu_categories SET updated_at = NOW() WHERE id = $1 RETURNING "))
	assert.Equal(t, []any{int64(7)}, args)
}

func TestUpdateBuilder_StructuredColumns(t *testing.T) {
	patch := hybridcontent.MenuItemPatch{
		Allergens:       hybridcontent.Some[[]string](nil),
		NutritionalInfo: hybridcontent.Some(hybridcontent.NutritionalInfo{Calories: 420}),
	}

	query, args := menuItemUpdate(3, patch)
	require.Len(t, args, 3)
	assert.Contains(t, query, "allergens = $1, nutritional_info = $2, updated_at = NOW() WHERE id = $3")

	allergens, err := args[0].(contentstore.JSON[[]string]).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", allergens, "a cleared list is stored as an empty array")

	nutrition, err := args[1].(contentstore.JSON[hybridcontent.NutritionalInfo]).Value()
	require.NoError(t, err)
	assert.Equal(t, `{"calories":420}`, nutrition)
}

func TestUpdateBuilder_NullableColumns(t *testing.T) {
	limit := 100
	patch := hybridcontent.PromotionPatch{
		PromoCode:       hybridcontent.Some(""),
		TotalUsageLimit: hybridcontent.Some(&limit),
		MaxUsagePerUser: hybridcontent.Some[*int](nil),
	}

	query, args := promotionUpdate(9, patch)

	assert.Contains(t, query, "max_usage_per_user = $1")
	assert.Contains(t, query, "total_usage_limit = $2")
	assert.Contains(t, query, "promo_code = NULLIF($3, '')")
	assert.Equal(t, (*int)(nil), args[0])
	assert.Equal(t, &limit, args[1])
	assert.Equal(t, "", args[2])
	assert.Equal(t, int64(9), args[3])
}

func TestUpdateBuilder_PublishedAt(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	query, args := blogPostUpdate(1, hybridcontent.BlogPostPatch{PublishedAt: hybridcontent.Some(&at)})
	assert.Contains(t, query, "published_at = $1")
	assert.Equal(t, &at, args[0])

	query, args = blogPostUpdate(1, hybridcontent.BlogPostPatch{PublishedAt: hybridcontent.Some[*time.Time](nil)})
	assert.Contains(t, query, "published_at = $1")
	assert.Equal(t, (*time.Time)(nil), args[0])
}
