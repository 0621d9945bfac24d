package cms_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/cms"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/repo/memory"
)

func setupServiceTest(t *testing.T) *cms.Service {
	t.Helper()
	return cms.NewService(memory.New())
}

func TestService_RestaurantContentRoundTrip(t *testing.T) {
	svc := setupServiceTest(t)
	ctx := context.Background()

	input := cms.RestaurantContentAttributes{
		FirebaseID:      "r1",
		Slug:            "joes-diner",
		Story:           "Est. 1990",
		GalleryImages:   []hybridcontent.GalleryImage{{URL: "https://img/joes.jpg"}},
		Awards:          []hybridcontent.Award{},
		Certifications:  []hybridcontent.Certification{},
		SpecialFeatures: []string{"late night"},
		SEO:             cms.SEO{Title: "Joe's Diner", Keywords: []string{"diner"}},
		IsPublished:     true,
	}

	created, err := svc.CreateRestaurantContent(ctx, input)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.GetRestaurantContentByExternalID(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)

	normalized := got.Attributes
	normalized.CreatedAt, normalized.UpdatedAt = time.Time{}, time.Time{}
	assert.Equal(t, input, normalized)
}

func TestService_DocumentShape(t *testing.T) {
	svc := setupServiceTest(t)
	ctx := context.Background()

	doc, err := svc.CreateBlogPost(ctx, cms.BlogPostAttributes{
		Title:  "Sourdough secrets",
		Slug:   "sourdough-secrets",
		Author: cms.Author{Name: "Ana", AvatarURL: "https://img/ana.png"},
	})
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var shape map[string]any
	require.NoError(t, json.Unmarshal(data, &shape))
	assert.Contains(t, shape, "id")
	attrs, ok := shape["attributes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sourdough-secrets", attrs["slug"])
	assert.Equal(t, map[string]any{"name": "Ana", "avatarUrl": "https://img/ana.png"}, attrs["author"])
	assert.NotContains(t, attrs, "author_name", "storage column names never leak")
}

func TestService_MenuItemDietaryGroup(t *testing.T) {
	svc := setupServiceTest(t)
	ctx := context.Background()

	doc, err := svc.CreateMenuItem(ctx, cms.MenuItemAttributes{
		FirebaseID:           "item-1",
		RestaurantFirebaseID: "r1",
		Name:                 "Falafel wrap",
		Dietary:              cms.Dietary{Vegetarian: true, Vegan: true},
		IsPublished:          true,
	})
	require.NoError(t, err)
	assert.True(t, doc.Attributes.Dietary.Vegan)
	assert.False(t, doc.Attributes.Dietary.GlutenFree)

	updated, err := svc.UpdateMenuItem(ctx, doc.ID, hybridcontent.MenuItemPatch{IsGlutenFree: hybridcontent.Some(true)})
	require.NoError(t, err)
	assert.Equal(t, cms.Dietary{Vegetarian: true, Vegan: true, GlutenFree: true}, updated.Attributes.Dietary)
}

func TestService_PromotionGroups(t *testing.T) {
	svc := setupServiceTest(t)
	ctx := context.Background()

	limit := 10
	now := time.Now()
	doc, err := svc.CreatePromotion(ctx, cms.PromotionAttributes{
		Title:    "Lunch deal",
		Discount: cms.Discount{Type: hybridcontent.DiscountTypePercentage, Value: 15},
		Validity: cms.Validity{From: now.Add(-time.Hour), Until: now.Add(time.Hour), IsActive: true},
		Targets:  cms.Targets{Restaurants: []string{"r1"}},
		Usage:    cms.Usage{TotalLimit: &limit, Count: 99},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Attributes.Usage.Count, "usage count is owned by the store")

	redeemed, err := svc.RedeemPromotion(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, redeemed.Attributes.Usage.Count)

	forR1, err := svc.ListPromotionsByRestaurant(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, forR1, 1)

	forR2, err := svc.ListPromotionsByRestaurant(ctx, "r2")
	require.NoError(t, err)
	assert.Empty(t, forR2)
}

func TestService_MissingIsNil(t *testing.T) {
	svc := setupServiceTest(t)
	ctx := context.Background()

	doc, err := svc.GetBlogPostBySlug(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, doc)

	deleted, err := svc.DeletePromotion(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, deleted)
}
