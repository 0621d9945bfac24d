package resolver_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/cache"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/cms"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/contentstore"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/operational"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/repo/memory"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/resolver"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type storeMock struct {
	mock.Mock
}

func (m *storeMock) GetByID(ctx context.Context, collection, id string) (operational.Record, error) {
	args := m.Called(ctx, collection, id)
	rec, _ := args.Get(0).(operational.Record)
	return rec, args.Error(1)
}

func (m *storeMock) Query(ctx context.Context, collection string, filters []operational.Filter, limit int) ([]operational.Record, error) {
	args := m.Called(ctx, collection, filters, limit)
	recs, _ := args.Get(0).([]operational.Record)
	return recs, args.Error(1)
}

type contentMock struct {
	mock.Mock
}

func (m *contentMock) GetRestaurantContentByExternalID(ctx context.Context, externalID string) (*cms.Document[cms.RestaurantContentAttributes], error) {
	args := m.Called(ctx, externalID)
	doc, _ := args.Get(0).(*cms.Document[cms.RestaurantContentAttributes])
	return doc, args.Error(1)
}

func (m *contentMock) ListMenuCategoriesByRestaurant(ctx context.Context, id string) ([]*cms.Document[cms.MenuCategoryAttributes], error) {
	args := m.Called(ctx, id)
	docs, _ := args.Get(0).([]*cms.Document[cms.MenuCategoryAttributes])
	return docs, args.Error(1)
}

func (m *contentMock) ListMenuItemsByRestaurant(ctx context.Context, id string) ([]*cms.Document[cms.MenuItemAttributes], error) {
	args := m.Called(ctx, id)
	docs, _ := args.Get(0).([]*cms.Document[cms.MenuItemAttributes])
	return docs, args.Error(1)
}

func (m *contentMock) GetBlogPostBySlug(ctx context.Context, slug string) (*cms.Document[cms.BlogPostAttributes], error) {
	args := m.Called(ctx, slug)
	doc, _ := args.Get(0).(*cms.Document[cms.BlogPostAttributes])
	return doc, args.Error(1)
}

func (m *contentMock) ListFeaturedBlogPosts(ctx context.Context, limit int) ([]*cms.Document[cms.BlogPostAttributes], error) {
	args := m.Called(ctx, limit)
	docs, _ := args.Get(0).([]*cms.Document[cms.BlogPostAttributes])
	return docs, args.Error(1)
}

func (m *contentMock) ListActivePromotions(ctx context.Context) ([]*cms.Document[cms.PromotionAttributes], error) {
	args := m.Called(ctx)
	docs, _ := args.Get(0).([]*cms.Document[cms.PromotionAttributes])
	return docs, args.Error(1)
}

func (m *contentMock) ListPromotionsByRestaurant(ctx context.Context, id string) ([]*cms.Document[cms.PromotionAttributes], error) {
	args := m.Called(ctx, id)
	docs, _ := args.Get(0).([]*cms.Document[cms.PromotionAttributes])
	return docs, args.Error(1)
}

func joesDiner() operational.Record {
	return operational.Record{"id": "r1", "name": "Joe's Diner", "rating": 4.5}
}

func joesContent() *cms.Document[cms.RestaurantContentAttributes] {
	return &cms.Document[cms.RestaurantContentAttributes]{
		ID:         1,
		Attributes: cms.RestaurantContentAttributes{FirebaseID: "r1", Slug: "joes-diner", Story: "Est. 1990"},
	}
}

func setupMocked(t *testing.T) (*resolver.Resolver, *storeMock, *contentMock, *cache.Manager, *clock) {
	t.Helper()
	clk := newClock()
	ops := &storeMock{}
	content := &contentMock{}
	cm := cache.New(cache.WithClock(clk.Now))
	t.Cleanup(func() {
		ops.AssertExpectations(t)
		content.AssertExpectations(t)
	})
	return resolver.New(ops, content, cm, resolver.WithClock(clk.Now)), ops, content, cm, clk
}

func TestGetRestaurantComplete_MergesAndCaches(t *testing.T) {
	r, ops, content, _, _ := setupMocked(t)
	ctx := context.Background()
	ops.On("GetByID", mock.Anything, operational.CollectionRestaurants, "r1").Return(joesDiner(), nil).Once()
	content.On("GetRestaurantContentByExternalID", mock.Anything, "r1").Return(joesContent(), nil).Once()

	view, err := r.GetRestaurantComplete(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.True(t, view.HasRichContent)
	assert.Equal(t, "Joe's Diner", view.Operational.String("name"))
	require.NotNil(t, view.Content)
	assert.Equal(t, "Est. 1990", view.Content.Story)
	assert.Equal(t, resolver.SourceHybrid, view.Source)

	cached, err := r.GetRestaurantComplete(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.True(t, cached.HasRichContent)
	assert.Equal(t, "Joe's Diner", cached.Operational.String("name"))
	assert.Equal(t, "Est. 1990", cached.Content.Story)

	ops.AssertNumberOfCalls(t, "GetByID", 1)
	content.AssertNumberOfCalls(t, "GetRestaurantContentByExternalID", 1)
}

func TestGetRestaurantComplete_JSONShape(t *testing.T) {
	r, ops, content, _, _ := setupMocked(t)
	ops.On("GetByID", mock.Anything, operational.CollectionRestaurants, "r1").Return(joesDiner(), nil)
	content.On("GetRestaurantContentByExternalID", mock.Anything, "r1").Return(joesContent(), nil)

	view, err := r.GetRestaurantComplete(context.Background(), "r1")
	require.NoError(t, err)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "r1", out["id"])
	assert.Equal(t, "Joe's Diner", out["name"])
	assert.Equal(t, true, out["hasRichContent"])
	assert.Equal(t, "hybrid", out["source"])
	assert.Equal(t, "Est. 1990", out["content"].(map[string]any)["story"])
	assert.Contains(t, out, "lastUpdated")
}

func TestGetRestaurantComplete_ExpiresAfterTTL(t *testing.T) {
	r, ops, content, _, clk := setupMocked(t)
	ctx := context.Background()
	ops.On("GetByID", mock.Anything, operational.CollectionRestaurants, "r1").Return(joesDiner(), nil).Twice()
	content.On("GetRestaurantContentByExternalID", mock.Anything, "r1").Return(joesContent(), nil).Twice()

	_, err := r.GetRestaurantComplete(ctx, "r1")
	require.NoError(t, err)

	clk.Advance(899 * time.Second)
	_, err = r.GetRestaurantComplete(ctx, "r1")
	require.NoError(t, err)
	ops.AssertNumberOfCalls(t, "GetByID", 1)

	clk.Advance(2 * time.Second)
	_, err = r.GetRestaurantComplete(ctx, "r1")
	require.NoError(t, err)
	ops.AssertNumberOfCalls(t, "GetByID", 2)
}

func TestGetRestaurantComplete_NoContent(t *testing.T) {
	r, ops, content, _, _ := setupMocked(t)
	ops.On("GetByID", mock.Anything, operational.CollectionRestaurants, "r1").Return(joesDiner(), nil)
	content.On("GetRestaurantContentByExternalID", mock.Anything, "r1").Return(nil, nil)

	view, err := r.GetRestaurantComplete(context.Background(), "r1")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.False(t, view.HasRichContent)
	assert.Nil(t, view.Content)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"content"`)
}

func TestGetRestaurantComplete_ContentFailureDegrades(t *testing.T) {
	r, ops, content, _, _ := setupMocked(t)
	ops.On("GetByID", mock.Anything, operational.CollectionRestaurants, "r1").Return(joesDiner(), nil)
	content.On("GetRestaurantContentByExternalID", mock.Anything, "r1").Return(nil, errors.New("connection refused"))

	view, err := r.GetRestaurantComplete(context.Background(), "r1")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.False(t, view.HasRichContent)
	assert.Equal(t, "Joe's Diner", view.Operational.String("name"))
}

func TestGetRestaurantComplete_ContentTimeoutPropagates(t *testing.T) {
	r, ops, content, cm, _ := setupMocked(t)
	ops.On("GetByID", mock.Anything, operational.CollectionRestaurants, "r1").Return(joesDiner(), nil)
	content.On("GetRestaurantContentByExternalID", mock.Anything, "r1").
		Return(nil, &contentstore.QueryError{Op: "acquire", Err: contentstore.ErrPoolTimeout})

	view, err := r.GetRestaurantComplete(context.Background(), "r1")
	require.Error(t, err)
	assert.Nil(t, view)
	assert.ErrorIs(t, err, contentstore.ErrPoolTimeout)
	assert.Zero(t, cm.Stats().Sets)
}

func TestGetRestaurantComplete_OperationalTypesMatchCache(t *testing.T) {
	r, ops, content, _, _ := setupMocked(t)
	rec := operational.Record{"id": "r1", "name": "Joe's Diner", "seats": 40, "address": map[string]any{"zip": 10001}}
	ops.On("GetByID", mock.Anything, operational.CollectionRestaurants, "r1").Return(rec, nil).Once()
	content.On("GetRestaurantContentByExternalID", mock.Anything, "r1").Return(nil, nil).Once()
	ctx := context.Background()

	fresh, err := r.GetRestaurantComplete(ctx, "r1")
	require.NoError(t, err)
	cached, err := r.GetRestaurantComplete(ctx, "r1")
	require.NoError(t, err)

	assert.Equal(t, float64(40), fresh.Operational["seats"])
	assert.Equal(t, fresh.Operational, cached.Operational)

	fresh.Operational["address"].(map[string]any)["zip"] = "changed"
	assert.Equal(t, 10001, rec["address"].(map[string]any)["zip"], "nested values are copied")
}

func TestGetRestaurantComplete_MissingIsNotCached(t *testing.T) {
	r, ops, _, cm, _ := setupMocked(t)
	ctx := context.Background()
	ops.On("GetByID", mock.Anything, operational.CollectionRestaurants, "missing").Return(nil, nil).Twice()

	view, err := r.GetRestaurantComplete(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, view)
	assert.Zero(t, cm.Stats().Sets)
	assert.Zero(t, cm.Stats().LocalEntries)

	view, err = r.GetRestaurantComplete(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestGetRestaurantComplete_AdapterErrorPropagates(t *testing.T) {
	r, ops, _, cm, _ := setupMocked(t)
	failure := &operational.AdapterError{Collection: operational.CollectionRestaurants, Op: "get", ID: "r1", Err: context.DeadlineExceeded}
	ops.On("GetByID", mock.Anything, operational.CollectionRestaurants, "r1").Return(nil, failure)

	view, err := r.GetRestaurantComplete(context.Background(), "r1")
	require.Error(t, err)
	assert.Nil(t, view)
	assert.True(t, operational.IsAdapterError(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, cm.Stats().Sets)
}

func TestGetRestaurantComplete_DoesNotShareOperationalRecord(t *testing.T) {
	r, ops, content, _, _ := setupMocked(t)
	rec := joesDiner()
	ops.On("GetByID", mock.Anything, operational.CollectionRestaurants, "r1").Return(rec, nil)
	content.On("GetRestaurantContentByExternalID", mock.Anything, "r1").Return(nil, nil)

	view, err := r.GetRestaurantComplete(context.Background(), "r1")
	require.NoError(t, err)

	view.Operational["name"] = "changed"
	assert.Equal(t, "Joe's Diner", rec.String("name"))
	assert.NotContains(t, rec, "content")
}

func TestInvalidateRestaurant(t *testing.T) {
	r, ops, content, _, _ := setupMocked(t)
	ctx := context.Background()
	ops.On("GetByID", mock.Anything, operational.CollectionRestaurants, "r1").Return(joesDiner(), nil).Twice()
	content.On("GetRestaurantContentByExternalID", mock.Anything, "r1").Return(joesContent(), nil).Twice()

	_, err := r.GetRestaurantComplete(ctx, "r1")
	require.NoError(t, err)
	require.NoError(t, r.InvalidateRestaurant(ctx, "r1"))
	_, err = r.GetRestaurantComplete(ctx, "r1")
	require.NoError(t, err)
}

func TestSearchRestaurantsWithContent(t *testing.T) {
	r, ops, content, _, _ := setupMocked(t)
	ctx := context.Background()
	filters := []operational.Filter{operational.Where("cuisine", operational.OpEqual, "diner")}
	ops.On("Query", mock.Anything, operational.CollectionRestaurants, filters, 20).Return([]operational.Record{
		{"id": "r1", "name": "Joe's Diner"},
		{"id": "r2", "name": "Mel's"},
		{"id": "r3", "name": "Flo's"},
	}, nil).Once()
	content.On("GetRestaurantContentByExternalID", mock.Anything, "r1").Return(joesContent(), nil).Once()
	content.On("GetRestaurantContentByExternalID", mock.Anything, "r2").Return(nil, errors.New("boom")).Once()
	content.On("GetRestaurantContentByExternalID", mock.Anything, "r3").Return(nil, nil).Once()

	got, err := r.SearchRestaurantsWithContent(ctx, resolver.SearchQuery{Filters: filters})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "r1", got[0].ID())
	assert.True(t, got[0].HasRichContent)
	assert.Equal(t, "Mel's", got[1].Operational.String("name"))
	assert.False(t, got[1].HasRichContent)
	assert.False(t, got[2].HasRichContent)

	again, err := r.SearchRestaurantsWithContent(ctx, resolver.SearchQuery{Filters: filters})
	require.NoError(t, err)
	require.Len(t, again, 3)
	assert.Equal(t, "Est. 1990", again[0].Content.Story)
}

func TestSearchRestaurantsWithContent_ContentTimeout(t *testing.T) {
	r, ops, content, cm, _ := setupMocked(t)
	ops.On("Query", mock.Anything, operational.CollectionRestaurants, mock.Anything, 20).
		Return([]operational.Record{joesDiner()}, nil)
	content.On("GetRestaurantContentByExternalID", mock.Anything, "r1").
		Return(nil, &contentstore.QueryError{Op: "acquire", Err: contentstore.ErrPoolTimeout})

	out, err := r.SearchRestaurantsWithContent(context.Background(), resolver.SearchQuery{})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, contentstore.ErrPoolTimeout)
	assert.Zero(t, cm.Stats().Sets)
}

func TestSearchRestaurantsWithContent_EmptyNotCached(t *testing.T) {
	r, ops, _, _, _ := setupMocked(t)
	ctx := context.Background()
	ops.On("Query", mock.Anything, operational.CollectionRestaurants, mock.Anything, 5).Return([]operational.Record{}, nil).Twice()

	for range 2 {
		got, err := r.SearchRestaurantsWithContent(ctx, resolver.SearchQuery{Limit: 5})
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestSearchRestaurantsWithContent_AdapterError(t *testing.T) {
	r, ops, _, _, _ := setupMocked(t)
	ops.On("Query", mock.Anything, operational.CollectionRestaurants, mock.Anything, mock.Anything).
		Return(nil, &operational.AdapterError{Collection: operational.CollectionRestaurants, Op: "query", Err: errors.New("unavailable")})

	_, err := r.SearchRestaurantsWithContent(context.Background(), resolver.SearchQuery{})
	assert.True(t, operational.IsAdapterError(err))
}

// setupWired runs the resolver against the in-memory stores.
func setupWired(t *testing.T) (*resolver.Resolver, *operational.MemoryStore, *cms.Service, *clock) {
	t.Helper()
	clk := newClock()
	ops := operational.NewMemoryStore()
	svc := cms.NewService(memory.New(memory.WithClock(clk.Now)))
	cm := cache.New(cache.WithClock(clk.Now))
	return resolver.New(ops, svc, cm, resolver.WithClock(clk.Now)), ops, svc, clk
}

func TestJoesDinerScenario(t *testing.T) {
	r, ops, svc, _ := setupWired(t)
	ctx := context.Background()
	ops.Insert(operational.CollectionRestaurants, operational.Record{"id": "r1", "name": "Joe's Diner"})
	_, err := svc.CreateRestaurantContent(ctx, cms.RestaurantContentAttributes{FirebaseID: "r1", Slug: "joes-diner", Story: "Est. 1990"})
	require.NoError(t, err)

	view, err := r.GetRestaurantComplete(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, "Joe's Diner", view.Operational.String("name"))
	assert.True(t, view.HasRichContent)
	assert.Equal(t, "Est. 1990", view.Content.Story)

	// Both stores lose the restaurant; the cached view still serves.
	ops.Remove(operational.CollectionRestaurants, "r1")
	doc, err := svc.GetRestaurantContentByExternalID(ctx, "r1")
	require.NoError(t, err)
	_, err = svc.DeleteRestaurantContent(ctx, doc.ID)
	require.NoError(t, err)

	cached, err := r.GetRestaurantComplete(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Est. 1990", cached.Content.Story)
}

func TestGetRestaurantComplete_WithoutContentRow(t *testing.T) {
	r, ops, _, _ := setupWired(t)
	ops.Insert(operational.CollectionRestaurants, operational.Record{"id": "r1", "name": "Joe's Diner"})

	view, err := r.GetRestaurantComplete(context.Background(), "r1")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.False(t, view.HasRichContent)
	assert.Nil(t, view.Content)
}

func TestGetMenuComplete(t *testing.T) {
	r, ops, svc, _ := setupWired(t)
	ctx := context.Background()

	ops.Insert(operational.CollectionRestaurants, operational.Record{"id": "r1", "name": "Joe's Diner"})
	ops.Insert(operational.CollectionMenuCategories, operational.Record{"id": "c1", "restaurantId": "r1", "name": "Mains", "sortOrder": 2})
	ops.Insert(operational.CollectionMenuCategories, operational.Record{"id": "c2", "restaurantId": "r1", "name": "Drinks", "sortOrder": 1})
	ops.Insert(operational.CollectionMenuCategories, operational.Record{"id": "c9", "restaurantId": "r2", "name": "Elsewhere"})
	ops.Insert(operational.CollectionMenuItems, operational.Record{"id": "i1", "restaurantId": "r1", "categoryId": "c1", "name": "Burger", "price": 11.5})
	ops.Insert(operational.CollectionMenuItems, operational.Record{"id": "i2", "restaurantId": "r1", "categoryId": "c2", "name": "Shake"})
	ops.Insert(operational.CollectionMenuItems, operational.Record{"id": "i3", "restaurantId": "r1", "categoryId": "gone", "name": "Special"})

	_, err := svc.CreateMenuCategory(ctx, cms.MenuCategoryAttributes{
		FirebaseID: "c1", RestaurantFirebaseID: "r1", Name: "Mains", SortOrder: 0, IsActive: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateMenuItem(ctx, cms.MenuItemAttributes{
		FirebaseID: "i1", CategoryFirebaseID: "c1", RestaurantFirebaseID: "r1", Name: "Burger",
		ChefNotes: "Smashed twice", IsPublished: true,
	})
	require.NoError(t, err)

	menu, err := r.GetMenuComplete(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, menu)
	assert.Equal(t, "r1", menu.RestaurantID)
	require.Len(t, menu.Sections, 2)

	mains := menu.Sections[0]
	assert.Equal(t, "c1", mains.Category.ID())
	assert.True(t, mains.Category.HasRichContent)
	require.Len(t, mains.Items, 1)
	assert.Equal(t, "Smashed twice", mains.Items[0].Content.ChefNotes)

	drinks := menu.Sections[1]
	assert.Equal(t, "c2", drinks.Category.ID())
	assert.False(t, drinks.Category.HasRichContent)
	require.Len(t, drinks.Items, 1)
	assert.False(t, drinks.Items[0].HasRichContent)

	require.Len(t, menu.Uncategorized, 1)
	assert.Equal(t, "i3", menu.Uncategorized[0].ID())

	ops.Insert(operational.CollectionMenuItems, operational.Record{"id": "i4", "restaurantId": "r1", "categoryId": "c2", "name": "Soda"})
	cached, err := r.GetMenuComplete(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, cached.Sections[1].Items, 1)

	r.InvalidateMenu(ctx, "r1")
	fresh, err := r.GetMenuComplete(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, fresh.Sections[1].Items, 2)
}

func TestGetMenuComplete_UnpublishedItemContentIsNotMerged(t *testing.T) {
	r, ops, svc, _ := setupWired(t)
	ctx := context.Background()

	ops.Insert(operational.CollectionRestaurants, operational.Record{"id": "r1", "name": "Joe's Diner"})
	ops.Insert(operational.CollectionMenuCategories, operational.Record{"id": "c1", "restaurantId": "r1", "name": "Mains"})
	ops.Insert(operational.CollectionMenuItems, operational.Record{"id": "i1", "restaurantId": "r1", "categoryId": "c1", "name": "Burger"})

	_, err := svc.CreateMenuItem(ctx, cms.MenuItemAttributes{
		FirebaseID: "i1", CategoryFirebaseID: "c1", RestaurantFirebaseID: "r1", Name: "Burger",
		ChefNotes: "Draft notes", IsPublished: false,
	})
	require.NoError(t, err)

	menu, err := r.GetMenuComplete(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, menu.Sections, 1)
	require.Len(t, menu.Sections[0].Items, 1)
	assert.False(t, menu.Sections[0].Items[0].HasRichContent)
}

func TestGetMenuComplete_ContentTimeout(t *testing.T) {
	r, ops, content, _, _ := setupMocked(t)
	ops.On("GetByID", mock.Anything, operational.CollectionRestaurants, "r1").Return(joesDiner(), nil)
	ops.On("Query", mock.Anything, operational.CollectionMenuCategories, mock.Anything, 0).Return([]operational.Record{}, nil).Maybe()
	ops.On("Query", mock.Anything, operational.CollectionMenuItems, mock.Anything, 0).Return([]operational.Record{}, nil).Maybe()
	content.On("ListMenuCategoriesByRestaurant", mock.Anything, "r1").Return(nil, nil).Maybe()
	content.On("ListMenuItemsByRestaurant", mock.Anything, "r1").
		Return(nil, &contentstore.QueryError{Op: "acquire", Err: contentstore.ErrPoolTimeout})

	menu, err := r.GetMenuComplete(context.Background(), "r1")
	require.Error(t, err)
	assert.Nil(t, menu)
	assert.ErrorIs(t, err, contentstore.ErrPoolTimeout)
}

func TestGetMenuComplete_MissingRestaurant(t *testing.T) {
	r, _, _, _ := setupWired(t)

	menu, err := r.GetMenuComplete(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, menu)
}

func TestGetMenuComplete_AdapterError(t *testing.T) {
	r, ops, content, _, _ := setupMocked(t)
	ops.On("GetByID", mock.Anything, operational.CollectionRestaurants, "r1").Return(joesDiner(), nil)
	ops.On("Query", mock.Anything, operational.CollectionMenuCategories, mock.Anything, 0).
		Return(nil, &operational.AdapterError{Collection: operational.CollectionMenuCategories, Op: "query", Err: errors.New("down")})
	ops.On("Query", mock.Anything, operational.CollectionMenuItems, mock.Anything, 0).Return([]operational.Record{}, nil).Maybe()
	content.On("ListMenuCategoriesByRestaurant", mock.Anything, "r1").Return(nil, nil).Maybe()
	content.On("ListMenuItemsByRestaurant", mock.Anything, "r1").Return(nil, nil).Maybe()

	menu, err := r.GetMenuComplete(context.Background(), "r1")
	require.Error(t, err)
	assert.Nil(t, menu)
	assert.True(t, operational.IsAdapterError(err))
}

func TestActivePromotions_RecheckedAgainstClock(t *testing.T) {
	r, _, svc, clk := setupWired(t)
	ctx := context.Background()
	now := clk.Now()

	_, err := svc.CreatePromotion(ctx, cms.PromotionAttributes{
		Title:    "Lunch deal",
		Validity: cms.Validity{From: now.Add(-time.Hour), Until: now.Add(10 * time.Minute), IsActive: true},
	})
	require.NoError(t, err)
	_, err = svc.CreatePromotion(ctx, cms.PromotionAttributes{
		Title:    "Last week",
		Validity: cms.Validity{From: now.Add(-7 * 24 * time.Hour), Until: now.Add(-time.Hour), IsActive: true},
	})
	require.NoError(t, err)

	active, err := r.ActivePromotions(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Lunch deal", active[0].Attributes.Title)

	clk.Advance(11 * time.Minute)
	active, err = r.ActivePromotions(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRestaurantPromotions(t *testing.T) {
	r, _, svc, clk := setupWired(t)
	ctx := context.Background()
	now := clk.Now()
	window := cms.Validity{From: now.Add(-time.Hour), Until: now.Add(time.Hour), IsActive: true}

	_, err := svc.CreatePromotion(ctx, cms.PromotionAttributes{Title: "Everywhere", Validity: window})
	require.NoError(t, err)
	_, err = svc.CreatePromotion(ctx, cms.PromotionAttributes{Title: "Only r2", Validity: window, Targets: cms.Targets{Restaurants: []string{"r2"}}})
	require.NoError(t, err)

	got, err := r.RestaurantPromotions(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Everywhere", got[0].Attributes.Title)

	got, err = r.RestaurantPromotions(ctx, "r2")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestBlogPostBySlug_CachedUntilInvalidated(t *testing.T) {
	r, _, svc, _ := setupWired(t)
	ctx := context.Background()

	doc, err := svc.CreateBlogPost(ctx, cms.BlogPostAttributes{Title: "Sourdough secrets", Slug: "sourdough", IsPublished: true})
	require.NoError(t, err)

	got, err := r.BlogPostBySlug(ctx, "sourdough")
	require.NoError(t, err)
	require.NotNil(t, got)

	_, err = svc.UpdateBlogPost(ctx, doc.ID, hybridcontent.BlogPostPatch{Title: hybridcontent.Some("Sourdough, revisited")})
	require.NoError(t, err)

	got, err = r.BlogPostBySlug(ctx, "sourdough")
	require.NoError(t, err)
	assert.Equal(t, "Sourdough secrets", got.Attributes.Title)

	require.NoError(t, r.InvalidateBlogPost(ctx, "sourdough"))
	got, err = r.BlogPostBySlug(ctx, "sourdough")
	require.NoError(t, err)
	assert.Equal(t, "Sourdough, revisited", got.Attributes.Title)

	missing, err := r.BlogPostBySlug(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestContentReads_ErrorsPropagate(t *testing.T) {
	r, _, content, cm, _ := setupMocked(t)
	content.On("ListFeaturedBlogPosts", mock.Anything, 3).Return(nil, errors.New("query failed"))

	_, err := r.FeaturedBlogPosts(context.Background(), 3)
	assert.Error(t, err)
	assert.Zero(t, cm.Stats().Sets)
}

func TestFeaturedBlogPosts_Cached(t *testing.T) {
	r, _, content, _, _ := setupMocked(t)
	ctx := context.Background()
	posts := []*cms.Document[cms.BlogPostAttributes]{{ID: 1, Attributes: cms.BlogPostAttributes{Title: "A", Slug: "a", IsFeatured: true}}}
	content.On("ListFeaturedBlogPosts", mock.Anything, 3).Return(posts, nil).Once()

	for range 2 {
		got, err := r.FeaturedBlogPosts(ctx, 3)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].Attributes.Slug)
	}
	require.NoError(t, r.InvalidateBlogPost(ctx))
}

func TestView_UnmarshalRoundTrip(t *testing.T) {
	in := resolver.HybridRestaurant{
		Operational:    operational.Record{"id": "r1", "name": "Joe's Diner", "source": "firestore"},
		Content:        &cms.RestaurantContentAttributes{FirebaseID: "r1", Story: "Est. 1990"},
		HasRichContent: true,
		Source:         resolver.SourceHybrid,
		LastUpdated:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out resolver.HybridRestaurant
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, operational.Record{"id": "r1", "name": "Joe's Diner"}, out.Operational)
	assert.Equal(t, resolver.SourceHybrid, out.Source)
	assert.Equal(t, "Est. 1990", out.Content.Story)
	assert.True(t, out.LastUpdated.Equal(in.LastUpdated))
}
