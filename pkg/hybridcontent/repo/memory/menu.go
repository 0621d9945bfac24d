package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
)

// Menu category operations

func cloneMenuCategory(c *hybridcontent.MenuCategory) *hybridcontent.MenuCategory {
	out := *c
	return &out
}

func (r *Repository) CreateMenuCategory(ctx context.Context, category *hybridcontent.MenuCategory) (*hybridcontent.MenuCategory, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.menuCategories {
		if existing.ExternalID == category.ExternalID {
			return nil, duplicate("insert", "firebase_id "+category.ExternalID)
		}
	}

	row := cloneMenuCategory(category)
	row.ID, row.CreatedAt = r.allocate()
	row.UpdatedAt = row.CreatedAt
	r.menuCategories[row.ID] = row
	return cloneMenuCategory(row), nil
}

func (r *Repository) GetMenuCategory(ctx context.Context, id int64) (*hybridcontent.MenuCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.menuCategories[id]; ok {
		return cloneMenuCategory(c), nil
	}
	return nil, nil
}

func (r *Repository) GetMenuCategoryByExternalID(ctx context.Context, externalID string) (*hybridcontent.MenuCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.menuCategories {
		if c.ExternalID == externalID {
			return cloneMenuCategory(c), nil
		}
	}
	return nil, nil
}

func (r *Repository) ListMenuCategoriesByRestaurant(ctx context.Context, restaurantExternalID string) ([]*hybridcontent.MenuCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*hybridcontent.MenuCategory{}
	for _, c := range r.menuCategories {
		if c.RestaurantExternalID == restaurantExternalID && c.IsActive {
			out = append(out, cloneMenuCategory(c))
		}
	}
	slices.SortFunc(out, func(a, b *hybridcontent.MenuCategory) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *Repository) UpdateMenuCategory(ctx context.Context, id int64, patch hybridcontent.MenuCategoryPatch) (*hybridcontent.MenuCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.menuCategories[id]
	if !ok {
		return nil, nil
	}

	row := cloneMenuCategory(existing)
	apply(&row.Name, patch.Name)
	apply(&row.Description, patch.Description)
	apply(&row.ImageURL, patch.ImageURL)
	apply(&row.SortOrder, patch.SortOrder)
	apply(&row.IsActive, patch.IsActive)
	row.UpdatedAt = r.now().UTC()
	r.menuCategories[id] = row
	return cloneMenuCategory(row), nil
}

func (r *Repository) DeleteMenuCategory(ctx context.Context, id int64) (*hybridcontent.MenuCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.menuCategories[id]
	if !ok {
		return nil, nil
	}
	delete(r.menuCategories, id)
	return c, nil
}

// Menu item operations

func cloneMenuItem(i *hybridcontent.MenuItem) *hybridcontent.MenuItem {
	out := *i
	out.Images = list(i.Images)
	out.Ingredients = list(i.Ingredients)
	out.Allergens = list(i.Allergens)
	out.PreparationSteps = list(i.PreparationSteps)
	out.Tags = list(i.Tags)
	out.SEOData = cloneSEO(i.SEOData)
	out.PublishedAt = clonePtr(i.PublishedAt)
	return &out
}

func (r *Repository) CreateMenuItem(ctx context.Context, item *hybridcontent.MenuItem) (*hybridcontent.MenuItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.menuItems {
		if existing.ExternalID == item.ExternalID {
			return nil, duplicate("insert", "firebase_id "+item.ExternalID)
		}
	}

	row := cloneMenuItem(item)
	if row.SpiceLevel == "" {
		row.SpiceLevel = hybridcontent.SpiceNone
	}
	row.ID, row.CreatedAt = r.allocate()
	row.UpdatedAt = row.CreatedAt
	r.menuItems[row.ID] = row
	return cloneMenuItem(row), nil
}

func (r *Repository) GetMenuItem(ctx context.Context, id int64) (*hybridcontent.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i, ok := r.menuItems[id]; ok {
		return cloneMenuItem(i), nil
	}
	return nil, nil
}

func (r *Repository) GetMenuItemByExternalID(ctx context.Context, externalID string) (*hybridcontent.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, i := range r.menuItems {
		if i.ExternalID == externalID {
			return cloneMenuItem(i), nil
		}
	}
	return nil, nil
}

func (r *Repository) listMenuItems(match func(*hybridcontent.MenuItem) bool) []*hybridcontent.MenuItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*hybridcontent.MenuItem{}
	for _, i := range r.menuItems {
		if i.IsPublished && match(i) {
			out = append(out, cloneMenuItem(i))
		}
	}
	slices.SortFunc(out, func(a, b *hybridcontent.MenuItem) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func (r *Repository) ListMenuItemsByCategory(ctx context.Context, categoryExternalID string) ([]*hybridcontent.MenuItem, error) {
	return r.listMenuItems(func(i *hybridcontent.MenuItem) bool {
		return i.CategoryExternalID == categoryExternalID
	}), nil
}

func (r *Repository) ListMenuItemsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*hybridcontent.MenuItem, error) {
	return r.listMenuItems(func(i *hybridcontent.MenuItem) bool {
		return i.RestaurantExternalID == restaurantExternalID
	}), nil
}

func (r *Repository) UpdateMenuItem(ctx context.Context, id int64, patch hybridcontent.MenuItemPatch) (*hybridcontent.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.menuItems[id]
	if !ok {
		return nil, nil
	}

	row := cloneMenuItem(existing)
	apply(&row.CategoryExternalID, patch.CategoryExternalID)
	apply(&row.Name, patch.Name)
	apply(&row.DetailedDescription, patch.DetailedDescription)
	apply(&row.ShortDescription, patch.ShortDescription)
	applyList(&row.Images, patch.Images)
	applyList(&row.Ingredients, patch.Ingredients)
	applyList(&row.Allergens, patch.Allergens)
	apply(&row.NutritionalInfo, patch.NutritionalInfo)
	applyList(&row.PreparationSteps, patch.PreparationSteps)
	apply(&row.ChefNotes, patch.ChefNotes)
	applyList(&row.Tags, patch.Tags)
	apply(&row.IsVegetarian, patch.IsVegetarian)
	apply(&row.IsVegan, patch.IsVegan)
	apply(&row.IsGlutenFree, patch.IsGlutenFree)
	apply(&row.SpiceLevel, patch.SpiceLevel)
	apply(&row.PreparationTime, patch.PreparationTime)
	apply(&row.SEOData, patch.SEOData)
	apply(&row.IsPublished, patch.IsPublished)
	applyPtr(&row.PublishedAt, patch.PublishedAt)
	row.UpdatedAt = r.now().UTC()
	r.menuItems[id] = row
	return cloneMenuItem(row), nil
}

func (r *Repository) DeleteMenuItem(ctx context.Context, id int64) (*hybridcontent.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.menuItems[id]
	if !ok {
		return nil, nil
	}
	delete(r.menuItems, id)
	return i, nil
}
