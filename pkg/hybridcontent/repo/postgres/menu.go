package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/contentstore"
)

// Menu category operations

const menuCategoryColumns = `id, firebase_id, restaurant_firebase_id, name,
	COALESCE(description, ''), COALESCE(image_url, ''), sort_order, is_active,
	created_at, updated_at`

func scanMenuCategory(row pgx.CollectableRow) (*hybridcontent.MenuCategory, error) {
	var c hybridcontent.MenuCategory
	err := row.Scan(
		&c.ID, &c.ExternalID, &c.RestaurantExternalID, &c.Name, &c.Description,
		&c.ImageURL, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) CreateMenuCategory(ctx context.Context, category *hybridcontent.MenuCategory) (*hybridcontent.MenuCategory, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}
	query := `
		INSERT INTO menu_categories (
			firebase_id, restaurant_firebase_id, name, description, image_url,
			sort_order, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + menuCategoryColumns

	return contentstore.QueryOne(ctx, r.client, query, scanMenuCategory,
		category.ExternalID,
		category.RestaurantExternalID,
		category.Name,
		category.Description,
		category.ImageURL,
		category.SortOrder,
		category.IsActive,
	)
}

func (r *Repository) GetMenuCategory(ctx context.Context, id int64) (*hybridcontent.MenuCategory, error) {
	query := `SELECT ` + menuCategoryColumns + ` FROM menu_categories WHERE id = $1`
	return contentstore.QueryOne(ctx, r.client, query, scanMenuCategory, id)
}

func (r *Repository) GetMenuCategoryByExternalID(ctx context.Context, externalID string) (*hybridcontent.MenuCategory, error) {
	query := `SELECT ` + menuCategoryColumns + ` FROM menu_categories WHERE firebase_id = $1`
	return contentstore.QueryOne(ctx, r.client, query, scanMenuCategory, externalID)
}

func (r *Repository) ListMenuCategoriesByRestaurant(ctx context.Context, restaurantExternalID string) ([]*hybridcontent.MenuCategory, error) {
	query := `
		SELECT ` + menuCategoryColumns + `
		FROM menu_categories
		WHERE restaurant_firebase_id = $1 AND is_active = true
		ORDER BY sort_order, id`
	return contentstore.Query(ctx, r.client, query, scanMenuCategory, restaurantExternalID)
}

func (r *Repository) UpdateMenuCategory(ctx context.Context, id int64, patch hybridcontent.MenuCategoryPatch) (*hybridcontent.MenuCategory, error) {
	query, args := menuCategoryUpdate(id, patch)
	return contentstore.QueryOne(ctx, r.client, query, scanMenuCategory, args...)
}

func menuCategoryUpdate(id int64, patch hybridcontent.MenuCategoryPatch) (string, []any) {
	b := newUpdate("menu_categories")
	setField(b, "name", patch.Name)
	setField(b, "description", patch.Description)
	setField(b, "image_url", patch.ImageURL)
	setField(b, "sort_order", patch.SortOrder)
	setField(b, "is_active", patch.IsActive)
	return b.build(id, menuCategoryColumns)
}

func (r *Repository) DeleteMenuCategory(ctx context.Context, id int64) (*hybridcontent.MenuCategory, error) {
	query := `DELETE FROM menu_categories WHERE id = $1 RETURNING ` + menuCategoryColumns
	return contentstore.QueryOne(ctx, r.client, query, scanMenuCategory, id)
}

// Menu item operations

const menuItemColumns = `id, firebase_id, COALESCE(category_firebase_id, ''), restaurant_firebase_id,
	name, COALESCE(detailed_description, ''), COALESCE(short_description, ''), images,
	ingredients, allergens, nutritional_info, preparation_steps, COALESCE(chef_notes, ''),
	tags, is_vegetarian, is_vegan, is_gluten_free, COALESCE(spice_level, ''),
	COALESCE(preparation_time, 0), seo_data, is_published, published_at, created_at, updated_at`

func scanMenuItem(row pgx.CollectableRow) (*hybridcontent.MenuItem, error) {
	var i hybridcontent.MenuItem
	var (
		images      contentstore.JSON[[]string]
		ingredients contentstore.JSON[[]string]
		allergens   contentstore.JSON[[]string]
		nutrition   contentstore.JSON[hybridcontent.NutritionalInfo]
		steps       contentstore.JSON[[]string]
		tags        contentstore.JSON[[]string]
		seo         contentstore.JSON[hybridcontent.SEOData]
	)
	err := row.Scan(
		&i.ID, &i.ExternalID, &i.CategoryExternalID, &i.RestaurantExternalID,
		&i.Name, &i.DetailedDescription, &i.ShortDescription, &images,
		&ingredients, &allergens, &nutrition, &steps, &i.ChefNotes,
		&tags, &i.IsVegetarian, &i.IsVegan, &i.IsGlutenFree, &i.SpiceLevel,
		&i.PreparationTime, &seo, &i.IsPublished, &i.PublishedAt, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	i.Images = images.V
	i.Ingredients = ingredients.V
	i.Allergens = allergens.V
	i.NutritionalInfo = nutrition.V
	i.PreparationSteps = steps.V
	i.Tags = tags.V
	i.SEOData = seo.V
	return &i, nil
}

func (r *Repository) CreateMenuItem(ctx context.Context, item *hybridcontent.MenuItem) (*hybridcontent.MenuItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	spice := item.SpiceLevel
	if spice == "" {
		spice = hybridcontent.SpiceNone
	}
	query := `
		INSERT INTO menu_items (
			firebase_id, category_firebase_id, restaurant_firebase_id, name,
			detailed_description, short_description, images, ingredients, allergens,
			nutritional_info, preparation_steps, chef_notes, tags, is_vegetarian,
			is_vegan, is_gluten_free, spice_level, preparation_time, seo_data,
			is_published, published_at, created_at, updated_at
		) VALUES (
			$1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, NOW(), NOW()
		)
		RETURNING ` + menuItemColumns

	return contentstore.QueryOne(ctx, r.client, query, scanMenuItem,
		item.ExternalID,
		item.CategoryExternalID,
		item.RestaurantExternalID,
		item.Name,
		item.DetailedDescription,
		item.ShortDescription,
		contentstore.JSONOf(contentstore.EmptyList(item.Images)),
		contentstore.JSONOf(contentstore.EmptyList(item.Ingredients)),
		contentstore.JSONOf(contentstore.EmptyList(item.Allergens)),
		contentstore.JSONOf(item.NutritionalInfo),
		contentstore.JSONOf(contentstore.EmptyList(item.PreparationSteps)),
		item.ChefNotes,
		contentstore.JSONOf(contentstore.EmptyList(item.Tags)),
		item.IsVegetarian,
		item.IsVegan,
		item.IsGlutenFree,
		spice,
		item.PreparationTime,
		contentstore.JSONOf(item.SEOData),
		item.IsPublished,
		item.PublishedAt,
	)
}

func (r *Repository) GetMenuItem(ctx context.Context, id int64) (*hybridcontent.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1`
	return contentstore.QueryOne(ctx, r.client, query, scanMenuItem, id)
}

func (r *Repository) GetMenuItemByExternalID(ctx context.Context, externalID string) (*hybridcontent.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE firebase_id = $1`
	return contentstore.QueryOne(ctx, r.client, query, scanMenuItem, externalID)
}

func (r *Repository) ListMenuItemsByCategory(ctx context.Context, categoryExternalID string) ([]*hybridcontent.MenuItem, error) {
	query := `
		SELECT ` + menuItemColumns + `
		FROM menu_items
		WHERE category_firebase_id = $1 AND is_published = true
		ORDER BY name, id`
	return contentstore.Query(ctx, r.client, query, scanMenuItem, categoryExternalID)
}

func (r *Repository) ListMenuItemsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*hybridcontent.MenuItem, error) {
	query := `
		SELECT ` + menuItemColumns + `
		FROM menu_items
		WHERE restaurant_firebase_id = $1 AND is_published = true
		ORDER BY name, id`
	return contentstore.Query(ctx, r.client, query, scanMenuItem, restaurantExternalID)
}

func (r *Repository) UpdateMenuItem(ctx context.Context, id int64, patch hybridcontent.MenuItemPatch) (*hybridcontent.MenuItem, error) {
	query, args := menuItemUpdate(id, patch)
	return contentstore.QueryOne(ctx, r.client, query, scanMenuItem, args...)
}

func menuItemUpdate(id int64, patch hybridcontent.MenuItemPatch) (string, []any) {
	b := newUpdate("menu_items")
	setNullable(b, "category_firebase_id", patch.CategoryExternalID)
	setField(b, "name", patch.Name)
	setField(b, "detailed_description", patch.DetailedDescription)
	setField(b, "short_description", patch.ShortDescription)
	setList(b, "images", patch.Images)
	setList(b, "ingredients", patch.Ingredients)
	setList(b, "allergens", patch.Allergens)
	setJSON(b, "nutritional_info", patch.NutritionalInfo)
	setList(b, "preparation_steps", patch.PreparationSteps)
	setField(b, "chef_notes", patch.ChefNotes)
	setList(b, "tags", patch.Tags)
	setField(b, "is_vegetarian", patch.IsVegetarian)
	setField(b, "is_vegan", patch.IsVegan)
	setField(b, "is_gluten_free", patch.IsGlutenFree)
	setField(b, "spice_level", patch.SpiceLevel)
	setField(b, "preparation_time", patch.PreparationTime)
	setJSON(b, "seo_data", patch.SEOData)
	setField(b, "is_published", patch.IsPublished)
	setField(b, "published_at", patch.PublishedAt)
	return b.build(id, menuItemColumns)
}

func (r *Repository) DeleteMenuItem(ctx context.Context, id int64) (*hybridcontent.MenuItem, error) {
	query := `DELETE FROM menu_items WHERE id = $1 RETURNING ` + menuItemColumns
	return contentstore.QueryOne(ctx, r.client, query, scanMenuItem, id)
}
