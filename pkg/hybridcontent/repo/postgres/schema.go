package postgres

import (
	"context"
	"fmt"

	"github.com/tendant/hybrid-content/pkg/hybridcontent/contentstore"
)

// schemaStatements create the content tables. Every statement is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS restaurant_contents (
		id BIGSERIAL PRIMARY KEY,
		firebase_id VARCHAR(255) NOT NULL UNIQUE,
		slug VARCHAR(255) UNIQUE,
		story TEXT,
		long_description TEXT,
		hero_image_url TEXT,
		gallery_images JSONB NOT NULL DEFAULT '[]'::jsonb,
		awards JSONB NOT NULL DEFAULT '[]'::jsonb,
		certifications JSONB NOT NULL DEFAULT '[]'::jsonb,
		special_features JSONB NOT NULL DEFAULT '[]'::jsonb,
		social_media JSONB NOT NULL DEFAULT '{}'::jsonb,
		seo_data JSONB NOT NULL DEFAULT '{}'::jsonb,
		is_published BOOLEAN NOT NULL DEFAULT false,
		published_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_categories (
		id BIGSERIAL PRIMARY KEY,
		firebase_id VARCHAR(255) NOT NULL UNIQUE,
		restaurant_firebase_id VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		image_url TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_categories_restaurant ON menu_categories (restaurant_firebase_id)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id BIGSERIAL PRIMARY KEY,
		firebase_id VARCHAR(255) NOT NULL UNIQUE,
		category_firebase_id VARCHAR(255),
		restaurant_firebase_id VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		detailed_description TEXT,
		short_description TEXT,
		images JSONB NOT NULL DEFAULT '[]'::jsonb,
		ingredients JSONB NOT NULL DEFAULT '[]'::jsonb,
		allergens JSONB NOT NULL DEFAULT '[]'::jsonb,
		nutritional_info JSONB NOT NULL DEFAULT '{}'::jsonb,
		preparation_steps JSONB NOT NULL DEFAULT '[]'::jsonb,
		chef_notes TEXT,
		tags JSONB NOT NULL DEFAULT '[]'::jsonb,
		is_vegetarian BOOLEAN NOT NULL DEFAULT false,
		is_vegan BOOLEAN NOT NULL DEFAULT false,
		is_gluten_free BOOLEAN NOT NULL DEFAULT false,
		spice_level VARCHAR(20) DEFAULT 'none',
		preparation_time INTEGER,
		seo_data JSONB NOT NULL DEFAULT '{}'::jsonb,
		is_published BOOLEAN NOT NULL DEFAULT false,
		published_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items (category_firebase_id)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_restaurant ON menu_items (restaurant_firebase_id)`,
	`CREATE TABLE IF NOT EXISTS blog_posts (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(500) NOT NULL,
		slug VARCHAR(500) NOT NULL UNIQUE,
		content TEXT,
		excerpt TEXT,
		featured_image_url TEXT,
		author_name VARCHAR(255),
		author_bio TEXT,
		author_avatar_url TEXT,
		categories JSONB NOT NULL DEFAULT '[]'::jsonb,
		tags JSONB NOT NULL DEFAULT '[]'::jsonb,
		related_restaurants JSONB NOT NULL DEFAULT '[]'::jsonb,
		reading_time INTEGER,
		is_published BOOLEAN NOT NULL DEFAULT false,
		is_featured BOOLEAN NOT NULL DEFAULT false,
		seo_data JSONB NOT NULL DEFAULT '{}'::jsonb,
		published_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS promotions (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(500) NOT NULL,
		description TEXT,
		short_description TEXT,
		image_url TEXT,
		banner_image_url TEXT,
		promotion_type VARCHAR(50),
		discount_type VARCHAR(50),
		discount_value NUMERIC(10, 2),
		minimum_order_value NUMERIC(10, 2),
		valid_from TIMESTAMPTZ NOT NULL,
		valid_until TIMESTAMPTZ NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		target_restaurants JSONB NOT NULL DEFAULT '[]'::jsonb,
		target_categories JSONB NOT NULL DEFAULT '[]'::jsonb,
		target_menu_items JSONB NOT NULL DEFAULT '[]'::jsonb,
		max_usage_per_user INTEGER,
		total_usage_limit INTEGER,
		current_usage_count INTEGER NOT NULL DEFAULT 0,
		promo_code VARCHAR(100) UNIQUE,
		terms TEXT,
		seo_data JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_promotions_window ON promotions (is_active, valid_from, valid_until)`,
}

// Tables lists the content tables in dependency order.
var Tables = []string{"restaurant_contents", "menu_categories", "menu_items", "blog_posts", "promotions"}

// Migrate creates any missing content tables and indexes in one transaction.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.client.Transaction(ctx, func(ctx context.Context, tx contentstore.Handle) error {
		for _, stmt := range schemaStatements {
			if _, err := contentstore.Exec(ctx, tx, stmt); err != nil {
				return fmt.Errorf("migrate content schema: %w", err)
			}
		}
		return nil
	})
}
