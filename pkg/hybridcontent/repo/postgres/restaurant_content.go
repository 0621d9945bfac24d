package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/contentstore"
)

const restaurantContentColumns = `id, firebase_id, COALESCE(slug, ''), COALESCE(story, ''),
	COALESCE(long_description, ''), COALESCE(hero_image_url, ''), gallery_images, awards,
	certifications, special_features, social_media, seo_data, is_published, published_at,
	created_at, updated_at`

func scanRestaurantContent(row pgx.CollectableRow) (*hybridcontent.RestaurantContent, error) {
	var c hybridcontent.RestaurantContent
	var (
		gallery        contentstore.JSON[[]hybridcontent.GalleryImage]
		awards         contentstore.JSON[[]hybridcontent.Award]
		certifications contentstore.JSON[[]hybridcontent.Certification]
		features       contentstore.JSON[[]string]
		social         contentstore.JSON[hybridcontent.SocialMedia]
		seo            contentstore.JSON[hybridcontent.SEOData]
	)
	err := row.Scan(
		&c.ID, &c.ExternalID, &c.Slug, &c.Story, &c.LongDescription, &c.HeroImageURL,
		&gallery, &awards, &certifications, &features, &social, &seo,
		&c.IsPublished, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.GalleryImages = gallery.V
	c.Awards = awards.V
	c.Certifications = certifications.V
	c.SpecialFeatures = features.V
	c.SocialMedia = social.V
	c.SEOData = seo.V
	return &c, nil
}

func (r *Repository) CreateRestaurantContent(ctx context.Context, content *hybridcontent.RestaurantContent) (*hybridcontent.RestaurantContent, error) {
	if err := content.Validate(); err != nil {
		return nil, err
	}
	query := `
		INSERT INTO restaurant_contents (
			firebase_id, slug, story, long_description, hero_image_url, gallery_images,
			awards, certifications, special_features, social_media, seo_data,
			is_published, published_at, created_at, updated_at
		) VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING ` + restaurantContentColumns

	return contentstore.QueryOne(ctx, r.client, query, scanRestaurantContent,
		content.ExternalID,
		content.Slug,
		content.Story,
		content.LongDescription,
		content.HeroImageURL,
		contentstore.JSONOf(contentstore.EmptyList(content.GalleryImages)),
		contentstore.JSONOf(contentstore.EmptyList(content.Awards)),
		contentstore.JSONOf(contentstore.EmptyList(content.Certifications)),
		contentstore.JSONOf(contentstore.EmptyList(content.SpecialFeatures)),
		contentstore.JSONOf(content.SocialMedia),
		contentstore.JSONOf(content.SEOData),
		content.IsPublished,
		content.PublishedAt,
	)
}

func (r *Repository) GetRestaurantContent(ctx context.Context, id int64) (*hybridcontent.RestaurantContent, error) {
	query := `SELECT ` + restaurantContentColumns + ` FROM restaurant_contents WHERE id = $1`
	return contentstore.QueryOne(ctx, r.client, query, scanRestaurantContent, id)
}

func (r *Repository) GetRestaurantContentByExternalID(ctx context.Context, externalID string) (*hybridcontent.RestaurantContent, error) {
	query := `SELECT ` + restaurantContentColumns + ` FROM restaurant_contents WHERE firebase_id = $1`
	return contentstore.QueryOne(ctx, r.client, query, scanRestaurantContent, externalID)
}

func (r *Repository) GetRestaurantContentBySlug(ctx context.Context, slug string) (*hybridcontent.RestaurantContent, error) {
	query := `SELECT ` + restaurantContentColumns + ` FROM restaurant_contents WHERE slug = $1`
	return contentstore.QueryOne(ctx, r.client, query, scanRestaurantContent, slug)
}

func (r *Repository) ListPublishedRestaurantContent(ctx context.Context, limit, offset int) ([]*hybridcontent.RestaurantContent, error) {
	limit, offset = hybridcontent.ClampPage(limit, offset)
	query := `
		SELECT ` + restaurantContentColumns + `
		FROM restaurant_contents
		WHERE is_published = true
		ORDER BY published_at DESC NULLS LAST, id DESC
		LIMIT $1 OFFSET $2`
	return contentstore.Query(ctx, r.client, query, scanRestaurantContent, limit, offset)
}

func (r *Repository) UpdateRestaurantContent(ctx context.Context, id int64, patch hybridcontent.RestaurantContentPatch) (*hybridcontent.RestaurantContent, error) {
	query, args := restaurantContentUpdate(id, patch)
	return contentstore.QueryOne(ctx, r.client, query, scanRestaurantContent, args...)
}

func restaurantContentUpdate(id int64, patch hybridcontent.RestaurantContentPatch) (string, []any) {
	b := newUpdate("restaurant_contents")
	setNullable(b, "slug", patch.Slug)
	setField(b, "story", patch.Story)
	setField(b, "long_description", patch.LongDescription)
	setField(b, "hero_image_url", patch.HeroImageURL)
	setList(b, "gallery_images", patch.GalleryImages)
	setList(b, "awards", patch.Awards)
	setList(b, "certifications", patch.Certifications)
	setList(b, "special_features", patch.SpecialFeatures)
	setJSON(b, "social_media", patch.SocialMedia)
	setJSON(b, "seo_data", patch.SEOData)
	setField(b, "is_published", patch.IsPublished)
	setField(b, "published_at", patch.PublishedAt)
	return b.build(id, restaurantContentColumns)
}

func (r *Repository) DeleteRestaurantContent(ctx context.Context, id int64) (*hybridcontent.RestaurantContent, error) {
	query := `DELETE FROM restaurant_contents WHERE id = $1 RETURNING ` + restaurantContentColumns
	return contentstore.QueryOne(ctx, r.client, query, scanRestaurantContent, id)
}
