package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/contentstore"
)

const blogPostColumns = `id, title, slug, COALESCE(content, ''), COALESCE(excerpt, ''),
	COALESCE(featured_image_url, ''), COALESCE(author_name, ''), COALESCE(author_bio, ''),
	COALESCE(author_avatar_url, ''), categories, tags, related_restaurants,
	COALESCE(reading_time, 0), is_published, is_featured, seo_data, published_at,
	created_at, updated_at`

func scanBlogPost(row pgx.CollectableRow) (*hybridcontent.BlogPost, error) {
	var p hybridcontent.BlogPost
	var (
		categories contentstore.JSON[[]string]
		tags       contentstore.JSON[[]string]
		related    contentstore.JSON[[]string]
		seo        contentstore.JSON[hybridcontent.SEOData]
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt,
		&p.FeaturedImageURL, &p.AuthorName, &p.AuthorBio,
		&p.AuthorAvatarURL, &categories, &tags, &related,
		&p.ReadingTime, &p.IsPublished, &p.IsFeatured, &seo, &p.PublishedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Categories = categories.V
	p.Tags = tags.V
	p.RelatedRestaurants = related.V
	p.SEOData = seo.V
	return &p, nil
}

func (r *Repository) CreateBlogPost(ctx context.Context, post *hybridcontent.BlogPost) (*hybridcontent.BlogPost, error) {
	if err := post.Validate(); err != nil {
		return nil, err
	}
	query := `
		INSERT INTO blog_posts (
			title, slug, content, excerpt, featured_image_url, author_name, author_bio,
			author_avatar_url, categories, tags, related_restaurants, reading_time,
			is_published, is_featured, seo_data, published_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING ` + blogPostColumns

	return contentstore.QueryOne(ctx, r.client, query, scanBlogPost,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.FeaturedImageURL,
		post.AuthorName,
		post.AuthorBio,
		post.AuthorAvatarURL,
		contentstore.JSONOf(contentstore.EmptyList(post.Categories)),
		contentstore.JSONOf(contentstore.EmptyList(post.Tags)),
		contentstore.JSONOf(contentstore.EmptyList(post.RelatedRestaurants)),
		post.ReadingTime,
		post.IsPublished,
		post.IsFeatured,
		contentstore.JSONOf(post.SEOData),
		post.PublishedAt,
	)
}

func (r *Repository) GetBlogPost(ctx context.Context, id int64) (*hybridcontent.BlogPost, error) {
	query := `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE id = $1`
	return contentstore.QueryOne(ctx, r.client, query, scanBlogPost, id)
}

func (r *Repository) GetBlogPostBySlug(ctx context.Context, slug string) (*hybridcontent.BlogPost, error) {
	query := `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE slug = $1`
	return contentstore.QueryOne(ctx, r.client, query, scanBlogPost, slug)
}

func (r *Repository) ListPublishedBlogPosts(ctx context.Context, limit, offset int) ([]*hybridcontent.BlogPost, error) {
	limit, offset = hybridcontent.ClampPage(limit, offset)
	query := `
		SELECT ` + blogPostColumns + `
		FROM blog_posts
		WHERE is_published = true
		ORDER BY published_at DESC NULLS LAST, id DESC
		LIMIT $1 OFFSET $2`
	return contentstore.Query(ctx, r.client, query, scanBlogPost, limit, offset)
}

func (r *Repository) ListFeaturedBlogPosts(ctx context.Context, limit int) ([]*hybridcontent.BlogPost, error) {
	limit, _ = hybridcontent.ClampPage(limit, 0)
	query := `
		SELECT ` + blogPostColumns + `
		FROM blog_posts
		WHERE is_published = true AND is_featured = true
		ORDER BY published_at DESC NULLS LAST, id DESC
		LIMIT $1`
	return contentstore.Query(ctx, r.client, query, scanBlogPost, limit)
}

func (r *Repository) ListBlogPostsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*hybridcontent.BlogPost, error) {
	query := `
		SELECT ` + blogPostColumns + `
		FROM blog_posts
		WHERE is_published = true AND related_restaurants @> jsonb_build_array($1::text)
		ORDER BY published_at DESC NULLS LAST, id DESC`
	return contentstore.Query(ctx, r.client, query, scanBlogPost, restaurantExternalID)
}

func (r *Repository) UpdateBlogPost(ctx context.Context, id int64, patch hybridcontent.BlogPostPatch) (*hybridcontent.BlogPost, error) {
	query, args := blogPostUpdate(id, patch)
	return contentstore.QueryOne(ctx, r.client, query, scanBlogPost, args...)
}

func blogPostUpdate(id int64, patch hybridcontent.BlogPostPatch) (string, []any) {
	b := newUpdate("blog_posts")
	setField(b, "title", patch.Title)
	setField(b, "slug", patch.Slug)
	setField(b, "content", patch.Content)
	setField(b, "excerpt", patch.Excerpt)
	setField(b, "featured_image_url", patch.FeaturedImageURL)
	setField(b, "author_name", patch.AuthorName)
	setField(b, "author_bio", patch.AuthorBio)
	setField(b, "author_avatar_url", patch.AuthorAvatarURL)
	setList(b, "categories", patch.Categories)
	setList(b, "tags", patch.Tags)
	setList(b, "related_restaurants", patch.RelatedRestaurants)
	setField(b, "reading_time", patch.ReadingTime)
	setField(b, "is_published", patch.IsPublished)
	setField(b, "is_featured", patch.IsFeatured)
	setJSON(b, "seo_data", patch.SEOData)
	setField(b, "published_at", patch.PublishedAt)
	return b.build(id, blogPostColumns)
}

func (r *Repository) DeleteBlogPost(ctx context.Context, id int64) (*hybridcontent.BlogPost, error) {
	query := `DELETE FROM blog_posts WHERE id = $1 RETURNING ` + blogPostColumns
	return contentstore.QueryOne(ctx, r.client, query, scanBlogPost, id)
}
