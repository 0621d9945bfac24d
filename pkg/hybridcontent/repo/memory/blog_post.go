package memory

import (
	"context"
	"slices"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
)

func cloneBlogPost(p *hybridcontent.BlogPost) *hybridcontent.BlogPost {
	out := *p
	out.Categories = list(p.Categories)
	out.Tags = list(p.Tags)
	out.RelatedRestaurants = list(p.RelatedRestaurants)
	out.SEOData = cloneSEO(p.SEOData)
	out.PublishedAt = clonePtr(p.PublishedAt)
	return &out
}

func (r *Repository) blogSlugTaken(slug string, except int64) bool {
	for _, existing := range r.blogPosts {
		if existing.ID != except && existing.Slug == slug {
			return true
		}
	}
	return false
}

func (r *Repository) CreateBlogPost(ctx context.Context, post *hybridcontent.BlogPost) (*hybridcontent.BlogPost, error) {
	if err := post.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.blogSlugTaken(post.Slug, 0) {
		return nil, duplicate("insert", "slug "+post.Slug)
	}

	row := cloneBlogPost(post)
	row.ID, row.CreatedAt = r.allocate()
	row.UpdatedAt = row.CreatedAt
	r.blogPosts[row.ID] = row
	return cloneBlogPost(row), nil
}

func (r *Repository) GetBlogPost(ctx context.Context, id int64) (*hybridcontent.BlogPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.blogPosts[id]; ok {
		return cloneBlogPost(p), nil
	}
	return nil, nil
}

func (r *Repository) GetBlogPostBySlug(ctx context.Context, slug string) (*hybridcontent.BlogPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.blogPosts {
		if p.Slug == slug {
			return cloneBlogPost(p), nil
		}
	}
	return nil, nil
}

// publishedPosts returns matching published posts newest first.
func (r *Repository) publishedPosts(match func(*hybridcontent.BlogPost) bool) []*hybridcontent.BlogPost {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*hybridcontent.BlogPost{}
	for _, p := range r.blogPosts {
		if p.IsPublished && match(p) {
			out = append(out, cloneBlogPost(p))
		}
	}
	slices.SortFunc(out, func(a, b *hybridcontent.BlogPost) int {
		return newestPublishedFirst(a.PublishedAt, b.PublishedAt, a.ID, b.ID)
	})
	return out
}

func (r *Repository) ListPublishedBlogPosts(ctx context.Context, limit, offset int) ([]*hybridcontent.BlogPost, error) {
	all := r.publishedPosts(func(*hybridcontent.BlogPost) bool { return true })
	return page(all, limit, offset), nil
}

func (r *Repository) ListFeaturedBlogPosts(ctx context.Context, limit int) ([]*hybridcontent.BlogPost, error) {
	featured := r.publishedPosts(func(p *hybridcontent.BlogPost) bool { return p.IsFeatured })
	return page(featured, limit, 0), nil
}

func (r *Repository) ListBlogPostsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*hybridcontent.BlogPost, error) {
	return r.publishedPosts(func(p *hybridcontent.BlogPost) bool {
		return slices.Contains(p.RelatedRestaurants, restaurantExternalID)
	}), nil
}

func (r *Repository) UpdateBlogPost(ctx context.Context, id int64, patch hybridcontent.BlogPostPatch) (*hybridcontent.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.blogPosts[id]
	if !ok {
		return nil, nil
	}

	row := cloneBlogPost(existing)
	apply(&row.Title, patch.Title)
	apply(&row.Slug, patch.Slug)
	apply(&row.Content, patch.Content)
	apply(&row.Excerpt, patch.Excerpt)
	apply(&row.FeaturedImageURL, patch.FeaturedImageURL)
	apply(&row.AuthorName, patch.AuthorName)
	apply(&row.AuthorBio, patch.AuthorBio)
	apply(&row.AuthorAvatarURL, patch.AuthorAvatarURL)
	applyList(&row.Categories, patch.Categories)
	applyList(&row.Tags, patch.Tags)
	applyList(&row.RelatedRestaurants, patch.RelatedRestaurants)
	apply(&row.ReadingTime, patch.ReadingTime)
	apply(&row.IsPublished, patch.IsPublished)
	apply(&row.IsFeatured, patch.IsFeatured)
	apply(&row.SEOData, patch.SEOData)
	applyPtr(&row.PublishedAt, patch.PublishedAt)

	if r.blogSlugTaken(row.Slug, id) {
		return nil, duplicate("query one", "slug "+row.Slug)
	}
	row.UpdatedAt = r.now().UTC()
	r.blogPosts[id] = row
	return cloneBlogPost(row), nil
}

func (r *Repository) DeleteBlogPost(ctx context.Context, id int64) (*hybridcontent.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.blogPosts[id]
	if !ok {
		return nil, nil
	}
	delete(r.blogPosts, id)
	return p, nil
}
