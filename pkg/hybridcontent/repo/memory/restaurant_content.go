package memory

import (
	"context"
	"slices"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
)

func cloneRestaurantContent(c *hybridcontent.RestaurantContent) *hybridcontent.RestaurantContent {
	out := *c
	out.GalleryImages = list(c.GalleryImages)
	out.Awards = list(c.Awards)
	out.Certifications = list(c.Certifications)
	out.SpecialFeatures = list(c.SpecialFeatures)
	out.SEOData = cloneSEO(c.SEOData)
	out.PublishedAt = clonePtr(c.PublishedAt)
	return &out
}

// restaurantContentConflict reports a unique key already held by another row.
// Callers hold mu.
func (r *Repository) restaurantContentConflict(c *hybridcontent.RestaurantContent) string {
	for _, existing := range r.restaurantContents {
		if existing.ID == c.ID {
			continue
		}
		if existing.ExternalID == c.ExternalID {
			return "firebase_id " + c.ExternalID
		}
		if c.Slug != "" && existing.Slug == c.Slug {
			return "slug " + c.Slug
		}
	}
	return ""
}

func (r *Repository) CreateRestaurantContent(ctx context.Context, content *hybridcontent.RestaurantContent) (*hybridcontent.RestaurantContent, error) {
	if err := content.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	row := cloneRestaurantContent(content)
	row.ID = 0
	if key := r.restaurantContentConflict(row); key != "" {
		return nil, duplicate("insert", key)
	}
	row.ID, row.CreatedAt = r.allocate()
	row.UpdatedAt = row.CreatedAt
	r.restaurantContents[row.ID] = row
	return cloneRestaurantContent(row), nil
}

func (r *Repository) GetRestaurantContent(ctx context.Context, id int64) (*hybridcontent.RestaurantContent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.restaurantContents[id]; ok {
		return cloneRestaurantContent(c), nil
	}
	return nil, nil
}

func (r *Repository) findRestaurantContent(match func(*hybridcontent.RestaurantContent) bool) *hybridcontent.RestaurantContent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.restaurantContents {
		if match(c) {
			return cloneRestaurantContent(c)
		}
	}
	return nil
}

func (r *Repository) GetRestaurantContentByExternalID(ctx context.Context, externalID string) (*hybridcontent.RestaurantContent, error) {
	return r.findRestaurantContent(func(c *hybridcontent.RestaurantContent) bool {
		return c.ExternalID == externalID
	}), nil
}

func (r *Repository) GetRestaurantContentBySlug(ctx context.Context, slug string) (*hybridcontent.RestaurantContent, error) {
	if slug == "" {
		return nil, nil
	}
	return r.findRestaurantContent(func(c *hybridcontent.RestaurantContent) bool {
		return c.Slug == slug
	}), nil
}

func (r *Repository) ListPublishedRestaurantContent(ctx context.Context, limit, offset int) ([]*hybridcontent.RestaurantContent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var published []*hybridcontent.RestaurantContent
	for _, c := range r.restaurantContents {
		if c.IsPublished {
			published = append(published, c)
		}
	}
	slices.SortFunc(published, func(a, b *hybridcontent.RestaurantContent) int {
		return newestPublishedFirst(a.PublishedAt, b.PublishedAt, a.ID, b.ID)
	})

	out := []*hybridcontent.RestaurantContent{}
	for _, c := range page(published, limit, offset) {
		out = append(out, cloneRestaurantContent(c))
	}
	return out, nil
}

func (r *Repository) UpdateRestaurantContent(ctx context.Context, id int64, patch hybridcontent.RestaurantContentPatch) (*hybridcontent.RestaurantContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.restaurantContents[id]
	if !ok {
		return nil, nil
	}

	row := cloneRestaurantContent(existing)
	apply(&row.Slug, patch.Slug)
	apply(&row.Story, patch.Story)
	apply(&row.LongDescription, patch.LongDescription)
	apply(&row.HeroImageURL, patch.HeroImageURL)
	applyList(&row.GalleryImages, patch.GalleryImages)
	applyList(&row.Awards, patch.Awards)
	applyList(&row.Certifications, patch.Certifications)
	applyList(&row.SpecialFeatures, patch.SpecialFeatures)
	apply(&row.SocialMedia, patch.SocialMedia)
	apply(&row.SEOData, patch.SEOData)
	apply(&row.IsPublished, patch.IsPublished)
	applyPtr(&row.PublishedAt, patch.PublishedAt)

	if key := r.restaurantContentConflict(row); key != "" {
		return nil, duplicate("query one", key)
	}
	row.UpdatedAt = r.now().UTC()
	r.restaurantContents[id] = row
	return cloneRestaurantContent(row), nil
}

func (r *Repository) DeleteRestaurantContent(ctx context.Context, id int64) (*hybridcontent.RestaurantContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.restaurantContents[id]
	if !ok {
		return nil, nil
	}
	delete(r.restaurantContents, id)
	return c, nil
}
