package cms

import (
	"context"
	"log/slog"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
)

// Service is the document-shaped CRUD contract over a content repository.
type Service struct {
	repo   hybridcontent.Repository
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a Service backed by repo.
func NewService(repo hybridcontent.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func one[R, A any](rec *R, err error, toDoc func(*R) *Document[A]) (*Document[A], error) {
	if err != nil || rec == nil {
		return nil, err
	}
	return toDoc(rec), nil
}

func many[R, A any](recs []*R, err error, toDoc func(*R) *Document[A]) ([]*Document[A], error) {
	if err != nil {
		return nil, err
	}
	out := make([]*Document[A], 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDoc(rec))
	}
	return out, nil
}

// Restaurant content

func (s *Service) CreateRestaurantContent(ctx context.Context, attrs RestaurantContentAttributes) (*Document[RestaurantContentAttributes], error) {
	rec, err := s.repo.CreateRestaurantContent(ctx, RestaurantContentRecord(attrs))
	if err == nil {
		s.logger.Debug("created restaurant content", "id", rec.ID, "firebase_id", rec.ExternalID)
	}
	return one(rec, err, RestaurantContentDocument)
}

func (s *Service) GetRestaurantContent(ctx context.Context, id int64) (*Document[RestaurantContentAttributes], error) {
	rec, err := s.repo.GetRestaurantContent(ctx, id)
	return one(rec, err, RestaurantContentDocument)
}

func (s *Service) GetRestaurantContentByExternalID(ctx context.Context, externalID string) (*Document[RestaurantContentAttributes], error) {
	rec, err := s.repo.GetRestaurantContentByExternalID(ctx, externalID)
	return one(rec, err, RestaurantContentDocument)
}

func (s *Service) GetRestaurantContentBySlug(ctx context.Context, slug string) (*Document[RestaurantContentAttributes], error) {
	rec, err := s.repo.GetRestaurantContentBySlug(ctx, slug)
	return one(rec, err, RestaurantContentDocument)
}

func (s *Service) ListPublishedRestaurantContent(ctx context.Context, limit, offset int) ([]*Document[RestaurantContentAttributes], error) {
	recs, err := s.repo.ListPublishedRestaurantContent(ctx, limit, offset)
	return many(recs, err, RestaurantContentDocument)
}

func (s *Service) UpdateRestaurantContent(ctx context.Context, id int64, patch hybridcontent.RestaurantContentPatch) (*Document[RestaurantContentAttributes], error) {
	rec, err := s.repo.UpdateRestaurantContent(ctx, id, patch)
	return one(rec, err, RestaurantContentDocument)
}

func (s *Service) DeleteRestaurantContent(ctx context.Context, id int64) (*Document[RestaurantContentAttributes], error) {
	rec, err := s.repo.DeleteRestaurantContent(ctx, id)
	return one(rec, err, RestaurantContentDocument)
}

// Menu categories

func (s *Service) CreateMenuCategory(ctx context.Context, attrs MenuCategoryAttributes) (*Document[MenuCategoryAttributes], error) {
	rec, err := s.repo.CreateMenuCategory(ctx, MenuCategoryRecord(attrs))
	return one(rec, err, MenuCategoryDocument)
}

func (s *Service) GetMenuCategory(ctx context.Context, id int64) (*Document[MenuCategoryAttributes], error) {
	rec, err := s.repo.GetMenuCategory(ctx, id)
	return one(rec, err, MenuCategoryDocument)
}

func (s *Service) GetMenuCategoryByExternalID(ctx context.Context, externalID string) (*Document[MenuCategoryAttributes], error) {
	rec, err := s.repo.GetMenuCategoryByExternalID(ctx, externalID)
	return one(rec, err, MenuCategoryDocument)
}

func (s *Service) ListMenuCategoriesByRestaurant(ctx context.Context, restaurantExternalID string) ([]*Document[MenuCategoryAttributes], error) {
	recs, err := s.repo.ListMenuCategoriesByRestaurant(ctx, restaurantExternalID)
	return many(recs, err, MenuCategoryDocument)
}

func (s *Service) UpdateMenuCategory(ctx context.Context, id int64, patch hybridcontent.MenuCategoryPatch) (*Document[MenuCategoryAttributes], error) {
	rec, err := s.repo.UpdateMenuCategory(ctx, id, patch)
	return one(rec, err, MenuCategoryDocument)
}

func (s *Service) DeleteMenuCategory(ctx context.Context, id int64) (*Document[MenuCategoryAttributes], error) {
	rec, err := s.repo.DeleteMenuCategory(ctx, id)
	return one(rec, err, MenuCategoryDocument)
}

// Menu items

func (s *Service) CreateMenuItem(ctx context.Context, attrs MenuItemAttributes) (*Document[MenuItemAttributes], error) {
	rec, err := s.repo.CreateMenuItem(ctx, MenuItemRecord(attrs))
	return one(rec, err, MenuItemDocument)
}

func (s *Service) GetMenuItem(ctx context.Context, id int64) (*Document[MenuItemAttributes], error) {
	rec, err := s.repo.GetMenuItem(ctx, id)
	return one(rec, err, MenuItemDocument)
}

func (s *Service) GetMenuItemByExternalID(ctx context.Context, externalID string) (*Document[MenuItemAttributes], error) {
	rec, err := s.repo.GetMenuItemByExternalID(ctx, externalID)
	return one(rec, err, MenuItemDocument)
}

func (s *Service) ListMenuItemsByCategory(ctx context.Context, categoryExternalID string) ([]*Document[MenuItemAttributes], error) {
	recs, err := s.repo.ListMenuItemsByCategory(ctx, categoryExternalID)
	return many(recs, err, MenuItemDocument)
}

func (s *Service) ListMenuItemsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*Document[MenuItemAttributes], error) {
	recs, err := s.repo.ListMenuItemsByRestaurant(ctx, restaurantExternalID)
	return many(recs, err, MenuItemDocument)
}

func (s *Service) UpdateMenuItem(ctx context.Context, id int64, patch hybridcontent.MenuItemPatch) (*Document[MenuItemAttributes], error) {
	rec, err := s.repo.UpdateMenuItem(ctx, id, patch)
	return one(rec, err, MenuItemDocument)
}

func (s *Service) DeleteMenuItem(ctx context.Context, id int64) (*Document[MenuItemAttributes], error) {
	rec, err := s.repo.DeleteMenuItem(ctx, id)
	return one(rec, err, MenuItemDocument)
}

// Blog posts

func (s *Service) CreateBlogPost(ctx context.Context, attrs BlogPostAttributes) (*Document[BlogPostAttributes], error) {
	rec, err := s.repo.CreateBlogPost(ctx, BlogPostRecord(attrs))
	return one(rec, err, BlogPostDocument)
}

func (s *Service) GetBlogPost(ctx context.Context, id int64) (*Document[BlogPostAttributes], error) {
	rec, err := s.repo.GetBlogPost(ctx, id)
	return one(rec, err, BlogPostDocument)
}

func (s *Service) GetBlogPostBySlug(ctx context.Context, slug string) (*Document[BlogPostAttributes], error) {
	rec, err := s.repo.GetBlogPostBySlug(ctx, slug)
	return one(rec, err, BlogPostDocument)
}

func (s *Service) ListPublishedBlogPosts(ctx context.Context, limit, offset int) ([]*Document[BlogPostAttributes], error) {
	recs, err := s.repo.ListPublishedBlogPosts(ctx, limit, offset)
	return many(recs, err, BlogPostDocument)
}

func (s *Service) ListFeaturedBlogPosts(ctx context.Context, limit int) ([]*Document[BlogPostAttributes], error) {
	recs, err := s.repo.ListFeaturedBlogPosts(ctx, limit)
	return many(recs, err, BlogPostDocument)
}

func (s *Service) ListBlogPostsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*Document[BlogPostAttributes], error) {
	recs, err := s.repo.ListBlogPostsByRestaurant(ctx, restaurantExternalID)
	return many(recs, err, BlogPostDocument)
}

func (s *Service) UpdateBlogPost(ctx context.Context, id int64, patch hybridcontent.BlogPostPatch) (*Document[BlogPostAttributes], error) {
	rec, err := s.repo.UpdateBlogPost(ctx, id, patch)
	return one(rec, err, BlogPostDocument)
}

func (s *Service) DeleteBlogPost(ctx context.Context, id int64) (*Document[BlogPostAttributes], error) {
	rec, err := s.repo.DeleteBlogPost(ctx, id)
	return one(rec, err, BlogPostDocument)
}

// Promotions

func (s *Service) CreatePromotion(ctx context.Context, attrs PromotionAttributes) (*Document[PromotionAttributes], error) {
	rec, err := s.repo.CreatePromotion(ctx, PromotionRecord(attrs))
	return one(rec, err, PromotionDocument)
}

func (s *Service) GetPromotion(ctx context.Context, id int64) (*Document[PromotionAttributes], error) {
	rec, err := s.repo.GetPromotion(ctx, id)
	return one(rec, err, PromotionDocument)
}

func (s *Service) GetPromotionByCode(ctx context.Context, code string) (*Document[PromotionAttributes], error) {
	rec, err := s.repo.GetPromotionByCode(ctx, code)
	return one(rec, err, PromotionDocument)
}

func (s *Service) ListPromotions(ctx context.Context, limit, offset int) ([]*Document[PromotionAttributes], error) {
	recs, err := s.repo.ListPromotions(ctx, limit, offset)
	return many(recs, err, PromotionDocument)
}

func (s *Service) ListActivePromotions(ctx context.Context) ([]*Document[PromotionAttributes], error) {
	recs, err := s.repo.ListActivePromotions(ctx)
	return many(recs, err, PromotionDocument)
}

func (s *Service) ListPromotionsByRestaurant(ctx context.Context, restaurantExternalID string) ([]*Document[PromotionAttributes], error) {
	recs, err := s.repo.ListPromotionsByRestaurant(ctx, restaurantExternalID)
	return many(recs, err, PromotionDocument)
}

func (s *Service) UpdatePromotion(ctx context.Context, id int64, patch hybridcontent.PromotionPatch) (*Document[PromotionAttributes], error) {
	rec, err := s.repo.UpdatePromotion(ctx, id, patch)
	return one(rec, err, PromotionDocument)
}

// RedeemPromotion records one use of the promotion.
func (s *Service) RedeemPromotion(ctx context.Context, id int64) (*Document[PromotionAttributes], error) {
	rec, err := s.repo.IncrementPromotionUsage(ctx, id)
	return one(rec, err, PromotionDocument)
}

func (s *Service) DeletePromotion(ctx context.Context, id int64) (*Document[PromotionAttributes], error) {
	rec, err := s.repo.DeletePromotion(ctx, id)
	return one(rec, err, PromotionDocument)
}
