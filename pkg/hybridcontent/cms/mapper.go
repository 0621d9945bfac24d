package cms

import (
	"github.com/tendant/hybrid-content/pkg/hybridcontent"
)

func seoFrom(s hybridcontent.SEOData) SEO {
	return SEO{
		Title:        s.Title,
		Description:  s.Description,
		Keywords:     s.Keywords,
		CanonicalURL: s.CanonicalURL,
		OGImage:      s.OGImage,
	}
}

func (s SEO) data() hybridcontent.SEOData {
	return hybridcontent.SEOData{
		Title:        s.Title,
		Description:  s.Description,
		Keywords:     s.Keywords,
		CanonicalURL: s.CanonicalURL,
		OGImage:      s.OGImage,
	}
}

// RestaurantContentDocument maps a stored row to its document.
func RestaurantContentDocument(c *hybridcontent.RestaurantContent) *Document[RestaurantContentAttributes] {
	return &Document[RestaurantContentAttributes]{
		ID: c.ID,
		Attributes: RestaurantContentAttributes{
			FirebaseID:      c.ExternalID,
			Slug:            c.Slug,
			Story:           c.Story,
			LongDescription: c.LongDescription,
			HeroImageURL:    c.HeroImageURL,
			GalleryImages:   c.GalleryImages,
			Awards:          c.Awards,
			Certifications:  c.Certifications,
			SpecialFeatures: c.SpecialFeatures,
			SocialMedia:     c.SocialMedia,
			SEO:             seoFrom(c.SEOData),
			IsPublished:     c.IsPublished,
			PublishedAt:     c.PublishedAt,
			CreatedAt:       c.CreatedAt,
			UpdatedAt:       c.UpdatedAt,
		},
	}
}

// RestaurantContentRecord maps attributes back to a row. Timestamps are
// assigned by the store and ignored.
func RestaurantContentRecord(a RestaurantContentAttributes) *hybridcontent.RestaurantContent {
	return &hybridcontent.RestaurantContent{
		ExternalID:      a.FirebaseID,
		Slug:            a.Slug,
		Story:           a.Story,
		LongDescription: a.LongDescription,
		HeroImageURL:    a.HeroImageURL,
		GalleryImages:   a.GalleryImages,
		Awards:          a.Awards,
		Certifications:  a.Certifications,
		SpecialFeatures: a.SpecialFeatures,
		SocialMedia:     a.SocialMedia,
		SEOData:         a.SEO.data(),
		IsPublished:     a.IsPublished,
		PublishedAt:     a.PublishedAt,
	}
}

func MenuCategoryDocument(c *hybridcontent.MenuCategory) *Document[MenuCategoryAttributes] {
	return &Document[MenuCategoryAttributes]{
		ID: c.ID,
		Attributes: MenuCategoryAttributes{
			FirebaseID:           c.ExternalID,
			RestaurantFirebaseID: c.RestaurantExternalID,
			Name:                 c.Name,
			Description:          c.Description,
			ImageURL:             c.ImageURL,
			SortOrder:            c.SortOrder,
			IsActive:             c.IsActive,
			CreatedAt:            c.CreatedAt,
			UpdatedAt:            c.UpdatedAt,
		},
	}
}

func MenuCategoryRecord(a MenuCategoryAttributes) *hybridcontent.MenuCategory {
	return &hybridcontent.MenuCategory{
		ExternalID:           a.FirebaseID,
		RestaurantExternalID: a.RestaurantFirebaseID,
		Name:                 a.Name,
		Description:          a.Description,
		ImageURL:             a.ImageURL,
		SortOrder:            a.SortOrder,
		IsActive:             a.IsActive,
	}
}

func MenuItemDocument(i *hybridcontent.MenuItem) *Document[MenuItemAttributes] {
	return &Document[MenuItemAttributes]{
		ID: i.ID,
		Attributes: MenuItemAttributes{
			FirebaseID:           i.ExternalID,
			CategoryFirebaseID:   i.CategoryExternalID,
			RestaurantFirebaseID: i.RestaurantExternalID,
			Name:                 i.Name,
			DetailedDescription:  i.DetailedDescription,
			ShortDescription:     i.ShortDescription,
			Images:               i.Images,
			Ingredients:          i.Ingredients,
			Allergens:            i.Allergens,
			NutritionalInfo:      i.NutritionalInfo,
			PreparationSteps:     i.PreparationSteps,
			ChefNotes:            i.ChefNotes,
			Tags:                 i.Tags,
			Dietary: Dietary{
				Vegetarian: i.IsVegetarian,
				Vegan:      i.IsVegan,
				GlutenFree: i.IsGlutenFree,
			},
			SpiceLevel:      i.SpiceLevel,
			PreparationTime: i.PreparationTime,
			SEO:             seoFrom(i.SEOData),
			IsPublished:     i.IsPublished,
			PublishedAt:     i.PublishedAt,
			CreatedAt:       i.CreatedAt,
			UpdatedAt:       i.UpdatedAt,
		},
	}
}

func MenuItemRecord(a MenuItemAttributes) *hybridcontent.MenuItem {
	return &hybridcontent.MenuItem{
		ExternalID:           a.FirebaseID,
		CategoryExternalID:   a.CategoryFirebaseID,
		RestaurantExternalID: a.RestaurantFirebaseID,
		Name:                 a.Name,
		DetailedDescription:  a.DetailedDescription,
		ShortDescription:     a.ShortDescription,
		Images:               a.Images,
		Ingredients:          a.Ingredients,
		Allergens:            a.Allergens,
		NutritionalInfo:      a.NutritionalInfo,
		PreparationSteps:     a.PreparationSteps,
		ChefNotes:            a.ChefNotes,
		Tags:                 a.Tags,
		IsVegetarian:         a.Dietary.Vegetarian,
		IsVegan:              a.Dietary.Vegan,
		IsGlutenFree:         a.Dietary.GlutenFree,
		SpiceLevel:           a.SpiceLevel,
		PreparationTime:      a.PreparationTime,
		SEOData:              a.SEO.data(),
		IsPublished:          a.IsPublished,
		PublishedAt:          a.PublishedAt,
	}
}

func BlogPostDocument(p *hybridcontent.BlogPost) *Document[BlogPostAttributes] {
	return &Document[BlogPostAttributes]{
		ID: p.ID,
		Attributes: BlogPostAttributes{
			Title:            p.Title,
			Slug:             p.Slug,
			Content:          p.Content,
			Excerpt:          p.Excerpt,
			FeaturedImageURL: p.FeaturedImageURL,
			Author: Author{
				Name:      p.AuthorName,
				Bio:       p.AuthorBio,
				AvatarURL: p.AuthorAvatarURL,
			},
			Categories:         p.Categories,
			Tags:               p.Tags,
			RelatedRestaurants: p.RelatedRestaurants,
			ReadingTime:        p.ReadingTime,
			IsPublished:        p.IsPublished,
			IsFeatured:         p.IsFeatured,
			SEO:                seoFrom(p.SEOData),
			PublishedAt:        p.PublishedAt,
			CreatedAt:          p.CreatedAt,
			UpdatedAt:          p.UpdatedAt,
		},
	}
}

func BlogPostRecord(a BlogPostAttributes) *hybridcontent.BlogPost {
	return &hybridcontent.BlogPost{
		Title:              a.Title,
		Slug:               a.Slug,
		Content:            a.Content,
		Excerpt:            a.Excerpt,
		FeaturedImageURL:   a.FeaturedImageURL,
		AuthorName:         a.Author.Name,
		AuthorBio:          a.Author.Bio,
		AuthorAvatarURL:    a.Author.AvatarURL,
		Categories:         a.Categories,
		Tags:               a.Tags,
		RelatedRestaurants: a.RelatedRestaurants,
		ReadingTime:        a.ReadingTime,
		IsPublished:        a.IsPublished,
		IsFeatured:         a.IsFeatured,
		SEOData:            a.SEO.data(),
		PublishedAt:        a.PublishedAt,
	}
}

func PromotionDocument(p *hybridcontent.Promotion) *Document[PromotionAttributes] {
	return &Document[PromotionAttributes]{
		ID: p.ID,
		Attributes: PromotionAttributes{
			Title:            p.Title,
			Description:      p.Description,
			ShortDescription: p.ShortDescription,
			ImageURL:         p.ImageURL,
			BannerImageURL:   p.BannerImageURL,
			PromotionType:    p.PromotionType,
			Discount: Discount{
				Type:              p.DiscountType,
				Value:             p.DiscountValue,
				MinimumOrderValue: p.MinimumOrderValue,
			},
			Validity: Validity{
				From:     p.ValidFrom,
				Until:    p.ValidUntil,
				IsActive: p.IsActive,
			},
			Targets: Targets{
				Restaurants: p.TargetRestaurants,
				Categories:  p.TargetCategories,
				MenuItems:   p.TargetMenuItems,
			},
			Usage: Usage{
				MaxPerUser: p.MaxUsagePerUser,
				TotalLimit: p.TotalUsageLimit,
				Count:      p.CurrentUsageCount,
			},
			PromoCode: p.PromoCode,
			Terms:     p.Terms,
			SEO:       seoFrom(p.SEOData),
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
	}
}

// PromotionRecord maps attributes back to a row. The usage count is owned by
// the store and is not copied.
func PromotionRecord(a PromotionAttributes) *hybridcontent.Promotion {
	return &hybridcontent.Promotion{
		Title:             a.Title,
		Description:       a.Description,
		ShortDescription:  a.ShortDescription,
		ImageURL:          a.ImageURL,
		BannerImageURL:    a.BannerImageURL,
		PromotionType:     a.PromotionType,
		DiscountType:      a.Discount.Type,
		DiscountValue:     a.Discount.Value,
		MinimumOrderValue: a.Discount.MinimumOrderValue,
		ValidFrom:         a.Validity.From,
		ValidUntil:        a.Validity.Until,
		IsActive:          a.Validity.IsActive,
		TargetRestaurants: a.Targets.Restaurants,
		TargetCategories:  a.Targets.Categories,
		TargetMenuItems:   a.Targets.MenuItems,
		MaxUsagePerUser:   a.Usage.MaxPerUser,
		TotalUsageLimit:   a.Usage.TotalLimit,
		PromoCode:         a.PromoCode,
		Terms:             a.Terms,
		SEOData:           a.SEO.data(),
	}
}
