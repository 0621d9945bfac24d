// Package cms presents content records in one uniform nested shape,
// {id, attributes: {...}}, so callers never see storage column names.
// It performs no caching.
package cms

import (
	"time"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
)

// Document is the uniform envelope for every content category.
type Document[A any] struct {
	ID         int64 `json:"id"`
	Attributes A     `json:"attributes"`
}

// SEO is the search metadata shared by every category.
type SEO struct {
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	CanonicalURL string   `json:"canonicalUrl,omitempty"`
	OGImage      string   `json:"ogImage,omitempty"`
}

type RestaurantContentAttributes struct {
	FirebaseID      string                        `json:"firebaseId"`
	Slug            string                        `json:"slug,omitempty"`
	Story           string                        `json:"story,omitempty"`
	LongDescription string                        `json:"longDescription,omitempty"`
	HeroImageURL    string                        `json:"heroImageUrl,omitempty"`
	GalleryImages   []hybridcontent.GalleryImage  `json:"galleryImages"`
	Awards          []hybridcontent.Award         `json:"awards"`
	Certifications  []hybridcontent.Certification `json:"certifications"`
	SpecialFeatures []string                      `json:"specialFeatures"`
	SocialMedia     hybridcontent.SocialMedia     `json:"socialMedia"`
	SEO             SEO                           `json:"seo"`
	IsPublished     bool                          `json:"isPublished"`
	PublishedAt     *time.Time                    `json:"publishedAt,omitempty"`
	CreatedAt       time.Time                     `json:"createdAt"`
	UpdatedAt       time.Time                     `json:"updatedAt"`
}

type MenuCategoryAttributes struct {
	FirebaseID           string    `json:"firebaseId"`
	RestaurantFirebaseID string    `json:"restaurantFirebaseId"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	ImageURL             string    `json:"imageUrl,omitempty"`
	SortOrder            int       `json:"sortOrder"`
	IsActive             bool      `json:"isActive"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Dietary groups the menu item dietary flags.
type Dietary struct {
	Vegetarian bool `json:"vegetarian"`
	Vegan      bool `json:"vegan"`
	GlutenFree bool `json:"glutenFree"`
}

type MenuItemAttributes struct {
	FirebaseID           string                        `json:"firebaseId"`
	CategoryFirebaseID   string                        `json:"categoryFirebaseId,omitempty"`
	RestaurantFirebaseID string                        `json:"restaurantFirebaseId"`
	Name                 string                        `json:"name"`
	DetailedDescription  string                        `json:"detailedDescription,omitempty"`
	ShortDescription     string                        `json:"shortDescription,omitempty"`
	Images               []string                      `json:"images"`
	Ingredients          []string                      `json:"ingredients"`
	Allergens            []string                      `json:"allergens"`
	NutritionalInfo      hybridcontent.NutritionalInfo `json:"nutritionalInfo"`
	PreparationSteps     []string                      `json:"preparationSteps"`
	ChefNotes            string                        `json:"chefNotes,omitempty"`
	Tags                 []string                      `json:"tags"`
	Dietary              Dietary                       `json:"dietary"`
	SpiceLevel           string                        `json:"spiceLevel,omitempty"`
	PreparationTime      int                           `json:"preparationTime,omitempty"`
	SEO                  SEO                           `json:"seo"`
	IsPublished          bool                          `json:"isPublished"`
	PublishedAt          *time.Time                    `json:"publishedAt,omitempty"`
	CreatedAt            time.Time                     `json:"createdAt"`
	UpdatedAt            time.Time                     `json:"updatedAt"`
}

// Author of a blog post.
type Author struct {
	Name      string `json:"name,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type BlogPostAttributes struct {
	Title              string     `json:"title"`
	Slug               string     `json:"slug"`
	Content            string     `json:"content,omitempty"`
	Excerpt            string     `json:"excerpt,omitempty"`
	FeaturedImageURL   string     `json:"featuredImageUrl,omitempty"`
	Author             Author     `json:"author"`
	Categories         []string   `json:"categories"`
	Tags               []string   `json:"tags"`
	RelatedRestaurants []string   `json:"relatedRestaurants"`
	ReadingTime        int        `json:"readingTime,omitempty"`
	IsPublished        bool       `json:"isPublished"`
	IsFeatured         bool       `json:"isFeatured"`
	SEO                SEO        `json:"seo"`
	PublishedAt        *time.Time `json:"publishedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Discount describes what a promotion takes off an order.
type Discount struct {
	Type              string  `json:"type,omitempty"`
	Value             float64 `json:"value"`
	MinimumOrderValue float64 `json:"minimumOrderValue"`
}

// Validity is the window in which a promotion may be redeemed.
type Validity struct {
	From     time.Time `json:"from"`
	Until    time.Time `json:"until"`
	IsActive bool      `json:"isActive"`
}

// Targets restricts a promotion. Empty lists apply to everything.
type Targets struct {
	Restaurants []string `json:"restaurants"`
	Categories  []string `json:"categories"`
	MenuItems   []string `json:"menuItems"`
}

// Usage tracks redemption limits and the running count.
type Usage struct {
	MaxPerUser *int `json:"maxPerUser,omitempty"`
	TotalLimit *int `json:"totalLimit,omitempty"`
	Count      int  `json:"count"`
}

type PromotionAttributes struct {
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	ShortDescription string    `json:"shortDescription,omitempty"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	BannerImageURL   string    `json:"bannerImageUrl,omitempty"`
	PromotionType    string    `json:"promotionType,omitempty"`
	Discount         Discount  `json:"discount"`
	Validity         Validity  `json:"validity"`
	Targets          Targets   `json:"targets"`
	Usage            Usage     `json:"usage"`
	PromoCode        string    `json:"promoCode,omitempty"`
	Terms            string    `json:"terms,omitempty"`
	SEO              SEO       `json:"seo"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
