package hybridcontent

import "time"

// Spice levels recognised for menu items.
const (
	SpiceNone   = "none"
	SpiceMild   = "mild"
	SpiceMedium = "medium"
	SpiceHot    = "hot"
)

// Promotion classification values.
const (
	PromotionTypeDiscount     = "discount"
	PromotionTypeFreeDelivery = "free_delivery"
	PromotionTypeBundle       = "bundle"

	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// GalleryImage is one entry of a restaurant gallery.
type GalleryImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	Alt     string `json:"alt,omitempty"`
}

// Award is a distinction received by a restaurant.
type Award struct {
	Title  string `json:"title"`
	Issuer string `json:"issuer,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// Certification is a hygiene, sourcing or dietary certificate.
type Certification struct {
	Name       string `json:"name"`
	Issuer     string `json:"issuer,omitempty"`
	ValidUntil string `json:"valid_until,omitempty"`
}

// SocialMedia links for a restaurant.
type SocialMedia struct {
	Website   string `json:"website,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
}

// SEOData is the search metadata shared by every content category.
type SEOData struct {
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	CanonicalURL string   `json:"canonical_url,omitempty"`
	OGImage      string   `json:"og_image,omitempty"`
}

// NutritionalInfo per serving.
type NutritionalInfo struct {
	Calories     int     `json:"calories,omitempty"`
	ProteinGrams float64 `json:"protein_g,omitempty"`
	CarbsGrams   float64 `json:"carbs_g,omitempty"`
	FatGrams     float64 `json:"fat_g,omitempty"`
	FiberGrams   float64 `json:"fiber_g,omitempty"`
	SodiumMg     float64 `json:"sodium_mg,omitempty"`
	ServingSizeG float64 `json:"serving_size_g,omitempty"`
}

// RestaurantContent augments an operational restaurant, keyed by ExternalID.
type RestaurantContent struct {
	ID              int64
	ExternalID      string
	Slug            string
	Story           string
	LongDescription string
	HeroImageURL    string
	GalleryImages   []GalleryImage
	Awards          []Award
	Certifications  []Certification
	SpecialFeatures []string
	SocialMedia     SocialMedia
	SEOData         SEOData
	IsPublished     bool
	PublishedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MenuCategory augments an operational menu category.
type MenuCategory struct {
	ID                   int64
	ExternalID           string
	RestaurantExternalID string
	Name                 string
	Description          string
	ImageURL             string
	SortOrder            int
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// MenuItem augments an operational menu item.
type MenuItem struct {
	ID                   int64
	ExternalID           string
	CategoryExternalID   string
	RestaurantExternalID string
	Name                 string
	DetailedDescription  string
	ShortDescription     string
	Images               []string
	Ingredients          []string
	Allergens            []string
	NutritionalInfo      NutritionalInfo
	PreparationSteps     []string
	ChefNotes            string
	Tags                 []string
	IsVegetarian         bool
	IsVegan              bool
	IsGlutenFree         bool
	SpiceLevel           string
	PreparationTime      int
	SEOData              SEOData
	IsPublished          bool
	PublishedAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// BlogPost is standalone editorial content.
type BlogPost struct {
	ID                 int64
	Title              string
	Slug               string
	Content            string
	Excerpt            string
	FeaturedImageURL   string
	AuthorName         string
	AuthorBio          string
	AuthorAvatarURL    string
	Categories         []string
	Tags               []string
	RelatedRestaurants []string
	ReadingTime        int
	IsPublished        bool
	IsFeatured         bool
	SEOData            SEOData
	PublishedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Promotion is a standalone time-windowed offer. Empty target lists apply to
// everything.
type Promotion struct {
	ID                int64
	Title             string
	Description       string
	ShortDescription  string
	ImageURL          string
	BannerImageURL    string
	PromotionType     string
	DiscountType      string
	DiscountValue     float64
	MinimumOrderValue float64
	ValidFrom         time.Time
	ValidUntil        time.Time
	IsActive          bool
	TargetRestaurants []string
	TargetCategories  []string
	TargetMenuItems   []string
	MaxUsagePerUser   *int
	TotalUsageLimit   *int
	CurrentUsageCount int
	PromoCode         string
	Terms             string
	SEOData           SEOData
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ActiveAt reports whether the promotion is enabled and now falls inside its
// validity window, bounds inclusive.
func (p *Promotion) ActiveAt(now time.Time) bool {
	return p.IsActive && !now.Before(p.ValidFrom) && !now.After(p.ValidUntil)
}

// AppliesToRestaurant reports whether the promotion targets externalID. An
// empty target list applies to every restaurant.
func (p *Promotion) AppliesToRestaurant(externalID string) bool {
	if len(p.TargetRestaurants) == 0 {
		return true
	}
	for _, id := range p.TargetRestaurants {
		if id == externalID {
			return true
		}
	}
	return false
}

// RestaurantContentPatch lists the restaurant content fields that may change.
type RestaurantContentPatch struct {
	Slug            Optional[string]          `json:"slug"`
	Story           Optional[string]          `json:"story"`
	LongDescription Optional[string]          `json:"longDescription"`
	HeroImageURL    Optional[string]          `json:"heroImageUrl"`
	GalleryImages   Optional[[]GalleryImage]  `json:"galleryImages"`
	Awards          Optional[[]Award]         `json:"awards"`
	Certifications  Optional[[]Certification] `json:"certifications"`
	SpecialFeatures Optional[[]string]        `json:"specialFeatures"`
	SocialMedia     Optional[SocialMedia]     `json:"socialMedia"`
	SEOData         Optional[SEOData]         `json:"seoData"`
	IsPublished     Optional[bool]            `json:"isPublished"`
	PublishedAt     Optional[*time.Time]      `json:"publishedAt"`
}

// MenuCategoryPatch lists the menu category fields that may change.
type MenuCategoryPatch struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
	ImageURL    Optional[string] `json:"imageUrl"`
	SortOrder   Optional[int]    `json:"sortOrder"`
	IsActive    Optional[bool]   `json:"isActive"`
}

// MenuItemPatch lists the menu item fields that may change.
type MenuItemPatch struct {
	CategoryExternalID  Optional[string]          `json:"categoryFirebaseId"`
	Name                Optional[string]          `json:"name"`
	DetailedDescription Optional[string]          `json:"detailedDescription"`
	ShortDescription    Optional[string]          `json:"shortDescription"`
	Images              Optional[[]string]        `json:"images"`
	Ingredients         Optional[[]string]        `json:"ingredients"`
	Allergens           Optional[[]string]        `json:"allergens"`
	NutritionalInfo     Optional[NutritionalInfo] `json:"nutritionalInfo"`
	PreparationSteps    Optional[[]string]        `json:"preparationSteps"`
	ChefNotes           Optional[string]          `json:"chefNotes"`
	Tags                Optional[[]string]        `json:"tags"`
	IsVegetarian        Optional[bool]            `json:"isVegetarian"`
	IsVegan             Optional[bool]            `json:"isVegan"`
	IsGlutenFree        Optional[bool]            `json:"isGlutenFree"`
	SpiceLevel          Optional[string]          `json:"spiceLevel"`
	PreparationTime     Optional[int]             `json:"preparationTime"`
	SEOData             Optional[SEOData]         `json:"seoData"`
	IsPublished         Optional[bool]            `json:"isPublished"`
	PublishedAt         Optional[*time.Time]      `json:"publishedAt"`
}

// BlogPostPatch lists the blog post fields that may change.
type BlogPostPatch struct {
	Title              Optional[string]     `json:"title"`
	Slug               Optional[string]     `json:"slug"`
	Content            Optional[string]     `json:"content"`
	Excerpt            Optional[string]     `json:"excerpt"`
	FeaturedImageURL   Optional[string]     `json:"featuredImageUrl"`
	AuthorName         Optional[string]     `json:"authorName"`
	AuthorBio          Optional[string]     `json:"authorBio"`
	AuthorAvatarURL    Optional[string]     `json:"authorAvatarUrl"`
	Categories         Optional[[]string]   `json:"categories"`
	Tags               Optional[[]string]   `json:"tags"`
	RelatedRestaurants Optional[[]string]   `json:"relatedRestaurants"`
	ReadingTime        Optional[int]        `json:"readingTime"`
	IsPublished        Optional[bool]       `json:"isPublished"`
	IsFeatured         Optional[bool]       `json:"isFeatured"`
	SEOData            Optional[SEOData]    `json:"seoData"`
	PublishedAt        Optional[*time.Time] `json:"publishedAt"`
}

// PromotionPatch lists the promotion fields that may change.
type PromotionPatch struct {
	Title             Optional[string]    `json:"title"`
	Description       Optional[string]    `json:"description"`
	ShortDescription  Optional[string]    `json:"shortDescription"`
	ImageURL          Optional[string]    `json:"imageUrl"`
	BannerImageURL    Optional[string]    `json:"bannerImageUrl"`
	PromotionType     Optional[string]    `json:"promotionType"`
	DiscountType      Optional[string]    `json:"discountType"`
	DiscountValue     Optional[float64]   `json:"discountValue"`
	MinimumOrderValue Optional[float64]   `json:"minimumOrderValue"`
	ValidFrom         Optional[time.Time] `json:"validFrom"`
	ValidUntil        Optional[time.Time] `json:"validUntil"`
	IsActive          Optional[bool]      `json:"isActive"`
	TargetRestaurants Optional[[]string]  `json:"targetRestaurants"`
	TargetCategories  Optional[[]string]  `json:"targetCategories"`
	TargetMenuItems   Optional[[]string]  `json:"targetMenuItems"`
	MaxUsagePerUser   Optional[*int]      `json:"maxUsagePerUser"`
	TotalUsageLimit   Optional[*int]      `json:"totalUsageLimit"`
	PromoCode         Optional[string]    `json:"promoCode"`
	Terms             Optional[string]    `json:"terms"`
	SEOData           Optional[SEOData]   `json:"seoData"`
}
