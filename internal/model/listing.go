package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property Types (individual ilanlar)
type PropertyType string

const (
	PropertyTypeApartment   PropertyType = "Apartment"
	PropertyTypeIndependent PropertyType = "Independent House"
	PropertyTypeVilla       PropertyType = "Villa"
	PropertyTypePenthouse   PropertyType = "Penthouse"
	PropertyTypeStudio      PropertyType = "Studio"
	PropertyTypePlot        PropertyType = "Plot"
	PropertyTypeFarmhouse   PropertyType = "Farmhouse"
	PropertyTypeCommercial  PropertyType = "Commercial"
)

// Scheme Types (developer projeleri)
type SchemeType string

const (
	SchemeTypeResidential SchemeType = "Residential"
	SchemeTypeCommercial  SchemeType = "Commercial"
	SchemeTypeMixedUse    SchemeType = "Mixed Use"
	SchemeTypePlotted     SchemeType = "Plotted Development"
)

// Possession Status
type PossessionStatus string

const (
	PossessionReadyToMove       PossessionStatus = "Ready To Move"
	PossessionUnderConstruction PossessionStatus = "Under Construction"
	PossessionJustLaunched      PossessionStatus = "Just Launched"
)

// Listing Status
type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusExpired ListingStatus = "expired"
	ListingStatusRemoved ListingStatus = "removed"
)

const (
	// EditWindow ilan sahibinin oluşturma sonrası düzenleme süresi
	EditWindow = 3 * 24 * time.Hour

	// DeveloperListingLifetime developer ilanlarının yayın süresi
	DeveloperListingLifetime = 365 * 24 * time.Hour
)

// bhkEligible BHK alanı taşıyabilen konut tipleri
var bhkEligible = map[PropertyType]bool{
	PropertyTypeApartment:   true,
	PropertyTypeIndependent: true,
	PropertyTypeVilla:       true,
	PropertyTypePenthouse:   true,
	PropertyTypeFarmhouse:   true,
}

// BHKEligible plot/studio/commercial gibi tiplerde false döner
func BHKEligible(t PropertyType) bool {
	return bhkEligible[t]
}

type Listing struct {
	gorm.Model
	Title       string        `json:"title" gorm:"not null"`
	Slug        string        `json:"slug" gorm:"uniqueIndex:idx_user_listing_slug;not null"`
	UserID      uint          `json:"user_id" gorm:"uniqueIndex:idx_user_listing_slug"`
	UserType    UserType      `json:"user_type" gorm:"not null;index"`
	Status      ListingStatus `json:"status" gorm:"not null;default:'active'"`
	Description string        `json:"description" gorm:"type:text"`

	// Location fields
	State    string `json:"state" gorm:"not null"`
	City     string `json:"city" gorm:"not null;index"`
	Locality string `json:"locality"`
	Address  string `json:"address" gorm:"type:text"`

	// Individual ilan alanları
	PropertyType PropertyType `json:"property_type"`
	BHK          int          `json:"bhk"` // sadece BHK uygun tiplerde dolu
	Price        float64      `json:"price"`

	// Developer proje alanları
	SchemeType         SchemeType       `json:"scheme_type"`
	ResidentialOptions datatypes.JSON   `json:"residential_options" gorm:"type:jsonb"` // ["2 BHK","3 BHK"]
	CommercialOptions  datatypes.JSON   `json:"commercial_options" gorm:"type:jsonb"`  // ["Shops","Offices"]
	MinPrice           float64          `json:"min_price"`
	MaxPrice           float64          `json:"max_price"`
	PossessionStatus   PossessionStatus `json:"possession_status"`
	CompletionDate     *time.Time       `json:"completion_date"`
	ReraRegistered     bool             `json:"rera_registered"`
	ReraNumber         string           `json:"rera_number"`
	TotalUnits         int              `json:"total_units"`
	TotalTowers        int              `json:"total_towers"`
	ProjectAreaAcres   float64          `json:"project_area_acres"`
	ContactPhone       string           `json:"contact_phone"`
	ExpiryDate         *time.Time       `json:"expiry_date"`

	Facilities datatypes.JSON `json:"facilities" gorm:"type:jsonb"`

	CoverImageURL string `json:"cover_image_url"`

	// Individual ilanı hangi abonelik hakkıyla verildi
	SubscriptionID *uint `json:"subscription_id" gorm:"index"`

	// İlişkiler
	User   User           `json:"-" gorm:"foreignKey:UserID"`
	Images []ListingImage `json:"images" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
}

type ListingImage struct {
	gorm.Model
	ListingID uint   `json:"listing_id"`
	URL       string `json:"url" gorm:"not null"`
	IsCover   bool   `json:"is_cover" gorm:"default:false"`
	Order     int    `json:"order" gorm:"default:0"`

	Listing Listing `json:"-" gorm:"foreignKey:ListingID"`
}

// EditableAt ilanın t anında hala düzenlenebilir olup olmadığını söyler.
// Sınır locked tarafında: t == CreatedAt + EditWindow artık kilitlidir.
func (l *Listing) EditableAt(t time.Time) bool {
	return t.Before(l.CreatedAt.Add(EditWindow))
}

// BeforeCreate ilan oluşturulurken slug'ı otomatik oluşturur
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.Slug == "" {
		slug := strings.ToLower(strings.ReplaceAll(l.Title, " ", "-"))
		slug = strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
				return r
			}
			return -1
		}, slug)

		// Slug'ın kullanıcı içinde benzersiz olduğundan emin ol
		var count int64
		tx.Model(&Listing{}).Where("user_id = ? AND slug = ?", l.UserID, slug).Count(&count)
		if count > 0 {
			slug = slug + "-" + time.Now().Format("20060102150405")
		}

		l.Slug = slug
	}
	return nil
}
