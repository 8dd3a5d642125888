package validation

import (
	"fmt"
	"time"

	"basera_backend/internal/model"
)

const (
	// Galeri sınırları developer gönderimlerinde zorlanır;
	// üst sınır her iki akışta da geçerlidir
	MinGalleryImages = 5
	MaxGalleryImages = 30
)

// IndividualInput individual ilan formunun alanları
type IndividualInput struct {
	Title        string
	PropertyType model.PropertyType
	BHK          int
	State        string
	City         string
	Locality     string
	Price        float64
	Description  string
	Facilities   []string
	HasCover     bool
}

// DeveloperInput developer proje formunun alanları
type DeveloperInput struct {
	ProjectName        string
	SchemeType         model.SchemeType
	State              string
	City               string
	Locality           string
	MinPrice           float64
	MaxPrice           float64
	PossessionStatus   model.PossessionStatus
	CompletionDate     *time.Time
	ReraRegistered     bool
	ReraNumber         string
	ContactPhone       string
	Description        string
	ResidentialOptions []string
	CommercialOptions  []string
	GalleryCount       int
}

func required(field string) error {
	return fmt.Errorf("%s is required", field)
}

// ValidateIndividual alanları form sırasına göre kontrol eder ve
// eksik/geçersiz ilk alanı döner. Ağ çağrısından önce çalışır.
func ValidateIndividual(in IndividualInput) error {
	if in.Title == "" {
		return required("title")
	}
	switch in.PropertyType {
	case model.PropertyTypeApartment, model.PropertyTypeIndependent,
		model.PropertyTypeVilla, model.PropertyTypePenthouse,
		model.PropertyTypeStudio, model.PropertyTypePlot,
		model.PropertyTypeFarmhouse, model.PropertyTypeCommercial:
	case "":
		return required("property type")
	default:
		return fmt.Errorf("property type %q is not recognized", in.PropertyType)
	}
	if in.State == "" || in.City == "" {
		return required("location")
	}
	if in.Price <= 0 {
		return required("price")
	}
	if in.Description == "" {
		return required("description")
	}
	if !in.HasCover {
		return required("cover image")
	}
	if in.BHK != 0 && !model.BHKEligible(in.PropertyType) {
		return fmt.Errorf("bhk does not apply to %s listings", in.PropertyType)
	}
	return nil
}

// ValidateDeveloper developer formunu kontrol eder; koşullu alanlar
// (tamamlanma tarihi, RERA numarası) temel alanlardan sonra gelir.
func ValidateDeveloper(in DeveloperInput) error {
	if in.ProjectName == "" {
		return required("project name")
	}
	switch in.SchemeType {
	case model.SchemeTypeResidential, model.SchemeTypeCommercial,
		model.SchemeTypeMixedUse, model.SchemeTypePlotted:
	case "":
		return required("scheme type")
	default:
		return fmt.Errorf("scheme type %q is not recognized", in.SchemeType)
	}
	if in.State == "" || in.City == "" {
		return required("project location")
	}
	if in.MinPrice <= 0 {
		return required("minimum price")
	}
	if in.MaxPrice < in.MinPrice {
		return fmt.Errorf("maximum price must not be below minimum price")
	}
	switch in.PossessionStatus {
	case model.PossessionReadyToMove, model.PossessionUnderConstruction, model.PossessionJustLaunched:
	case "":
		return required("possession status")
	default:
		return fmt.Errorf("possession status %q is not recognized", in.PossessionStatus)
	}
	if !ValidPhone(in.ContactPhone) {
		return fmt.Errorf("contact phone must be a 10-digit number")
	}
	if in.Description == "" {
		return required("description")
	}
	if in.GalleryCount < MinGalleryImages {
		return fmt.Errorf("at least %d gallery images are required", MinGalleryImages)
	}
	if in.GalleryCount > MaxGalleryImages {
		return fmt.Errorf("maximum %d gallery images allowed", MaxGalleryImages)
	}
	if in.PossessionStatus == model.PossessionUnderConstruction ||
		in.PossessionStatus == model.PossessionJustLaunched {
		if in.CompletionDate == nil {
			return required("completion date")
		}
	}
	if in.ReraRegistered && in.ReraNumber == "" {
		return required("RERA number")
	}
	return nil
}

// ValidPhone tam 10 haneli numara bekler
func ValidPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
