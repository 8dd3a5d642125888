package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basera_backend/internal/model"
)

func validIndividual() IndividualInput {
	return IndividualInput{
		Title:        "2 BHK in Andheri West",
		PropertyType: model.PropertyTypeApartment,
		BHK:          2,
		State:        "MH",
		City:         "Mumbai",
		Locality:     "Andheri West",
		Price:        9500000,
		Description:  "Well lit corner flat near the metro",
		HasCover:     true,
	}
}

func validDeveloper() DeveloperInput {
	completion := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	return DeveloperInput{
		ProjectName:      "Green Meadows Phase 2",
		SchemeType:       model.SchemeTypeResidential,
		State:            "KA",
		City:             "Bengaluru",
		Locality:         "Whitefield",
		MinPrice:         5500000,
		MaxPrice:         12500000,
		PossessionStatus: model.PossessionUnderConstruction,
		CompletionDate:   &completion,
		ReraRegistered:   true,
		ReraNumber:       "PRM/KA/RERA/1251/446/PR/010203/001234",
		ContactPhone:     "9876543210",
		Description:      "Gated community with 4 towers",
		GalleryCount:     8,
	}
}

func TestValidateIndividual(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		require.NoError(t, ValidateIndividual(validIndividual()))
	})

	t.Run("reports first missing field in form order", func(t *testing.T) {
		in := validIndividual()
		in.Title = ""
		in.Price = 0
		in.HasCover = false

		err := ValidateIndividual(in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "title")
	})

	t.Run("missing property type", func(t *testing.T) {
		in := validIndividual()
		in.PropertyType = ""
		assert.ErrorContains(t, ValidateIndividual(in), "property type")
	})

	t.Run("unknown property type", func(t *testing.T) {
		in := validIndividual()
		in.PropertyType = "castle"
		assert.ErrorContains(t, ValidateIndividual(in), "not recognized")
	})

	t.Run("missing city counts as missing location", func(t *testing.T) {
		in := validIndividual()
		in.City = ""
		assert.ErrorContains(t, ValidateIndividual(in), "location")
	})

	t.Run("zero price", func(t *testing.T) {
		in := validIndividual()
		in.Price = 0
		assert.ErrorContains(t, ValidateIndividual(in), "price")
	})

	t.Run("missing cover image", func(t *testing.T) {
		in := validIndividual()
		in.HasCover = false
		assert.ErrorContains(t, ValidateIndividual(in), "cover image")
	})

	t.Run("bhk rejected for plot", func(t *testing.T) {
		in := validIndividual()
		in.PropertyType = model.PropertyTypePlot
		in.BHK = 3
		assert.ErrorContains(t, ValidateIndividual(in), "bhk")
	})

	t.Run("bhk zero accepted for plot", func(t *testing.T) {
		in := validIndividual()
		in.PropertyType = model.PropertyTypePlot
		in.BHK = 0
		assert.NoError(t, ValidateIndividual(in))
	})
}

func TestValidateDeveloper(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		require.NoError(t, ValidateDeveloper(validDeveloper()))
	})

	t.Run("reports first missing field in form order", func(t *testing.T) {
		in := validDeveloper()
		in.ProjectName = ""
		in.ContactPhone = ""

		err := ValidateDeveloper(in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "project name")
	})

	t.Run("max price below min price", func(t *testing.T) {
		in := validDeveloper()
		in.MaxPrice = in.MinPrice - 1
		assert.ErrorContains(t, ValidateDeveloper(in), "maximum price")
	})

	t.Run("max equal to min is fine", func(t *testing.T) {
		in := validDeveloper()
		in.MaxPrice = in.MinPrice
		assert.NoError(t, ValidateDeveloper(in))
	})

	t.Run("phone must be ten digits", func(t *testing.T) {
		in := validDeveloper()
		in.ContactPhone = "98765"
		assert.ErrorContains(t, ValidateDeveloper(in), "contact phone")
	})

	t.Run("too few gallery images", func(t *testing.T) {
		in := validDeveloper()
		in.GalleryCount = MinGalleryImages - 1
		assert.ErrorContains(t, ValidateDeveloper(in), "gallery images")
	})

	t.Run("too many gallery images", func(t *testing.T) {
		in := validDeveloper()
		in.GalleryCount = MaxGalleryImages + 1
		assert.ErrorContains(t, ValidateDeveloper(in), "gallery images")
	})

	t.Run("completion date required while under construction", func(t *testing.T) {
		in := validDeveloper()
		in.CompletionDate = nil
		assert.ErrorContains(t, ValidateDeveloper(in), "completion date")
	})

	t.Run("completion date optional when ready to move", func(t *testing.T) {
		in := validDeveloper()
		in.PossessionStatus = model.PossessionReadyToMove
		in.CompletionDate = nil
		assert.NoError(t, ValidateDeveloper(in))
	})

	t.Run("rera number required when registered", func(t *testing.T) {
		in := validDeveloper()
		in.ReraNumber = ""
		assert.ErrorContains(t, ValidateDeveloper(in), "RERA")
	})

	t.Run("rera number optional when not registered", func(t *testing.T) {
		in := validDeveloper()
		in.ReraRegistered = false
		in.ReraNumber = ""
		assert.NoError(t, ValidateDeveloper(in))
	})
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("9876543210"))
	assert.False(t, ValidPhone("987654321"))
	assert.False(t, ValidPhone("98765432100"))
	assert.False(t, ValidPhone("98765abc10"))
	assert.False(t, ValidPhone("+919876543"))
	assert.False(t, ValidPhone(""))
}
